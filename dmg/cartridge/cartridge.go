package cartridge

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxSize is the largest image the bank controller can address (128 banks of 16KB).
const MaxSize = 0x200000

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	headerEnd            = 0x150
)

var (
	// ErrTooLarge is returned for images that exceed MaxSize.
	ErrTooLarge = errors.New("cartridge image exceeds 2MB")
	// ErrTooSmall is returned for images that do not contain a full header.
	ErrTooSmall = errors.New("cartridge image is shorter than its header")
)

// Type is the cartridge type code found at 0x147.
type Type uint8

const (
	ROMOnly          Type = 0x00
	MBC1             Type = 0x01
	MBC1RAM          Type = 0x02
	MBC1RAMBattery   Type = 0x03
	MBC2             Type = 0x05
	MBC2Battery      Type = 0x06
	MBC3TimerBattery Type = 0x0F
	MBC3             Type = 0x11
	MBC3RAMBattery   Type = 0x13
	MBC5             Type = 0x19
	MBC5RAMBattery   Type = 0x1B
)

var typeNames = map[Type]string{
	ROMOnly:          "ROM ONLY",
	MBC1:             "MBC1",
	MBC1RAM:          "MBC1+RAM",
	MBC1RAMBattery:   "MBC1+RAM+BATTERY",
	MBC2:             "MBC2",
	MBC2Battery:      "MBC2+BATTERY",
	MBC3TimerBattery: "MBC3+TIMER+BATTERY",
	MBC3:             "MBC3",
	MBC3RAMBattery:   "MBC3+RAM+BATTERY",
	MBC5:             "MBC5",
	MBC5RAMBattery:   "MBC5+RAM+BATTERY",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown (0x%02X)", uint8(t))
}

// Supported reports whether the type runs on the MBC1 model (or has no controller at all).
func (t Type) Supported() bool {
	return t == ROMOnly || t == MBC1 || t == MBC1RAM || t == MBC1RAMBattery
}

// Header holds the fields of the cartridge header used by the emulator.
type Header struct {
	Title   string
	Type    Type
	ROMSize int
	// RAMCode is kept as-is, external RAM is always 32KB.
	RAMCode uint8
}

// Cartridge is an immutable ROM image padded to MaxSize, so that any bank
// number the controller can produce indexes inside it.
type Cartridge struct {
	Header Header
	data   []byte
}

// Load parses the header and copies the image.
func Load(data []byte) (*Cartridge, error) {
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if len(data) < headerEnd {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}

	header := Header{
		Title:   cleanTitle(data[titleAddress : titleAddress+titleLength]),
		Type:    Type(data[cartridgeTypeAddress]),
		ROMSize: romSize(data[romSizeAddress]),
		RAMCode: data[ramSizeAddress],
	}

	image := make([]byte, MaxSize)
	copy(image, data)

	return &Cartridge{Header: header, data: image}, nil
}

// Read returns the byte at offset in the image. Offsets past MaxSize wrap.
func (c *Cartridge) Read(offset int) byte {
	return c.data[offset%MaxSize]
}

// Bytes returns a copy of the declared part of the image.
func (c *Cartridge) Bytes() []byte {
	out := make([]byte, c.Header.ROMSize)
	copy(out, c.data)
	return out
}

// romSize decodes the ROM size code, 0x00 is 32KB and each step doubles it.
// Unknown codes are clamped to the maximum.
func romSize(code uint8) int {
	if code > 0x06 {
		return MaxSize
	}
	return 0x8000 << code
}

// cleanTitle turns the raw title field into a printable string,
// NUL padding is dropped and non printable bytes become '?'.
func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}
	return title
}
