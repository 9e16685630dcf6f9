package debug

import (
	"fmt"

	"github.com/cespare/xxhash"

	"github.com/valerio/go-dmg/dmg/video"
)

// FrameHash fingerprints a frame by its shade levels, so two frames hash
// equal exactly when they look the same.
func FrameHash(frame *video.Frame) uint64 {
	levels := make([]byte, 0, video.Width*video.Height)
	for y := range frame {
		for _, c := range frame[y] {
			levels = append(levels, byte(c.Level()))
		}
	}
	return xxhash.Sum64(levels)
}

func hex16(v uint16) string {
	return fmt.Sprintf("%04X", v)
}
