package render

import "github.com/valerio/go-dmg/dmg/memory"

// holdFrames is how long a button stays down after its last key event.
// Terminals report presses and auto-repeats but never releases.
const holdFrames = 10

// Keys turns terminal key events into held buttons. It implements
// dmg.InputSource and is only touched from the frame loop.
type Keys struct {
	held [8]int
}

func NewKeys() *Keys {
	return &Keys{}
}

// Press marks the buttons as held for the next holdFrames frames.
func (k *Keys) Press(b memory.Buttons) {
	for i := range k.held {
		if b&(1<<i) != 0 {
			k.held[i] = holdFrames
		}
	}
}

// Tick ages every held button by one frame.
func (k *Keys) Tick() {
	for i := range k.held {
		if k.held[i] > 0 {
			k.held[i]--
		}
	}
}

func (k *Keys) Buttons() memory.Buttons {
	var b memory.Buttons
	for i, frames := range k.held {
		if frames > 0 {
			b |= 1 << i
		}
	}
	return b
}
