package video

import "strings"

// Layers selects which planes the compositor draws. Hosts use it to hide
// a plane while debugging, the LCDC enable bits still apply on top.
type Layers uint8

const (
	LayerBackground Layers = 1 << iota
	LayerWindow
	LayerSprites

	AllLayers = LayerBackground | LayerWindow | LayerSprites
)

func (l Layers) Has(layer Layers) bool {
	return l&layer != 0
}

func (l Layers) Toggle(layer Layers) Layers {
	return l ^ layer
}

func (l Layers) String() string {
	var names []string
	if l.Has(LayerBackground) {
		names = append(names, "bg")
	}
	if l.Has(LayerWindow) {
		names = append(names, "window")
	}
	if l.Has(LayerSprites) {
		names = append(names, "sprites")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}
