package video

// priorityBuffer resolves which sprite pixel wins each screen column when
// the per line sprite limit is enabled, see
// https://gbdev.io/pandocs/OAM.html#drawing-priority.
//
// Only opaque pixels claim a column. Among the claims for a column the
// sprite with the lower X wins, and on equal X the lower OAM index wins:
//
//	Pixels:    10 11 12 13 14 15 16 17 18 19 20 21
//	Sprite 1:        [-----D-----]              (X=12, OAM=1)
//	Sprite 3:        [-----C-----]              (X=12, OAM=3)
//	Sprite 5:  [-----E-----]                    (X=10, OAM=5)
//	Result:    [-----E-----]--D--]
//
// Claiming per column while scanning in OAM order gives the same result as
// sorting the line's sprites by (X, OAM index) without the sort.
type priorityBuffer struct {
	owners [Width]claim
}

type claim struct {
	oam    int // -1 when the column is free
	x      int
	index  uint8
	sprite Sprite
}

func (p *priorityBuffer) clear() {
	for i := range p.owners {
		p.owners[i] = claim{oam: -1}
	}
}

// tryClaim offers an opaque pixel of s at screen column x.
func (p *priorityBuffer) tryClaim(x int, s Sprite, index uint8) bool {
	if x < 0 || x >= Width {
		return false
	}

	current := p.owners[x]
	switch {
	case current.oam == -1,
		s.X < current.x,
		s.X == current.x && s.Index < current.oam:
		p.owners[x] = claim{oam: s.Index, x: s.X, index: index, sprite: s}
		return true
	}
	return false
}

// owner returns the winning claim for column x, ok is false when no sprite
// has an opaque pixel there.
func (p *priorityBuffer) owner(x int) (claim, bool) {
	if x < 0 || x >= Width {
		return claim{oam: -1}, false
	}
	c := p.owners[x]
	return c, c.oam != -1
}
