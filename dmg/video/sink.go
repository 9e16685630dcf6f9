package video

// Scanline is one finished line of pixels.
type Scanline [Width]Color

// Frame is a full screen of pixels, indexed [y][x].
type Frame [Height]Scanline

// ScanlineSink receives every line the picture unit finishes, in order.
type ScanlineSink interface {
	Scanline(y int, pixels Scanline)
}

// FrameSink is implemented by sinks that also want to know when the last
// visible line of a frame has been delivered.
type FrameSink interface {
	FrameDone()
}

// FrameBuffer collects scanlines into a back buffer and publishes it on
// FrameDone, so a host reading Frame never sees a half drawn screen.
type FrameBuffer struct {
	back   Frame
	front  Frame
	frames uint64
}

func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Clear()
	return fb
}

func (fb *FrameBuffer) Scanline(y int, pixels Scanline) {
	if y < 0 || y >= Height {
		return
	}
	fb.back[y] = pixels
}

func (fb *FrameBuffer) FrameDone() {
	fb.front = fb.back
	fb.frames++
}

// Frame returns the last completed frame.
func (fb *FrameBuffer) Frame() *Frame {
	return &fb.front
}

// Pixel returns a pixel of the last completed frame.
func (fb *FrameBuffer) Pixel(x, y int) Color {
	return fb.front[y][x]
}

// Frames returns how many frames have completed.
func (fb *FrameBuffer) Frames() uint64 {
	return fb.frames
}

// Clear paints both buffers white, the color of a switched off LCD.
func (fb *FrameBuffer) Clear() {
	for y := range fb.back {
		for x := range fb.back[y] {
			fb.back[y][x] = White
		}
	}
	fb.front = fb.back
}
