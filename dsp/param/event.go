package param

// Event is a parameter change scheduled at an absolute sample time.
type Event struct {
	SampleTime int64
	Address    Address
	Value      float32
}

// Offset returns the frame within a block starting at blockStart where the
// event takes effect, clamped to [0, frameCount]. Events that are already
// late apply at the start of the block.
func (e Event) Offset(blockStart int64, frameCount int) int {
	d := e.SampleTime - blockStart
	if d <= 0 {
		return 0
	}
	if d > int64(frameCount) {
		return frameCount
	}
	return int(d)
}
