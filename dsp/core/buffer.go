package core

// SourceChannel maps output channel ch onto an input channel when the
// input has fewer channels: min(ch, inputCount-1). It returns -1 when there
// is no input at all.
func SourceChannel(ch, inputCount int) int {
	if inputCount <= 0 {
		return -1
	}
	if ch >= inputCount {
		return inputCount - 1
	}
	if ch < 0 {
		return 0
	}
	return ch
}
