package common

import "fmt"

// SlidingWindow cuts a sample stream into fixed-size, possibly overlapping frames.
// Samples may arrive in chunks of any length; partial frames carry over between Push calls.
type SlidingWindow struct {
	buffer     []float64
	windowSize int
	hopSize    int
	writePos   int
}

// NewSlidingWindow creates a new sliding window. hopSize must be in [1, windowSize].
func NewSlidingWindow(windowSize, hopSize int) (*SlidingWindow, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if hopSize < 1 || hopSize > windowSize {
		return nil, fmt.Errorf("hop size %d outside [1, %d]", hopSize, windowSize)
	}
	return &SlidingWindow{
		buffer:     make([]float64, windowSize),
		windowSize: windowSize,
		hopSize:    hopSize,
	}, nil
}

// Push appends samples and calls emit once per completed frame.
// The frame slice is reused and only valid for the duration of the call.
func (sw *SlidingWindow) Push(samples []float64, emit func(frame []float64) error) error {
	for len(samples) > 0 {
		n := copy(sw.buffer[sw.writePos:], samples)
		sw.writePos += n
		samples = samples[n:]

		if sw.writePos < sw.windowSize {
			continue
		}

		if err := emit(sw.buffer); err != nil {
			return err
		}

		// shift left by hop, keeping the overlap
		copy(sw.buffer, sw.buffer[sw.hopSize:])
		sw.writePos = sw.windowSize - sw.hopSize
	}
	return nil
}

// Reset drops any buffered partial frame
func (sw *SlidingWindow) Reset() {
	sw.writePos = 0
	clear(sw.buffer)
}

// WindowSize returns the frame length in samples
func (sw *SlidingWindow) WindowSize() int {
	return sw.windowSize
}

// HopSize returns the distance between frame starts in samples
func (sw *SlidingWindow) HopSize() int {
	return sw.hopSize
}
