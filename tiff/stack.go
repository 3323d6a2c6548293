package tiff

import "encoding/binary"

// Stack is a decoded 3-dimensional image stack with axes
// (frame, row, column). Every frame shares the same dimensions, bit
// depth, and sample format; sample bytes are kept in Order, the byte
// order of the file they were decoded from.
type Stack struct {
	Width         int
	Height        int
	BitsPerSample int
	SampleFormat  SampleFormat
	Order         binary.ByteOrder
	Pix           [][]byte // one decoded plane per frame
}

// Frame is a single 2D plane of a stack.
type Frame struct {
	Width         int
	Height        int
	BitsPerSample int
	SampleFormat  SampleFormat
	Pix           []byte
}

// Frames returns the number of frames in the stack.
func (s *Stack) Frames() int {
	return len(s.Pix)
}

// Frame returns the ith frame. The frame's pixel slice aliases the
// stack's storage.
func (s *Stack) Frame(i int) Frame {
	return Frame{
		Width:         s.Width,
		Height:        s.Height,
		BitsPerSample: s.BitsPerSample,
		SampleFormat:  s.SampleFormat,
		Pix:           s.Pix[i],
	}
}

// Slice returns a stack sharing this stack's frames in [start, end).
// Bounds must have been validated by the caller.
func (s *Stack) Slice(start, end int) *Stack {
	return &Stack{
		Width:         s.Width,
		Height:        s.Height,
		BitsPerSample: s.BitsPerSample,
		SampleFormat:  s.SampleFormat,
		Order:         s.Order,
		Pix:           s.Pix[start:end],
	}
}

// BytesPerSample returns the storage size of one sample.
func (s *Stack) BytesPerSample() int {
	return s.BitsPerSample / 8
}
