// Package trim implements frame-axis operations on 3D TIFF stacks:
// trimming a stack to a frame range and splitting it into consecutive
// fixed-size chunks, both preserving each retained page's tags.
package trim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrRangeFormat is returned for range text that is not of the form
// "start:end" or "start:".
var ErrRangeFormat = errors.New(`trim: range must be in the form "start:end" (end exclusive), e.g. "0:100" or "10:"`)

// FrameRange is a half-open frame interval [Start, End). When HasEnd is
// false the range extends to the last frame of whatever stack it is
// applied to.
type FrameRange struct {
	Start  int
	End    int
	HasEnd bool
}

// ParseFrameRange parses range text of the form "start:end" (end
// exclusive) or "start:" (to the last frame). Values are not checked
// against any stack here; negative or oversized bounds are rejected
// later when the range is resolved against an actual frame count.
func ParseFrameRange(text string) (FrameRange, error) {
	text = strings.TrimSpace(text)
	sep := strings.IndexByte(text, ':')
	if sep < 0 {
		return FrameRange{}, ErrRangeFormat
	}

	startStr := strings.TrimSpace(text[:sep])
	endStr := strings.TrimSpace(text[sep+1:])
	if startStr == "" {
		return FrameRange{}, fmt.Errorf("%w: missing start value", ErrRangeFormat)
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return FrameRange{}, fmt.Errorf("trim: start frame %q is not an integer", startStr)
	}
	if endStr == "" {
		return FrameRange{Start: start}, nil
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return FrameRange{}, fmt.Errorf("trim: end frame %q is not an integer", endStr)
	}
	return FrameRange{Start: start, End: end, HasEnd: true}, nil
}
