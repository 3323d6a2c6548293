// Package compression provides strip compression algorithms for TIFF files.
package compression

import (
	"errors"
)

// PackBits errors
var (
	ErrPackBitsCorrupted = errors.New("compression: corrupted PackBits data")
)

// PackBitsCompress compresses data using the TIFF PackBits scheme, a
// byte-oriented run-length encoding. Runs of three or more identical
// bytes become a two-byte replicate record; everything else is emitted
// as literal records of up to 128 bytes.
func PackBitsCompress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}

	dst := make([]byte, 0, len(src)+len(src)/128+1)
	i := 0
	for i < len(src) {
		// Measure the run starting at i.
		run := 1
		for i+run < len(src) && run < 128 && src[i+run] == src[i] {
			run++
		}

		if run >= 3 {
			dst = append(dst, byte(1-run), src[i])
			i += run
			continue
		}

		// Literal segment: scan until a run of 3 begins or 128 bytes.
		lit := i
		for lit < len(src) && lit-i < 128 {
			if lit+2 < len(src) && src[lit] == src[lit+1] && src[lit] == src[lit+2] {
				break
			}
			lit++
		}
		n := lit - i
		dst = append(dst, byte(n-1))
		dst = append(dst, src[i:lit]...)
		i = lit
	}
	return dst
}

// PackBitsDecompress decompresses PackBits-encoded data. The
// expectedSize parameter is the decompressed strip size; decoding stops
// once that many bytes have been produced, and it is an error for the
// input to run out first.
func PackBitsDecompress(src []byte, expectedSize int) ([]byte, error) {
	dst := make([]byte, 0, expectedSize)
	i := 0
	for len(dst) < expectedSize {
		if i >= len(src) {
			return nil, ErrPackBitsCorrupted
		}
		n := int(int8(src[i]))
		i++
		switch {
		case n >= 0:
			// n+1 literal bytes.
			if i+n+1 > len(src) {
				return nil, ErrPackBitsCorrupted
			}
			dst = append(dst, src[i:i+n+1]...)
			i += n + 1
		case n == -128:
			// No-op.
		default:
			// Next byte repeated 1-n times.
			if i >= len(src) {
				return nil, ErrPackBitsCorrupted
			}
			for k := 0; k < 1-n; k++ {
				dst = append(dst, src[i])
			}
			i++
		}
	}
	if len(dst) > expectedSize {
		// A record may not straddle the strip boundary.
		return nil, ErrPackBitsCorrupted
	}
	return dst, nil
}
