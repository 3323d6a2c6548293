// Package predictor implements the TIFF horizontal differencing
// predictor (predictor tag value 2).
//
// The predictor converts absolute sample values to differences from the
// previous sample in the same row, which tends to produce more
// compressible data for images with local coherence. Differencing is
// applied per sample, so 16- and 32-bit samples are differenced as whole
// values in the file's byte order, not byte by byte.
package predictor

import (
	"encoding/binary"
	"errors"
)

// ErrBitDepth is returned for sample sizes the predictor cannot handle.
var ErrBitDepth = errors.New("predictor: unsupported bits per sample")

// Apply applies horizontal differencing to decoded strip data in place.
// The data holds rows of width*samplesPerPixel samples at bitsPerSample
// bits each, encoded in the given byte order.
func Apply(data []byte, width, samplesPerPixel int, bitsPerSample int, order binary.ByteOrder) error {
	rowSamples := width * samplesPerPixel
	if rowSamples == 0 {
		return nil
	}
	switch bitsPerSample {
	case 8:
		for row := 0; row+rowSamples <= len(data); row += rowSamples {
			for i := rowSamples - 1; i >= samplesPerPixel; i-- {
				data[row+i] -= data[row+i-samplesPerPixel]
			}
		}
	case 16:
		rowBytes := rowSamples * 2
		for row := 0; row+rowBytes <= len(data); row += rowBytes {
			for i := rowSamples - 1; i >= samplesPerPixel; i-- {
				cur := order.Uint16(data[row+i*2:])
				prev := order.Uint16(data[row+(i-samplesPerPixel)*2:])
				order.PutUint16(data[row+i*2:], cur-prev)
			}
		}
	case 32:
		rowBytes := rowSamples * 4
		for row := 0; row+rowBytes <= len(data); row += rowBytes {
			for i := rowSamples - 1; i >= samplesPerPixel; i-- {
				cur := order.Uint32(data[row+i*4:])
				prev := order.Uint32(data[row+(i-samplesPerPixel)*4:])
				order.PutUint32(data[row+i*4:], cur-prev)
			}
		}
	default:
		return ErrBitDepth
	}
	return nil
}

// Undo reverses horizontal differencing in place, restoring absolute
// sample values. Parameters match Apply.
func Undo(data []byte, width, samplesPerPixel int, bitsPerSample int, order binary.ByteOrder) error {
	rowSamples := width * samplesPerPixel
	if rowSamples == 0 {
		return nil
	}
	switch bitsPerSample {
	case 8:
		for row := 0; row+rowSamples <= len(data); row += rowSamples {
			for i := samplesPerPixel; i < rowSamples; i++ {
				data[row+i] += data[row+i-samplesPerPixel]
			}
		}
	case 16:
		rowBytes := rowSamples * 2
		for row := 0; row+rowBytes <= len(data); row += rowBytes {
			for i := samplesPerPixel; i < rowSamples; i++ {
				cur := order.Uint16(data[row+i*2:])
				prev := order.Uint16(data[row+(i-samplesPerPixel)*2:])
				order.PutUint16(data[row+i*2:], cur+prev)
			}
		}
	case 32:
		rowBytes := rowSamples * 4
		for row := 0; row+rowBytes <= len(data); row += rowBytes {
			for i := samplesPerPixel; i < rowSamples; i++ {
				cur := order.Uint32(data[row+i*4:])
				prev := order.Uint32(data[row+(i-samplesPerPixel)*4:])
				order.PutUint32(data[row+i*4:], cur+prev)
			}
		}
	default:
		return ErrBitDepth
	}
	return nil
}
