package compression

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/mrjoshuak/go-jpeg2000"
)

// JPEG 2000 errors
var (
	ErrJP2KCorrupted = errors.New("compression: corrupted JPEG 2000 data")
	ErrJP2KBitDepth  = errors.New("compression: unsupported JPEG 2000 bit depth")
)

// JP2KDecompress decodes a JPEG 2000 codestream back into raw strip
// bytes, as used by TIFF compression code 34712 (common in microscopy
// and medical imaging stacks).
//
// The strip holds height rows of width samples at bitsPerSample bits
// each, emitted in the given byte order. Decode only: the encoder in
// go-jpeg2000 does not round-trip grayscale planes losslessly, so
// strips are never written with this scheme.
func JP2KDecompress(src []byte, width, height, bitsPerSample int, order binary.ByteOrder) ([]byte, error) {
	img, err := jpeg2000.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("compression: jpeg2000 decode failed: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return nil, ErrJP2KCorrupted
	}

	switch bitsPerSample {
	case 8:
		if g, ok := img.(*image.Gray); ok && g.Stride == width {
			dst := make([]byte, width*height)
			copy(dst, g.Pix)
			return dst, nil
		}
		dst := make([]byte, width*height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				dst[y*width+x] = byte(r >> 8)
			}
		}
		return dst, nil
	case 16:
		dst := make([]byte, width*height*2)
		if g, ok := img.(*image.Gray16); ok {
			// Gray16 pixels are big-endian; re-emit in the file's order.
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					v := binary.BigEndian.Uint16(g.Pix[y*g.Stride+x*2:])
					order.PutUint16(dst[(y*width+x)*2:], v)
				}
			}
			return dst, nil
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				order.PutUint16(dst[(y*width+x)*2:], uint16(r))
			}
		}
		return dst, nil
	default:
		return nil, ErrJP2KBitDepth
	}
}
