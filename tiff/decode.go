package tiff

import (
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-tiffstack/compression"
	"github.com/mrjoshuak/go-tiffstack/internal/predictor"
)

// ErrShape is returned when a file does not decode to a 3-dimensional
// stack of uniform single-sample frames.
var ErrShape = errors.New("tiff: expected a 3D stack [frames, y, x]")

// ReadStack decodes every page of the file into a Stack.
//
// The file must hold single-sample (grayscale) pages of uniform size
// and bit depth; anything else is a shape error reporting the actual
// shape. A file with zero pages decodes to an empty stack.
func (f *File) ReadStack() (*Stack, error) {
	if len(f.pages) == 0 {
		return &Stack{Order: f.order}, nil
	}

	p0 := f.pages[0]
	stack := &Stack{
		Width:         p0.Width(),
		Height:        p0.Height(),
		BitsPerSample: p0.BitsPerSample(),
		SampleFormat:  p0.SampleFormat(),
		Order:         f.order,
		Pix:           make([][]byte, 0, len(f.pages)),
	}

	for i, p := range f.pages {
		if spp := p.SamplesPerPixel(); spp != 1 {
			return nil, fmt.Errorf("%w, got shape [%d %d %d %d]",
				ErrShape, len(f.pages), p.Height(), p.Width(), spp)
		}
		if p.Width() != stack.Width || p.Height() != stack.Height {
			return nil, fmt.Errorf("%w, got ragged pages: page %d is %dx%d, page 0 is %dx%d",
				ErrShape, i, p.Height(), p.Width(), stack.Height, stack.Width)
		}
		if p.BitsPerSample() != stack.BitsPerSample {
			return nil, fmt.Errorf("%w, got mixed depths: page %d has %d bits per sample, page 0 has %d",
				ErrShape, i, p.BitsPerSample(), stack.BitsPerSample)
		}

		pix, err := p.decodePixels()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		stack.Pix = append(stack.Pix, pix)
	}

	return stack, nil
}

// decodePixels decodes the page's strip data into a contiguous plane of
// height*width samples in the file's byte order.
func (p *Page) decodePixels() ([]byte, error) {
	if p.IsTiled() {
		return nil, fmt.Errorf("%w: tiled image data", ErrUnsupported)
	}
	if pc := p.PlanarConfig(); pc != PlanarContig {
		return nil, fmt.Errorf("%w: planar configuration %v", ErrUnsupported, pc)
	}

	bits := p.BitsPerSample()
	switch bits {
	case 8, 16, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupported, bits)
	}
	bps := bits / 8

	width, height := p.Width(), p.Height()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: page has zero dimensions", ErrFormat)
	}

	comp := p.Compression()
	pred := p.Predictor()
	switch pred {
	case 1, 2:
	default:
		return nil, fmt.Errorf("%w: predictor %d", ErrUnsupported, pred)
	}

	rps := int(p.uintField(TagRowsPerStrip, uint64(height)))
	if rps <= 0 || rps > height {
		// 2^32-1 is the conventional "single strip" marker.
		rps = height
	}
	strips := (height + rps - 1) / rps

	offField := p.Field(TagStripOffsets)
	cntField := p.Field(TagStripByteCounts)
	if offField == nil || cntField == nil {
		return nil, fmt.Errorf("%w: missing strip offsets or byte counts", ErrFormat)
	}
	offsets, ok := offField.Integers(p.order)
	if !ok {
		return nil, fmt.Errorf("%w: malformed strip offsets", ErrFormat)
	}
	counts, ok := cntField.Integers(p.order)
	if !ok {
		return nil, fmt.Errorf("%w: malformed strip byte counts", ErrFormat)
	}
	if len(offsets) < strips || len(counts) < strips {
		return nil, fmt.Errorf("%w: %d strips declared, %d offsets present", ErrFormat, strips, len(offsets))
	}

	pix := make([]byte, 0, height*width*bps)
	for s := 0; s < strips; s++ {
		rows := rps
		if s == strips-1 {
			rows = height - s*rps
		}
		expected := rows * width * bps

		off, cnt := offsets[s], counts[s]
		if off > uint64(len(p.buf)) || cnt > uint64(len(p.buf))-off {
			return nil, fmt.Errorf("%w: strip %d runs past end of file", ErrFormat, s)
		}
		raw := p.buf[off : off+cnt]

		var data []byte
		var err error
		switch comp {
		case CompressionNone:
			if len(raw) < expected {
				return nil, fmt.Errorf("%w: strip %d too short", ErrFormat, s)
			}
			data = raw[:expected]
		case CompressionLZW:
			data, err = compression.LZWDecompress(raw, expected)
		case CompressionDeflate, CompressionDeflateOld:
			data, err = compression.ZIPDecompress(raw, expected)
		case CompressionPackBits:
			data, err = compression.PackBitsDecompress(raw, expected)
		case CompressionZstd:
			data, err = compression.ZstdDecompress(raw, expected)
		case CompressionJP2K:
			data, err = compression.JP2KDecompress(raw, width, rows, bits, p.order)
		default:
			return nil, fmt.Errorf("%w: compression %v (%d)", ErrUnsupported, comp, uint16(comp))
		}
		if err != nil {
			return nil, fmt.Errorf("strip %d: %w", s, err)
		}

		if pred == 2 {
			if comp == CompressionNone {
				// Predictor data must not alias the file buffer.
				data = append([]byte(nil), data...)
			}
			if err := predictor.Undo(data, width, 1, bits, p.order); err != nil {
				return nil, err
			}
		}
		pix = append(pix, data...)
	}

	return pix, nil
}
