package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/mrjoshuak/go-tiffstack/compression"

	"github.com/mrjoshuak/go-tiffstack/internal/tio"
)

// Writer errors
var (
	ErrClosed   = errors.New("tiff: writer is closed")
	ErrTooLarge = errors.New("tiff: file exceeds 4 GiB, write as BigTIFF instead")
	ErrNoPages  = errors.New("tiff: no pages written")
)

// Writer assembles a multi-page TIFF file. Pages are appended with
// WritePage and the finished file is flushed to the destination by
// Close.
//
// The whole file is staged in memory so that each page's next-IFD
// pointer can be patched once the following page's position is known.
// Each page is written as a single strip.
type Writer struct {
	dst    io.Writer
	buf    *tio.BufferWriter
	order  binary.ByteOrder
	big    bool
	global string

	// nextPtrPos is the buffer position of the pointer that the next
	// IFD offset must be patched into: the header's first-IFD pointer
	// before any page is written, then the previous page's next-IFD
	// pointer.
	nextPtrPos int
	pages      int
	closed     bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithBigTIFF makes the writer emit the BigTIFF format (magic 43,
// 64-bit offsets) instead of classic TIFF.
func WithBigTIFF() WriterOption {
	return func(w *Writer) { w.big = true }
}

// WithByteOrder sets the output byte order. The default is
// little-endian.
func WithByteOrder(order binary.ByteOrder) WriterOption {
	return func(w *Writer) { w.order = order }
}

// WithGlobalDescription sets an ImageDescription that replaces the
// first page's own description. Later pages are unaffected.
func WithGlobalDescription(desc string) WriterOption {
	return func(w *Writer) { w.global = desc }
}

// NewWriter creates a Writer that will flush the finished file to dst
// on Close.
func NewWriter(dst io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{dst: dst, order: binary.LittleEndian}
	for _, opt := range opts {
		opt(w)
	}

	w.buf = tio.NewBufferWriter(64*1024, w.order)
	if w.order == binary.BigEndian {
		w.buf.WriteBytes([]byte{'M', 'M'})
	} else {
		w.buf.WriteBytes([]byte{'I', 'I'})
	}
	if w.big {
		w.buf.WriteUint16(magicBig)
		w.buf.WriteUint16(8) // offset size
		w.buf.WriteUint16(0)
		w.nextPtrPos = w.buf.Len()
		w.buf.WriteUint64(0)
	} else {
		w.buf.WriteUint16(magicClassic)
		w.nextPtrPos = w.buf.Len()
		w.buf.WriteUint32(0)
	}
	return w
}

// WritePage appends one frame as a new page. A nil meta writes the
// frame uncompressed with default interpretation tags.
func (w *Writer) WritePage(frame Frame, meta *PageMeta) error {
	if w.closed {
		return ErrClosed
	}
	if meta == nil {
		meta = defaultPageMeta()
	}

	switch frame.BitsPerSample {
	case 8, 16, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupported, frame.BitsPerSample)
	}
	bps := frame.BitsPerSample / 8
	if len(frame.Pix) != frame.Width*frame.Height*bps {
		return fmt.Errorf("tiff: frame has %d pixel bytes, want %d",
			len(frame.Pix), frame.Width*frame.Height*bps)
	}

	comp := meta.Compression
	if comp == 0 {
		comp = CompressionNone
	}
	strip, err := w.encodeStrip(frame, comp)
	if err != nil {
		return err
	}

	w.buf.Pad(2)
	stripOff := uint64(w.buf.Len())
	w.buf.WriteBytes(strip)

	fields := w.pageFields(frame, meta, comp, stripOff, uint64(len(strip)))
	sort.Slice(fields, func(i, j int) bool { return fields[i].Tag < fields[j].Tag })

	if w.big {
		w.buf.Pad(8)
	} else {
		w.buf.Pad(2)
	}
	ifdOff := uint64(w.buf.Len())

	if err := w.writeIFD(fields, ifdOff); err != nil {
		return err
	}
	if !w.big && uint64(w.buf.Len()) > math.MaxUint32 {
		return ErrTooLarge
	}
	w.pages++
	return nil
}

// Pages returns the number of pages written so far.
func (w *Writer) Pages() int {
	return w.pages
}

// Close finalizes the file and flushes it to the destination. A file
// with no pages is an error; TIFF requires at least one IFD.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if w.pages == 0 {
		return ErrNoPages
	}
	_, err := w.dst.Write(w.buf.Bytes())
	return err
}

// encodeStrip compresses the frame's pixel data for storage as a
// single strip.
func (w *Writer) encodeStrip(frame Frame, comp Compression) ([]byte, error) {
	switch comp {
	case CompressionNone:
		return frame.Pix, nil
	case CompressionLZW:
		return compression.LZWCompress(frame.Pix)
	case CompressionDeflate, CompressionDeflateOld:
		return compression.ZIPCompress(frame.Pix)
	case CompressionPackBits:
		return compression.PackBitsCompress(frame.Pix), nil
	case CompressionZstd:
		return compression.ZstdCompress(frame.Pix), nil
	default:
		// JPEG 2000 (34712) is decode-only: go-jpeg2000's encoder does
		// not round-trip grayscale planes losslessly.
		return nil, fmt.Errorf("%w: writing compression %v (%d)", ErrUnsupported, comp, uint16(comp))
	}
}

// pageFields assembles the page's full field list: the structural tags
// derived from the frame, the named attributes from meta, and meta's
// extra tags. Extra tags that collide with a derived tag or are
// malformed are dropped.
func (w *Writer) pageFields(frame Frame, meta *PageMeta, comp Compression, stripOff, stripLen uint64) []Field {
	planar := meta.PlanarConfig
	if planar == 0 {
		planar = PlanarContig
	}

	fields := []Field{
		w.longField(TagImageWidth, uint32(frame.Width)),
		w.longField(TagImageLength, uint32(frame.Height)),
		w.shortField(TagBitsPerSample, uint16(frame.BitsPerSample)),
		w.shortField(TagCompression, uint16(comp)),
		w.shortField(TagPhotometricInterpretation, uint16(meta.Photometric)),
		w.offsetField(TagStripOffsets, stripOff),
		w.shortField(TagSamplesPerPixel, 1),
		w.longField(TagRowsPerStrip, uint32(frame.Height)),
		w.offsetField(TagStripByteCounts, stripLen),
		w.shortField(TagPlanarConfiguration, uint16(planar)),
	}

	desc := meta.Description
	if w.pages == 0 && w.global != "" {
		desc = w.global
	}
	if desc != "" {
		fields = append(fields, w.asciiField(TagImageDescription, desc))
	}
	if !meta.XResolution.IsZero() || !meta.YResolution.IsZero() {
		fields = append(fields,
			w.rationalField(TagXResolution, meta.XResolution),
			w.rationalField(TagYResolution, meta.YResolution))
		if meta.ResolutionUnit != 0 {
			fields = append(fields, w.shortField(TagResolutionUnit, uint16(meta.ResolutionUnit)))
		}
	}
	if meta.Software != "" {
		fields = append(fields, w.asciiField(TagSoftware, meta.Software))
	}
	if meta.DateTime != "" {
		fields = append(fields, w.asciiField(TagDateTime, meta.DateTime))
	}
	if frame.SampleFormat > SampleFormatUint {
		fields = append(fields, w.shortField(TagSampleFormat, uint16(frame.SampleFormat)))
	}

	derived := make(map[Tag]bool, len(fields))
	for _, f := range fields {
		derived[f.Tag] = true
	}
	for _, f := range meta.ExtraTags {
		if derived[f.Tag] || !f.wellFormed() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func (w *Writer) shortField(tag Tag, v uint16) Field {
	data := make([]byte, 2)
	w.order.PutUint16(data, v)
	return Field{Tag: tag, Type: TypeShort, Count: 1, Data: data}
}

func (w *Writer) longField(tag Tag, v uint32) Field {
	data := make([]byte, 4)
	w.order.PutUint32(data, v)
	return Field{Tag: tag, Type: TypeLong, Count: 1, Data: data}
}

// offsetField holds a file offset or byte count: LONG in classic
// files, LONG8 in BigTIFF.
func (w *Writer) offsetField(tag Tag, v uint64) Field {
	if w.big {
		data := make([]byte, 8)
		w.order.PutUint64(data, v)
		return Field{Tag: tag, Type: TypeLong8, Count: 1, Data: data}
	}
	data := make([]byte, 4)
	w.order.PutUint32(data, uint32(v))
	return Field{Tag: tag, Type: TypeLong, Count: 1, Data: data}
}

func (w *Writer) asciiField(tag Tag, s string) Field {
	data := append([]byte(s), 0)
	return Field{Tag: tag, Type: TypeASCII, Count: uint32(len(data)), Data: data}
}

func (w *Writer) rationalField(tag Tag, r Rational) Field {
	data := make([]byte, 8)
	w.order.PutUint32(data, r.Num)
	w.order.PutUint32(data[4:], r.Denom)
	return Field{Tag: tag, Type: TypeRational, Count: 1, Data: data}
}

// writeIFD emits one IFD table at ifdOff, placing field data too large
// for the inline value slot in a data area directly after the table,
// and patches the previous next-IFD pointer to ifdOff.
func (w *Writer) writeIFD(fields []Field, ifdOff uint64) error {
	entrySize, inline, ptrSize, countSize := 12, 4, 4, 2
	if w.big {
		entrySize, inline, ptrSize, countSize = 20, 8, 8, 8
	}

	// Lay out the external data area before writing the table so entry
	// offsets are known up front.
	ext := ifdOff + uint64(countSize) + uint64(len(fields)*entrySize) + uint64(ptrSize)
	extOffsets := make([]uint64, len(fields))
	for i, f := range fields {
		if f.Size() <= inline {
			continue
		}
		ext = (ext + 1) &^ 1 // word-align external data
		extOffsets[i] = ext
		ext += uint64(f.Size())
	}
	if !w.big && ext > math.MaxUint32 {
		return ErrTooLarge
	}

	if w.big {
		if err := w.buf.PatchUint64(w.nextPtrPos, ifdOff); err != nil {
			return err
		}
		w.buf.WriteUint64(uint64(len(fields)))
	} else {
		if err := w.buf.PatchUint32(w.nextPtrPos, uint32(ifdOff)); err != nil {
			return err
		}
		w.buf.WriteUint16(uint16(len(fields)))
	}

	for i, f := range fields {
		w.buf.WriteUint16(uint16(f.Tag))
		w.buf.WriteUint16(uint16(f.Type))
		if w.big {
			w.buf.WriteUint64(uint64(f.Count))
		} else {
			w.buf.WriteUint32(f.Count)
		}
		if f.Size() <= inline {
			w.buf.WriteBytes(f.Data[:f.Size()])
			for pad := f.Size(); pad < inline; pad++ {
				w.buf.WriteByte(0)
			}
		} else if w.big {
			w.buf.WriteUint64(extOffsets[i])
		} else {
			w.buf.WriteUint32(uint32(extOffsets[i]))
		}
	}

	w.nextPtrPos = w.buf.Len()
	if w.big {
		w.buf.WriteUint64(0)
	} else {
		w.buf.WriteUint32(0)
	}

	for i, f := range fields {
		if f.Size() <= inline {
			continue
		}
		w.buf.Pad(2)
		if uint64(w.buf.Len()) != extOffsets[i] {
			return fmt.Errorf("tiff: internal error: field %v laid out at %d, written at %d",
				f.Tag, extOffsets[i], w.buf.Len())
		}
		w.buf.WriteBytes(f.Data[:f.Size()])
	}
	return nil
}
