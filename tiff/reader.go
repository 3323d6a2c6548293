package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/mrjoshuak/go-tiffstack/internal/tio"
)

// Reader errors
var (
	ErrFormat      = errors.New("tiff: invalid TIFF file")
	ErrUnsupported = errors.New("tiff: unsupported feature")
)

// classic and BigTIFF magic numbers, after the byte-order mark.
const (
	magicClassic = 42
	magicBig     = 43
)

// File is a parsed TIFF file: the byte-order and format flags from the
// header plus the ordered page (IFD) list. The whole file is held in
// memory; pixel data is decoded on demand by ReadStack.
type File struct {
	buf      []byte
	order    binary.ByteOrder
	big      bool
	pages    []*Page
	warnings *multierror.Error
}

// Page is one TIFF IFD: the ordered field list of a single image plane.
type Page struct {
	order  binary.ByteOrder
	big    bool
	fields []Field
	buf    []byte // whole-file buffer, for strip data access
}

// OpenFile parses the TIFF file at path. The file handle is released
// before OpenFile returns; the parsed File holds its own copy of the
// data.
func OpenFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// OpenReader parses a TIFF file from a reader. The size parameter is
// the total file size.
func OpenReader(r io.ReaderAt, size int64) (*File, error) {
	buf, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse parses a TIFF file held in a byte slice. The returned File
// retains buf.
//
// Structural damage in individual fields (unknown data types, data
// running past the end of the file) is recorded as a warning and the
// field is skipped; Parse fails only when the header or an IFD table
// itself is unreadable.
func Parse(buf []byte) (*File, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("%w: truncated header", ErrFormat)
	}

	var order binary.ByteOrder
	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		order = binary.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: expecting II or MM as first two bytes", ErrFormat)
	}

	f := &File{buf: buf, order: order}

	r := tio.NewReader(buf, order)
	if err := r.SetPos(2); err != nil {
		return nil, err
	}
	magic, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrFormat)
	}

	var ifdPos uint64
	switch magic {
	case magicClassic:
		off, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		ifdPos = uint64(off)
	case magicBig:
		offSize, err := r.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		pad, err := r.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		if offSize != 8 || pad != 0 {
			return nil, fmt.Errorf("%w: malformed BigTIFF header", ErrFormat)
		}
		ifdPos, err = r.ReadUint64()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrFormat)
		}
		f.big = true
	default:
		return nil, fmt.Errorf("%w: expecting magic number 42 or 43, got %d", ErrFormat, magic)
	}

	seen := make(map[uint64]bool)
	for ifdPos != 0 {
		if seen[ifdPos] {
			return nil, fmt.Errorf("%w: IFD chain loops back to offset %d", ErrFormat, ifdPos)
		}
		seen[ifdPos] = true

		page, next, err := f.parseIFD(ifdPos)
		if err != nil {
			return nil, err
		}
		f.pages = append(f.pages, page)
		ifdPos = next
	}

	return f, nil
}

// parseIFD parses one IFD table, returning the page and the offset of
// the next IFD (0 at the end of the chain).
func (f *File) parseIFD(pos uint64) (*Page, uint64, error) {
	r := tio.NewReader(f.buf, f.order)
	if pos > uint64(len(f.buf)) {
		return nil, 0, fmt.Errorf("%w: IFD offset %d beyond end of file", ErrFormat, pos)
	}
	if err := r.SetPos(int(pos)); err != nil {
		return nil, 0, fmt.Errorf("%w: IFD offset %d beyond end of file", ErrFormat, pos)
	}

	var count uint64
	if f.big {
		c, err := r.ReadUint64()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: truncated IFD at offset %d", ErrFormat, pos)
		}
		count = c
	} else {
		c, err := r.ReadUint16()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: truncated IFD at offset %d", ErrFormat, pos)
		}
		count = uint64(c)
	}

	entrySize := 12
	inline := 4
	if f.big {
		entrySize = 20
		inline = 8
	}
	if uint64(r.Len()) < count*uint64(entrySize) {
		return nil, 0, fmt.Errorf("%w: truncated IFD at offset %d", ErrFormat, pos)
	}

	page := &Page{order: f.order, big: f.big, buf: f.buf}
	for i := uint64(0); i < count; i++ {
		entry := r.Pos()
		tag, _ := r.ReadUint16()
		typ, _ := r.ReadUint16()

		var n uint64
		if f.big {
			n, _ = r.ReadUint64()
		} else {
			n32, _ := r.ReadUint32()
			n = uint64(n32)
		}

		field := Field{Tag: Tag(tag), Type: DataType(typ), Count: uint32(n)}
		size := field.Type.Size()
		if size == 0 {
			f.warnf("unknown data type %d for tag %v", typ, field.Tag)
			r.SetPos(entry + entrySize)
			continue
		}
		if n > uint64(len(f.buf))/uint64(size) {
			f.warnf("field %v claims %d elements, beyond end of file", field.Tag, n)
			r.SetPos(entry + entrySize)
			continue
		}

		total := size * int(n)
		if total <= inline {
			data, err := r.ReadBytes(total)
			if err != nil {
				return nil, 0, fmt.Errorf("%w: truncated IFD entry", ErrFormat)
			}
			field.Data = data
		} else {
			var off uint64
			if f.big {
				off, _ = r.ReadUint64()
			} else {
				off32, _ := r.ReadUint32()
				off = uint64(off32)
			}
			// Summing off and total could wrap a near-2^64 offset back
			// below the file length.
			if off > uint64(len(f.buf)) || uint64(total) > uint64(len(f.buf))-off {
				f.warnf("field %v data at offset %d runs past end of file", field.Tag, off)
				r.SetPos(entry + entrySize)
				continue
			}
			field.Data = f.buf[off : off+uint64(total) : off+uint64(total)]
		}

		r.SetPos(entry + entrySize)
		page.fields = append(page.fields, field)
	}

	var next uint64
	if f.big {
		n, err := r.ReadUint64()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: truncated IFD footer", ErrFormat)
		}
		next = n
	} else {
		n, err := r.ReadUint32()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: truncated IFD footer", ErrFormat)
		}
		next = uint64(n)
	}

	return page, next, nil
}

func (f *File) warnf(format string, args ...interface{}) {
	f.warnings = multierror.Append(f.warnings, fmt.Errorf("tiff: "+format, args...))
}

// NumPages returns the number of pages (IFDs) in the file.
func (f *File) NumPages() int {
	return len(f.pages)
}

// Page returns the ith page, or nil if out of range.
func (f *File) Page(i int) *Page {
	if i < 0 || i >= len(f.pages) {
		return nil
	}
	return f.pages[i]
}

// Pages returns the ordered page list.
func (f *File) Pages() []*Page {
	return f.pages
}

// IsBigTIFF reports whether the file uses the BigTIFF format.
func (f *File) IsBigTIFF() bool {
	return f.big
}

// ByteOrder returns the file's byte order.
func (f *File) ByteOrder() binary.ByteOrder {
	return f.order
}

// Warnings returns the non-fatal problems recorded while parsing, or
// nil if there were none.
func (f *File) Warnings() error {
	return f.warnings.ErrorOrNil()
}

// GlobalDescription returns the page-0 ImageDescription when it is an
// ImageJ-style global metadata block, or "" otherwise. Such blocks
// describe the whole stack and belong on the first page only.
func (f *File) GlobalDescription() string {
	if len(f.pages) == 0 {
		return ""
	}
	desc := f.pages[0].Description()
	if strings.HasPrefix(desc, "ImageJ=") {
		return desc
	}
	return ""
}

// Fields returns the page's fields in file order.
func (p *Page) Fields() []Field {
	return p.fields
}

// Field returns the page's field with the given tag, or nil if absent.
func (p *Page) Field(tag Tag) *Field {
	for i := range p.fields {
		if p.fields[i].Tag == tag {
			return &p.fields[i]
		}
	}
	return nil
}

// uintField returns the first element of an integer field, or def if
// the field is absent or malformed.
func (p *Page) uintField(tag Tag, def uint64) uint64 {
	f := p.Field(tag)
	if f == nil {
		return def
	}
	v, ok := f.AnyInteger(0, p.order)
	if !ok {
		return def
	}
	return v
}

// asciiField returns an ASCII field's string value, or "" if absent.
func (p *Page) asciiField(tag Tag) string {
	f := p.Field(tag)
	if f == nil || f.Type != TypeASCII {
		return ""
	}
	return f.ASCII()
}

// rationalField returns the first element of a RATIONAL field, or the
// zero Rational if absent or malformed.
func (p *Page) rationalField(tag Tag) Rational {
	f := p.Field(tag)
	if f == nil || f.Type != TypeRational || !f.wellFormed() || f.Count == 0 {
		return Rational{}
	}
	return f.Rational(0, p.order)
}

// Width returns the page's image width in pixels.
func (p *Page) Width() int {
	return int(p.uintField(TagImageWidth, 0))
}

// Height returns the page's image length in pixels.
func (p *Page) Height() int {
	return int(p.uintField(TagImageLength, 0))
}

// BitsPerSample returns the page's bits per sample (default 1).
func (p *Page) BitsPerSample() int {
	return int(p.uintField(TagBitsPerSample, 1))
}

// SamplesPerPixel returns the page's samples per pixel (default 1).
func (p *Page) SamplesPerPixel() int {
	return int(p.uintField(TagSamplesPerPixel, 1))
}

// Compression returns the page's compression scheme (default none).
func (p *Page) Compression() Compression {
	return Compression(p.uintField(TagCompression, uint64(CompressionNone)))
}

// Photometric returns the page's photometric interpretation (default
// black-is-zero).
func (p *Page) Photometric() Photometric {
	return Photometric(p.uintField(TagPhotometricInterpretation, uint64(PhotometricBlackIsZero)))
}

// PlanarConfig returns the page's planar configuration (default contig).
func (p *Page) PlanarConfig() PlanarConfig {
	return PlanarConfig(p.uintField(TagPlanarConfiguration, uint64(PlanarContig)))
}

// SampleFormat returns the page's sample format (default uint).
func (p *Page) SampleFormat() SampleFormat {
	return SampleFormat(p.uintField(TagSampleFormat, uint64(SampleFormatUint)))
}

// Predictor returns the page's predictor (default 1, no prediction).
func (p *Page) Predictor() int {
	return int(p.uintField(TagPredictor, 1))
}

// Description returns the page's ImageDescription, or "".
func (p *Page) Description() string {
	return p.asciiField(TagImageDescription)
}

// DateTime returns the page's DateTime, or "".
func (p *Page) DateTime() string {
	return p.asciiField(TagDateTime)
}

// Software returns the page's Software, or "".
func (p *Page) Software() string {
	return p.asciiField(TagSoftware)
}

// Resolution returns the page's X and Y resolution and unit. Absent
// tags yield zero rationals and the default unit (inch).
func (p *Page) Resolution() (x, y Rational, unit ResolutionUnit) {
	x = p.rationalField(TagXResolution)
	y = p.rationalField(TagYResolution)
	unit = ResolutionUnit(p.uintField(TagResolutionUnit, uint64(ResolutionInch)))
	return x, y, unit
}

// IsTiled reports whether the page stores tiled rather than stripped
// image data.
func (p *Page) IsTiled() bool {
	return p.Field(TagTileWidth) != nil || p.Field(TagTileOffsets) != nil
}
