package compression

import (
	"bytes"
	"errors"
	"io"

	"github.com/hhrutter/lzw"
)

// LZW errors
var (
	ErrLZWCorrupted = errors.New("compression: corrupted LZW data")
)

// LZWCompress compresses data using TIFF LZW (compression code 5).
//
// TIFF LZW differs from the GIF and Unix compress variants in bit fill
// order and in switching code widths one code early ("early change"),
// which is why the stdlib compress/lzw cannot be used here.
func LZWCompress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, true)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LZWDecompress decompresses TIFF LZW data. The expectedSize parameter
// is the decompressed strip size.
func LZWDecompress(src []byte, expectedSize int) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(src), true)
	defer r.Close()

	dst := make([]byte, expectedSize)
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, ErrLZWCorrupted
	}
	if n != expectedSize {
		return nil, ErrLZWCorrupted
	}
	return dst, nil
}
