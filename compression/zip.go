package compression

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Deflate errors
var (
	ErrZIPCorrupted = errors.New("compression: corrupted Deflate data")
)

// Pool for zlib writers to reduce allocations.
// Each pooled item contains both the writer and its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// ZIPCompress compresses strip data with zlib, as used by TIFF Deflate
// compression (codes 8 and 32946).
func ZIPCompress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(src); err != nil {
		item.writer.Close()
		zlibWriterPool.Put(item)
		return nil, err
	}

	if err := item.writer.Close(); err != nil {
		zlibWriterPool.Put(item)
		return nil, err
	}

	result := make([]byte, item.buf.Len())
	copy(result, item.buf.Bytes())
	zlibWriterPool.Put(item)

	return result, nil
}

// zlibReaderPoolItem wraps a zlib reader for pooling
type zlibReaderPoolItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{
			srcBuf: bytes.NewReader(nil),
		}
	},
}

// ZIPDecompress decompresses Deflate-encoded strip data. The
// expectedSize parameter is the decompressed strip size.
func ZIPDecompress(src []byte, expectedSize int) ([]byte, error) {
	if len(src) == 0 {
		if expectedSize != 0 {
			return nil, ErrZIPCorrupted
		}
		return nil, nil
	}

	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	item.srcBuf.Reset(src)

	var err error
	if item.reader == nil {
		item.reader, err = zlib.NewReader(item.srcBuf)
		if err != nil {
			zlibReaderPool.Put(item)
			return nil, ErrZIPCorrupted
		}
	} else if resetter, ok := item.reader.(zlib.Resetter); ok {
		if err = resetter.Reset(item.srcBuf, nil); err != nil {
			item.reader.Close()
			item.reader, err = zlib.NewReader(item.srcBuf)
			if err != nil {
				zlibReaderPool.Put(item)
				return nil, ErrZIPCorrupted
			}
		}
	} else {
		item.reader.Close()
		item.reader, err = zlib.NewReader(item.srcBuf)
		if err != nil {
			zlibReaderPool.Put(item)
			return nil, ErrZIPCorrupted
		}
	}

	dst := make([]byte, expectedSize)
	n, err := io.ReadFull(item.reader, dst)
	zlibReaderPool.Put(item)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, ErrZIPCorrupted
	}
	if n != expectedSize {
		return nil, ErrZIPCorrupted
	}

	return dst, nil
}
