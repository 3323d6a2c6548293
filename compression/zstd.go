package compression

import (
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZSTD errors
var (
	ErrZstdCorrupted = errors.New("compression: corrupted ZSTD data")
)

var (
	zstdEncOnce sync.Once
	zstdEnc     *zstd.Encoder
	zstdDecOnce sync.Once
	zstdDec     *zstd.Decoder
)

func zstdEncoder() *zstd.Encoder {
	zstdEncOnce.Do(func() {
		zstdEnc, _ = zstd.NewWriter(nil)
	})
	return zstdEnc
}

func zstdDecoder() *zstd.Decoder {
	zstdDecOnce.Do(func() {
		zstdDec, _ = zstd.NewReader(nil)
	})
	return zstdDec
}

// ZstdCompress compresses strip data with Zstandard, as used by TIFF
// compression code 50000 (a GDAL/libtiff extension common in large
// scientific rasters).
func ZstdCompress(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	return zstdEncoder().EncodeAll(src, nil)
}

// ZstdDecompress decompresses Zstandard-encoded strip data. The
// expectedSize parameter is the decompressed strip size.
func ZstdDecompress(src []byte, expectedSize int) ([]byte, error) {
	if len(src) == 0 {
		if expectedSize != 0 {
			return nil, ErrZstdCorrupted
		}
		return nil, nil
	}
	dst, err := zstdDecoder().DecodeAll(src, make([]byte, 0, expectedSize))
	if err != nil {
		return nil, ErrZstdCorrupted
	}
	if len(dst) != expectedSize {
		return nil, ErrZstdCorrupted
	}
	return dst, nil
}
