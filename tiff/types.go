package tiff

import "fmt"

// DataType identifies the on-disk type of a TIFF field value.
type DataType uint16

// TIFF field data types. Types 1-12 are from TIFF 6.0, type 13 from the
// TIFF supplements, and types 16-18 from the BigTIFF specification.
const (
	TypeByte      DataType = 1
	TypeASCII     DataType = 2
	TypeShort     DataType = 3
	TypeLong      DataType = 4
	TypeRational  DataType = 5
	TypeSByte     DataType = 6
	TypeUndefined DataType = 7
	TypeSShort    DataType = 8
	TypeSLong     DataType = 9
	TypeSRational DataType = 10
	TypeFloat     DataType = 11
	TypeDouble    DataType = 12
	TypeIFD       DataType = 13
	TypeLong8     DataType = 16
	TypeSLong8    DataType = 17
	TypeIFD8      DataType = 18
)

var typeSizes = map[DataType]int{
	TypeByte:      1,
	TypeASCII:     1,
	TypeShort:     2,
	TypeLong:      4,
	TypeRational:  8,
	TypeSByte:     1,
	TypeUndefined: 1,
	TypeSShort:    2,
	TypeSLong:     4,
	TypeSRational: 8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeIFD:       4,
	TypeLong8:     8,
	TypeSLong8:    8,
	TypeIFD8:      8,
}

var typeNames = map[DataType]string{
	TypeByte:      "Byte",
	TypeASCII:     "ASCII",
	TypeShort:     "Short",
	TypeLong:      "Long",
	TypeRational:  "Rational",
	TypeSByte:     "SByte",
	TypeUndefined: "Undefined",
	TypeSShort:    "SShort",
	TypeSLong:     "SLong",
	TypeSRational: "SRational",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeIFD:       "IFD",
	TypeLong8:     "Long8",
	TypeSLong8:    "SLong8",
	TypeIFD8:      "IFD8",
}

// Size returns the byte size of a single value of the type, or 0 for
// unknown types.
func (t DataType) Size() int {
	return typeSizes[t]
}

// String returns the name of the type.
func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", uint16(t))
}

// Tag identifies a TIFF field.
type Tag uint16

// Standard TIFF tags touched by this package. Tags are from TIFF 6.0
// unless noted otherwise.
const (
	TagNewSubfileType            Tag = 254
	TagSubfileType               Tag = 255
	TagImageWidth                Tag = 256
	TagImageLength               Tag = 257
	TagBitsPerSample             Tag = 258
	TagCompression               Tag = 259
	TagPhotometricInterpretation Tag = 262
	TagFillOrder                 Tag = 266
	TagDocumentName              Tag = 269
	TagImageDescription          Tag = 270
	TagMake                      Tag = 271
	TagModel                     Tag = 272
	TagStripOffsets              Tag = 273
	TagOrientation               Tag = 274
	TagSamplesPerPixel           Tag = 277
	TagRowsPerStrip              Tag = 278
	TagStripByteCounts           Tag = 279
	TagXResolution               Tag = 282
	TagYResolution               Tag = 283
	TagPlanarConfiguration       Tag = 284
	TagPageName                  Tag = 285
	TagXPosition                 Tag = 286
	TagYPosition                 Tag = 287
	TagResolutionUnit            Tag = 296
	TagPageNumber                Tag = 297
	TagSoftware                  Tag = 305
	TagDateTime                  Tag = 306
	TagArtist                    Tag = 315
	TagHostComputer              Tag = 316
	TagPredictor                 Tag = 317
	TagColorMap                  Tag = 320
	TagTileWidth                 Tag = 322
	TagTileLength                Tag = 323
	TagTileOffsets               Tag = 324
	TagTileByteCounts            Tag = 325
	TagSubIFDs                   Tag = 330 // TIFF Supplement 1
	TagExtraSamples              Tag = 338
	TagSampleFormat              Tag = 339
	TagXMP                       Tag = 700 // XMP part 3
	TagCopyright                 Tag = 33432
	TagExifIFD                   Tag = 34665 // Exif 2.3
	TagICCProfile                Tag = 34675 // ICC.1:2003-09
)

var tagNames = map[Tag]string{
	TagNewSubfileType:            "NewSubfileType",
	TagSubfileType:               "SubfileType",
	TagImageWidth:                "ImageWidth",
	TagImageLength:               "ImageLength",
	TagBitsPerSample:             "BitsPerSample",
	TagCompression:               "Compression",
	TagPhotometricInterpretation: "PhotometricInterpretation",
	TagFillOrder:                 "FillOrder",
	TagDocumentName:              "DocumentName",
	TagImageDescription:          "ImageDescription",
	TagMake:                      "Make",
	TagModel:                     "Model",
	TagStripOffsets:              "StripOffsets",
	TagOrientation:               "Orientation",
	TagSamplesPerPixel:           "SamplesPerPixel",
	TagRowsPerStrip:              "RowsPerStrip",
	TagStripByteCounts:           "StripByteCounts",
	TagXResolution:               "XResolution",
	TagYResolution:               "YResolution",
	TagPlanarConfiguration:       "PlanarConfiguration",
	TagPageName:                  "PageName",
	TagXPosition:                 "XPosition",
	TagYPosition:                 "YPosition",
	TagResolutionUnit:            "ResolutionUnit",
	TagPageNumber:                "PageNumber",
	TagSoftware:                  "Software",
	TagDateTime:                  "DateTime",
	TagArtist:                    "Artist",
	TagHostComputer:              "HostComputer",
	TagPredictor:                 "Predictor",
	TagColorMap:                  "ColorMap",
	TagTileWidth:                 "TileWidth",
	TagTileLength:                "TileLength",
	TagTileOffsets:               "TileOffsets",
	TagTileByteCounts:            "TileByteCounts",
	TagSubIFDs:                   "SubIFDs",
	TagExtraSamples:              "ExtraSamples",
	TagSampleFormat:              "SampleFormat",
	TagXMP:                       "XMP",
	TagCopyright:                 "Copyright",
	TagExifIFD:                   "ExifIFD",
	TagICCProfile:                "ICCProfile",
}

// String returns the standard name of the tag when known.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", uint16(t))
}

// Compression defines the compression method for strip data.
type Compression uint16

const (
	// CompressionNone stores uncompressed data.
	CompressionNone Compression = 1
	// CompressionCCITTRLE is CCITT Group 3 1-D run-length encoding.
	CompressionCCITTRLE Compression = 2
	// CompressionLZW is TIFF LZW.
	CompressionLZW Compression = 5
	// CompressionOldJPEG is the deprecated TIFF 6.0 JPEG scheme.
	CompressionOldJPEG Compression = 6
	// CompressionJPEG is JPEG per TIFF Technical Note 2.
	CompressionJPEG Compression = 7
	// CompressionDeflate is zlib Deflate (Adobe variant, code 8).
	CompressionDeflate Compression = 8
	// CompressionPackBits is byte-oriented run-length encoding.
	CompressionPackBits Compression = 32773
	// CompressionDeflateOld is the original non-Adobe Deflate code.
	CompressionDeflateOld Compression = 32946
	// CompressionJP2K is a JPEG 2000 codestream, common in microscopy.
	CompressionJP2K Compression = 34712
	// CompressionZstd is Zstandard (GDAL/libtiff extension).
	CompressionZstd Compression = 50000
)

// String returns a string representation of the compression type.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionCCITTRLE:
		return "ccitt-rle"
	case CompressionLZW:
		return "lzw"
	case CompressionOldJPEG:
		return "old-jpeg"
	case CompressionJPEG:
		return "jpeg"
	case CompressionDeflate, CompressionDeflateOld:
		return "deflate"
	case CompressionPackBits:
		return "packbits"
	case CompressionJP2K:
		return "jpeg2000"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Photometric defines the photometric interpretation of pixel values.
type Photometric uint16

const (
	// PhotometricWhiteIsZero inverts grayscale (0 means white).
	PhotometricWhiteIsZero Photometric = 0
	// PhotometricBlackIsZero is ordinary grayscale.
	PhotometricBlackIsZero Photometric = 1
	// PhotometricRGB is full-color RGB.
	PhotometricRGB Photometric = 2
	// PhotometricPalette is color-mapped.
	PhotometricPalette Photometric = 3
	// PhotometricMask is a transparency mask.
	PhotometricMask Photometric = 4
	// PhotometricSeparated is CMYK or other ink sets.
	PhotometricSeparated Photometric = 5
	// PhotometricYCbCr is luminance/chrominance.
	PhotometricYCbCr Photometric = 6
)

// String returns a string representation of the photometric interpretation.
func (p Photometric) String() string {
	switch p {
	case PhotometricWhiteIsZero:
		return "white-is-zero"
	case PhotometricBlackIsZero:
		return "black-is-zero"
	case PhotometricRGB:
		return "rgb"
	case PhotometricPalette:
		return "palette"
	case PhotometricMask:
		return "mask"
	case PhotometricSeparated:
		return "separated"
	case PhotometricYCbCr:
		return "ycbcr"
	default:
		return "unknown"
	}
}

// PlanarConfig defines how multi-sample pixel data is laid out.
type PlanarConfig uint16

const (
	// PlanarContig interleaves samples per pixel (chunky).
	PlanarContig PlanarConfig = 1
	// PlanarSeparate stores each sample in its own plane.
	PlanarSeparate PlanarConfig = 2
)

// String returns a string representation of the planar configuration.
func (p PlanarConfig) String() string {
	switch p {
	case PlanarContig:
		return "contig"
	case PlanarSeparate:
		return "separate"
	default:
		return "unknown"
	}
}

// ResolutionUnit defines the unit of the resolution tags.
type ResolutionUnit uint16

const (
	// ResolutionNone means no absolute unit (aspect ratio only).
	ResolutionNone ResolutionUnit = 1
	// ResolutionInch is pixels per inch.
	ResolutionInch ResolutionUnit = 2
	// ResolutionCentimeter is pixels per centimeter.
	ResolutionCentimeter ResolutionUnit = 3
)

// String returns a string representation of the resolution unit.
func (u ResolutionUnit) String() string {
	switch u {
	case ResolutionNone:
		return "none"
	case ResolutionInch:
		return "inch"
	case ResolutionCentimeter:
		return "centimeter"
	default:
		return "unknown"
	}
}

// SampleFormat defines how sample values are to be interpreted.
type SampleFormat uint16

const (
	// SampleFormatUint is unsigned integer data.
	SampleFormatUint SampleFormat = 1
	// SampleFormatInt is two's complement signed integer data.
	SampleFormatInt SampleFormat = 2
	// SampleFormatFloat is IEEE floating point data.
	SampleFormatFloat SampleFormat = 3
	// SampleFormatVoid is undefined data.
	SampleFormatVoid SampleFormat = 4
)

// String returns a string representation of the sample format.
func (f SampleFormat) String() string {
	switch f {
	case SampleFormatUint:
		return "uint"
	case SampleFormatInt:
		return "int"
	case SampleFormatFloat:
		return "float"
	case SampleFormatVoid:
		return "void"
	default:
		return "unknown"
	}
}

// Rational is an unsigned TIFF rational value.
type Rational struct {
	Num   uint32
	Denom uint32
}

// IsZero reports whether the rational is the zero value.
func (r Rational) IsZero() bool {
	return r.Num == 0 && r.Denom == 0
}
