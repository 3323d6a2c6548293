package tiff

// PageMeta is the carry-over metadata for one written page: the named
// attributes the writer re-emits as their own tags, plus the ordered
// extra tags passed through verbatim.
//
// A PageMeta is extracted once from an input page, consumed once when
// the page is written, and never mutated in between.
type PageMeta struct {
	// ExtraTags are fields to pass through unchanged. Fields whose tag
	// collides with one the writer derives itself are dropped.
	ExtraTags []Field

	Description    string
	DateTime       string
	Software       string
	XResolution    Rational
	YResolution    Rational
	ResolutionUnit ResolutionUnit
	Compression    Compression
	Photometric    Photometric
	PlanarConfig   PlanarConfig
}

// defaultPageMeta is used when a page is written without metadata.
func defaultPageMeta() *PageMeta {
	return &PageMeta{
		Compression:  CompressionNone,
		Photometric:  PhotometricBlackIsZero,
		PlanarConfig: PlanarContig,
	}
}
