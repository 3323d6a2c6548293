package trim

import (
	"github.com/mrjoshuak/go-tiffstack/tiff"
)

// autoHandledTags are tag codes the TIFF writer derives from the pixel
// data and layout itself. Carrying them over would fight the generated
// values, so the extractor never passes them through.
var autoHandledTags = map[tiff.Tag]bool{
	tiff.TagImageWidth:                true,
	tiff.TagImageLength:               true,
	tiff.TagBitsPerSample:             true,
	tiff.TagCompression:               true,
	tiff.TagPhotometricInterpretation: true,
	tiff.TagSamplesPerPixel:           true,
	tiff.TagRowsPerStrip:              true,
	tiff.TagStripByteCounts:           true,
	tiff.TagPlanarConfiguration:       true,
	tiff.TagPredictor:                 true,
	tiff.TagColorMap:                  true,
	tiff.TagSampleFormat:              true,
}

// namedAttrTags are captured as dedicated PageMeta attributes rather
// than passed through as extra tags.
var namedAttrTags = map[tiff.Tag]bool{
	tiff.TagImageDescription: true,
	tiff.TagXResolution:      true,
	tiff.TagYResolution:      true,
	tiff.TagResolutionUnit:   true,
	tiff.TagSoftware:         true,
	tiff.TagDateTime:         true,
}

// ExtractPageMeta builds the carry-over metadata record for one input
// page: the named attributes read directly off the page, plus every
// remaining tag as an extra tag in page order. Tags the writer cannot
// represent are dropped individually rather than failing the page.
func ExtractPageMeta(p *tiff.Page) *tiff.PageMeta {
	x, y, unit := p.Resolution()
	meta := &tiff.PageMeta{
		Description:    p.Description(),
		DateTime:       p.DateTime(),
		Software:       p.Software(),
		XResolution:    x,
		YResolution:    y,
		ResolutionUnit: unit,
		Compression:    p.Compression(),
		Photometric:    p.Photometric(),
		PlanarConfig:   p.PlanarConfig(),
	}

	for _, f := range p.Fields() {
		if autoHandledTags[f.Tag] || namedAttrTags[f.Tag] {
			continue
		}
		meta.ExtraTags = append(meta.ExtraTags, f)
	}
	return meta
}
