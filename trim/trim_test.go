package trim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrjoshuak/go-tiffstack/tiff"
)

type inputOpts struct {
	big        bool
	globalDesc string
	comp       tiff.Compression
}

// writeInput creates a test stack on disk: frames pages of 4x3 8-bit
// pixels, each page carrying a description, software, resolution, and
// a custom pass-through tag.
func writeInput(t *testing.T, path string, frames int, opts inputOpts) [][]byte {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	wopts := []tiff.WriterOption{}
	if opts.big {
		wopts = append(wopts, tiff.WithBigTIFF())
	}
	if opts.globalDesc != "" {
		wopts = append(wopts, tiff.WithGlobalDescription(opts.globalDesc))
	}
	w := tiff.NewWriter(out, wopts...)

	comp := opts.comp
	if comp == 0 {
		comp = tiff.CompressionNone
	}

	pix := make([][]byte, frames)
	for i := 0; i < frames; i++ {
		pix[i] = make([]byte, 4*3)
		for j := range pix[i] {
			pix[i][j] = byte(i*40 + j)
		}

		name := append([]byte(fmt.Sprintf("pos %d", i)), 0)
		meta := &tiff.PageMeta{
			Description:    fmt.Sprintf("page %d", i),
			Software:       "stackgen",
			XResolution:    tiff.Rational{Num: 72, Denom: 1},
			YResolution:    tiff.Rational{Num: 72, Denom: 1},
			ResolutionUnit: tiff.ResolutionInch,
			Compression:    comp,
			Photometric:    tiff.PhotometricBlackIsZero,
			PlanarConfig:   tiff.PlanarContig,
			ExtraTags: []tiff.Field{
				{Tag: tiff.TagPageName, Type: tiff.TypeASCII, Count: uint32(len(name)), Data: name},
			},
		}
		frame := tiff.Frame{
			Width: 4, Height: 3, BitsPerSample: 8,
			SampleFormat: tiff.SampleFormatUint, Pix: pix[i],
		}
		if err := w.WritePage(frame, meta); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return pix
}

func openOutput(t *testing.T, path string) (*tiff.File, *tiff.Stack) {
	t.Helper()
	f, err := tiff.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile(%s): %v", path, err)
	}
	s, err := f.ReadStack()
	if err != nil {
		t.Fatalf("ReadStack(%s): %v", path, err)
	}
	return f, s
}

func TestTrim(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	out := filepath.Join(dir, "trimmed.tif")
	pix := writeInput(t, in, 6, inputOpts{})

	if err := Trim(in, out, FrameRange{Start: 1, End: 4, HasEnd: true}); err != nil {
		t.Fatalf("Trim: %v", err)
	}

	f, s := openOutput(t, out)
	if s.Frames() != 3 {
		t.Fatalf("output has %d frames, want 3", s.Frames())
	}
	for i := 0; i < 3; i++ {
		if !bytes.Equal(s.Pix[i], pix[i+1]) {
			t.Errorf("output frame %d does not match input frame %d", i, i+1)
		}
		p := f.Page(i)
		if got, want := p.Description(), fmt.Sprintf("page %d", i+1); got != want {
			t.Errorf("page %d Description() = %q, want %q", i, got, want)
		}
		if got := p.Field(tiff.TagPageName); got == nil || got.ASCII() != fmt.Sprintf("pos %d", i+1) {
			t.Errorf("page %d PageName not carried over: %v", i, got)
		}
		if got := p.Software(); got != "stackgen" {
			t.Errorf("page %d Software() = %q", i, got)
		}
	}
}

func TestTrimUnboundedEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	out := filepath.Join(dir, "tail.tif")
	pix := writeInput(t, in, 6, inputOpts{})

	if err := Trim(in, out, FrameRange{Start: 4}); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	_, s := openOutput(t, out)
	if s.Frames() != 2 {
		t.Fatalf("output has %d frames, want 2", s.Frames())
	}
	if !bytes.Equal(s.Pix[0], pix[4]) || !bytes.Equal(s.Pix[1], pix[5]) {
		t.Error("unbounded trim picked wrong frames")
	}
}

func TestTrimValidation(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	writeInput(t, in, 4, inputOpts{})

	tests := []struct {
		name string
		r    FrameRange
		msg  string
	}{
		{"negative start", FrameRange{Start: -1, End: 2, HasEnd: true}, "invalid start frame -1"},
		{"start beyond file", FrameRange{Start: 5, End: 6, HasEnd: true}, "invalid start frame 5"},
		{"end beyond file", FrameRange{Start: 0, End: 9, HasEnd: true}, "invalid end frame 9"},
		{"negative end", FrameRange{Start: 0, End: -2, HasEnd: true}, "invalid end frame -2"},
		{"start equals end", FrameRange{Start: 2, End: 2, HasEnd: true}, "start frame must be less than end frame"},
		{"start after end", FrameRange{Start: 3, End: 1, HasEnd: true}, "start frame must be less than end frame"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Trim(in, filepath.Join(dir, "out.tif"), tt.r)
			if err == nil {
				t.Fatal("Trim succeeded")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
		})
	}
}

func TestTrimMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := Trim(filepath.Join(dir, "absent.tif"), filepath.Join(dir, "out.tif"),
		FrameRange{Start: 0, End: 1, HasEnd: true})
	if err == nil || !strings.Contains(err.Error(), "input file not found") {
		t.Errorf("Trim on missing input = %v", err)
	}
}

func TestTrimCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	writeInput(t, in, 2, inputOpts{})

	out := filepath.Join(dir, "a", "b", "out.tif")
	if err := Trim(in, out, FrameRange{Start: 0, End: 1, HasEnd: true}); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestTrimPreservesFormatFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "big.tif")
	writeInput(t, in, 3, inputOpts{big: true, comp: tiff.CompressionLZW})

	out := filepath.Join(dir, "out.tif")
	if err := Trim(in, out, FrameRange{Start: 0, End: 2, HasEnd: true}); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	f, _ := openOutput(t, out)
	if !f.IsBigTIFF() {
		t.Error("BigTIFF flag not preserved")
	}
	if got := f.Page(0).Compression(); got != tiff.CompressionLZW {
		t.Errorf("Compression() = %v, want LZW", got)
	}
}

func TestTrimGlobalDescription(t *testing.T) {
	const global = "ImageJ=1.53\nimages=6\nslices=6\n"
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	writeInput(t, in, 6, inputOpts{globalDesc: global})

	out := filepath.Join(dir, "out.tif")
	if err := Trim(in, out, FrameRange{Start: 2, End: 5, HasEnd: true}); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	f, _ := openOutput(t, out)
	if got := f.Page(0).Description(); got != global {
		t.Errorf("page 0 Description() = %q, want global block", got)
	}
	if got := f.Page(1).Description(); got != "page 3" {
		t.Errorf("page 1 Description() = %q, want per-page description", got)
	}
}

func TestTrimProgress(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	writeInput(t, in, 5, inputOpts{})

	var got [][2]int
	err := Trim(in, filepath.Join(dir, "out.tif"), FrameRange{Start: 1, End: 4, HasEnd: true},
		WithProgress(func(done, total int) { got = append(got, [2]int{done, total}) }))
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPageMeta(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "stack.tif")
	writeInput(t, in, 1, inputOpts{})

	f, err := tiff.OpenFile(in)
	if err != nil {
		t.Fatal(err)
	}
	meta := ExtractPageMeta(f.Page(0))

	if meta.Description != "page 0" || meta.Software != "stackgen" {
		t.Errorf("named attributes not captured: %+v", meta)
	}
	if meta.XResolution != (tiff.Rational{Num: 72, Denom: 1}) || meta.ResolutionUnit != tiff.ResolutionInch {
		t.Errorf("resolution not captured: %+v", meta)
	}
	if meta.Compression != tiff.CompressionNone || meta.Photometric != tiff.PhotometricBlackIsZero {
		t.Errorf("interpretation attributes not captured: %+v", meta)
	}

	for _, f := range meta.ExtraTags {
		if autoHandledTags[f.Tag] {
			t.Errorf("auto-handled tag %v leaked into extra tags", f.Tag)
		}
		if namedAttrTags[f.Tag] {
			t.Errorf("named attribute tag %v leaked into extra tags", f.Tag)
		}
	}
	var foundPageName bool
	for _, f := range meta.ExtraTags {
		if f.Tag == tiff.TagPageName {
			foundPageName = true
		}
	}
	if !foundPageName {
		t.Error("PageName missing from extra tags")
	}
}
