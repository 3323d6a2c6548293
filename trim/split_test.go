package trim

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkPlan(t *testing.T) {
	tests := []struct {
		name      string
		frames    int
		chunkSize int
		blockSize int
		want      [][2]int
	}{
		{"even split", 8, 4, 1, [][2]int{{0, 4}, {4, 8}}},
		{"truncated tail", 10, 4, 1, [][2]int{{0, 4}, {4, 8}, {8, 10}}},
		{"single chunk", 10, 20, 1, [][2]int{{0, 10}}},
		{"one frame chunks", 3, 1, 1, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{"block rounds chunk down", 10, 4, 3, [][2]int{{0, 3}, {3, 6}, {6, 9}}},
		{"block aligned", 12, 6, 3, [][2]int{{0, 6}, {6, 12}}},
		{"block truncates tail", 10, 20, 3, [][2]int{{0, 9}}},
		{"tail smaller than block", 7, 3, 3, [][2]int{{0, 3}, {3, 6}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chunkPlan(tt.frames, tt.chunkSize, tt.blockSize)
			if err != nil {
				t.Fatalf("chunkPlan: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("chunkPlan(%d, %d, %d) mismatch (-want +got):\n%s",
					tt.frames, tt.chunkSize, tt.blockSize, diff)
			}
		})
	}
}

func TestChunkPlanChunkSmallerThanBlock(t *testing.T) {
	if _, err := chunkPlan(10, 2, 3); err == nil {
		t.Error("chunk size 2 with block size 3 accepted")
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "series.tif")
	outDir := filepath.Join(dir, "chunks")
	pix := writeInput(t, in, 10, inputOpts{})

	paths, err := Split(in, outDir, 4, 1)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	want := []string{
		filepath.Join(outDir, "series_frames_0_4.tif"),
		filepath.Join(outDir, "series_frames_4_8.tif"),
		filepath.Join(outDir, "series_frames_8_10.tif"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	bounds := [][2]int{{0, 4}, {4, 8}, {8, 10}}
	for i, path := range paths {
		f, s := openOutput(t, path)
		start, end := bounds[i][0], bounds[i][1]
		if s.Frames() != end-start {
			t.Fatalf("%s has %d frames, want %d", path, s.Frames(), end-start)
		}
		for j := 0; j < s.Frames(); j++ {
			if !bytes.Equal(s.Pix[j], pix[start+j]) {
				t.Errorf("%s frame %d does not match input frame %d", path, j, start+j)
			}
			if got, wantDesc := f.Page(j).Description(), fmt.Sprintf("page %d", start+j); got != wantDesc {
				t.Errorf("%s page %d Description() = %q, want %q", path, j, got, wantDesc)
			}
		}
	}
}

func TestSplitBlockSize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "series.tif")
	outDir := filepath.Join(dir, "chunks")
	writeInput(t, in, 10, inputOpts{})

	paths, err := Split(in, outDir, 4, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := []string{
		filepath.Join(outDir, "series_frames_0_3.tif"),
		filepath.Join(outDir, "series_frames_3_6.tif"),
		filepath.Join(outDir, "series_frames_6_9.tif"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitValidation(t *testing.T) {
	dir := t.TempDir()
	absent := filepath.Join(dir, "absent.tif")

	// Parameter checks fire before the input is touched.
	if _, err := Split(absent, dir, 0, 1); err == nil || !strings.Contains(err.Error(), "chunk size") {
		t.Errorf("chunk size 0 = %v", err)
	}
	if _, err := Split(absent, dir, -4, 1); err == nil || !strings.Contains(err.Error(), "chunk size") {
		t.Errorf("chunk size -4 = %v", err)
	}
	if _, err := Split(absent, dir, 4, 0); err == nil || !strings.Contains(err.Error(), "block size") {
		t.Errorf("block size 0 = %v", err)
	}
	if _, err := Split(absent, dir, 4, 1); err == nil || !strings.Contains(err.Error(), "input file not found") {
		t.Errorf("missing input = %v", err)
	}
}

func TestSplitEmptyStack(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.tif")
	// Classic little-endian header whose first-IFD pointer is zero: a
	// structurally valid file with no pages.
	if err := os.WriteFile(in, []byte{'I', 'I', 42, 0, 0, 0, 0, 0}, 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "chunks")
	paths, err := Split(in, outDir, 4, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Split wrote %d files for an empty stack", len(paths))
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output directory not empty: %v", entries)
	}
}

func TestSplitProgress(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "series.tif")
	writeInput(t, in, 10, inputOpts{})

	var got [][2]int
	_, err := Split(in, filepath.Join(dir, "chunks"), 4, 1,
		WithProgress(func(done, total int) { got = append(got, [2]int{done, total}) }))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}
