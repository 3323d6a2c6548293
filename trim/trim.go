package trim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-tiffstack/tiff"
)

// Trim copies the frames in r from the stack at inputPath to a new
// TIFF at outputPath, preserving each retained page's tags, the input
// byte order, and the classic/BigTIFF format flag. Parent directories
// of outputPath are created as needed; an existing output file is
// overwritten.
func Trim(inputPath, outputPath string, r FrameRange, opts ...Option) error {
	o := newOptions(opts)

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("trim: input file not found: %s", inputPath)
	}

	f, err := tiff.OpenFile(inputPath)
	if err != nil {
		return err
	}
	o.emitWarnings(f)

	stack, err := f.ReadStack()
	if err != nil {
		return err
	}

	n := stack.Frames()
	start, end := r.Start, n
	if r.HasEnd {
		end = r.End
	}
	if start < 0 || start > n {
		return fmt.Errorf("trim: invalid start frame %d, file has %d frames", start, n)
	}
	if end < 0 || end > n {
		return fmt.Errorf("trim: invalid end frame %d, file has %d frames", end, n)
	}
	if start >= end {
		return errors.New("trim: start frame must be less than end frame")
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return writeRange(f, stack, start, end, outputPath, o, true)
}

// writeRange writes frames [start, end) of the stack to path, carrying
// over each source page's metadata. When perFrame is set, progress is
// reported once per frame.
func writeRange(f *tiff.File, stack *tiff.Stack, start, end int, path string, o *options, perFrame bool) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	wopts := []tiff.WriterOption{tiff.WithByteOrder(f.ByteOrder())}
	if f.IsBigTIFF() {
		wopts = append(wopts, tiff.WithBigTIFF())
	}
	if global := f.GlobalDescription(); global != "" {
		wopts = append(wopts, tiff.WithGlobalDescription(global))
	}

	tw := tiff.NewWriter(out, wopts...)
	total := end - start
	for i := start; i < end; i++ {
		if err := tw.WritePage(stack.Frame(i), ExtractPageMeta(f.Page(i))); err != nil {
			out.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if perFrame {
			o.report(i-start+1, total)
		}
	}
	if err := tw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
