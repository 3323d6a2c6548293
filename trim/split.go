package trim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-tiffstack/tiff"
)

// Split cuts the stack at inputPath into consecutive chunks of
// chunkSize frames, writing one TIFF per chunk into outputDir as
// <stem>_frames_<start>_<end>.tif with end exclusive. It returns the
// written paths in ascending start order.
//
// A blockSize greater than 1 constrains every chunk's frame count to a
// multiple of blockSize: the chunk length is rounded down to the
// nearest multiple, and the final chunk is truncated the same way,
// dropping any tail frames that cannot fill a whole block.
//
// A zero-frame stack yields no files and an empty list. A chunk write
// failure aborts the split; chunks already written stay on disk.
func Split(inputPath, outputDir string, chunkSize, blockSize int, opts ...Option) ([]string, error) {
	if chunkSize <= 0 {
		return nil, errors.New("trim: chunk size must be a positive integer")
	}
	if blockSize <= 0 {
		return nil, errors.New("trim: block size must be a positive integer")
	}
	o := newOptions(opts)

	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("trim: input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	f, err := tiff.OpenFile(inputPath)
	if err != nil {
		return nil, err
	}
	o.emitWarnings(f)

	stack, err := f.ReadStack()
	if err != nil {
		return nil, err
	}
	if stack.Frames() == 0 {
		return nil, nil
	}

	plan, err := chunkPlan(stack.Frames(), chunkSize, blockSize)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	written := make([]string, 0, len(plan))
	for i, c := range plan {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_frames_%d_%d.tif", stem, c[0], c[1]))
		if err := writeRange(f, stack, c[0], c[1], path, o, false); err != nil {
			return nil, fmt.Errorf("chunk [%d,%d): %w", c[0], c[1], err)
		}
		written = append(written, path)
		o.report(i+1, len(plan))
	}
	return written, nil
}

// chunkPlan computes the ordered chunk ranges for a stack of frames
// frames. Each range is [start, end) with end exclusive.
func chunkPlan(frames, chunkSize, blockSize int) ([][2]int, error) {
	step := chunkSize
	if blockSize > 1 {
		step = chunkSize - chunkSize%blockSize
		if step == 0 {
			return nil, fmt.Errorf("trim: chunk size %d is smaller than block size %d", chunkSize, blockSize)
		}
	}

	var plan [][2]int
	for start := 0; start < frames; start += step {
		end := start + step
		if end > frames {
			end = frames
			if blockSize > 1 {
				end = start + (frames-start)/blockSize*blockSize
			}
		}
		if end <= start {
			break
		}
		plan = append(plan, [2]int{start, end})
	}
	return plan, nil
}
