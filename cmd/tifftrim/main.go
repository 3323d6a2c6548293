// tifftrim trims or splits a 3D TIFF stack along the frame axis while
// preserving per-page TIFF tags and metadata.
//
// Usage:
//
//	Trim mode:
//	  tifftrim -i input.tif -o output.tif -r start:end
//	  tifftrim -i input.tif -o output.tif -r 10:
//
//	Split mode:
//	  tifftrim -i input.tif -o outdir --chunk-size 100
//	  tifftrim -i input.tif -o outdir --chunk-size 100 --block-size 5
//
// Options:
//
//	-i, --input <path>   input TIFF path
//	-o, --output <path>  output TIFF path (trim) or directory (split)
//	-r, --range <s:e>    frame range, end exclusive ("10:" means to the end)
//	--chunk-size <n>     split into consecutive chunks of n frames
//	--block-size <n>     force chunk frame counts to multiples of n (default 3)
//	--no-quiet           print parse warnings for damaged input tags
//	-h, --help           print this message
//	--version            print version information
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-tiffstack/trim"
)

const version = "0.1.0"

type options struct {
	input     string
	output    string
	rangeText string
	hasRange  bool
	chunkSize int
	hasChunk  bool
	blockSize int
	noQuiet   bool
}

func main() {
	if len(os.Args) < 2 {
		usageMessage(os.Stderr, false)
		os.Exit(2)
	}

	for _, arg := range os.Args[1:] {
		if arg == "-h" || arg == "--help" {
			usageMessage(os.Stdout, true)
			os.Exit(0)
		}
		if arg == "--version" {
			fmt.Printf("tifftrim (go-tiffstack) %s\n", version)
			fmt.Println("https://github.com/mrjoshuak/go-tiffstack")
			os.Exit(0)
		}
	}

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usageMessage(os.Stderr, false)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{blockSize: 3}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-i", "--input":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			opts.input = args[i+1]
			i += 2
		case "-o", "--output":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			opts.output = args[i+1]
			i += 2
		case "-r", "--range":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires an argument", arg)
			}
			opts.rangeText = args[i+1]
			opts.hasRange = true
			i += 2
		case "--chunk-size":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--chunk-size requires an argument")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return nil, fmt.Errorf("invalid chunk size: %s", args[i+1])
			}
			opts.chunkSize = n
			opts.hasChunk = true
			i += 2
		case "--block-size":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--block-size requires an argument")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return nil, fmt.Errorf("invalid block size: %s", args[i+1])
			}
			opts.blockSize = n
			i += 2
		case "--no-quiet":
			opts.noQuiet = true
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown option: %s", arg)
			}
			return nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if opts.input == "" {
		return nil, fmt.Errorf("-i/--input is required")
	}
	if opts.output == "" {
		return nil, fmt.Errorf("-o/--output is required")
	}
	if opts.hasRange && opts.hasChunk {
		return nil, fmt.Errorf("-r/--range and --chunk-size are mutually exclusive")
	}
	if !opts.hasRange && !opts.hasChunk {
		return nil, fmt.Errorf("one of -r/--range or --chunk-size is required")
	}

	return opts, nil
}

func run(opts *options) error {
	var trimOpts []trim.Option
	if opts.noQuiet {
		trimOpts = append(trimOpts, trim.WithWarningOutput(os.Stderr))
	}

	if opts.hasChunk {
		trimOpts = append(trimOpts, trim.WithProgress(progressPrinter("Writing chunks", "chunk")))
		paths, err := trim.Split(opts.input, opts.output, opts.chunkSize, opts.blockSize, trimOpts...)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	}

	r, err := trim.ParseFrameRange(opts.rangeText)
	if err != nil {
		return err
	}
	trimOpts = append(trimOpts, trim.WithProgress(progressPrinter("Writing frames", "frame")))
	return trim.Trim(opts.input, opts.output, r, trimOpts...)
}

// progressPrinter reports progress on a single rewritten stderr line,
// finishing it with a newline on the last report.
func progressPrinter(desc, unit string) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r%s: %d/%d %ss", desc, done, total, unit)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func usageMessage(w io.Writer, verbose bool) {
	fmt.Fprintln(w, "Usage: tifftrim -i <input.tif> -o <output> (-r start:end | --chunk-size N) [options]")
	if verbose {
		fmt.Fprintln(w, `
Trim or split a 3D TIFF stack [frames, y, x] along the frame axis,
preserving each retained page's TIFF tags and metadata.

Modes (exactly one is required):
  -r, --range <s:e>    trim to the frame range [s, e), end exclusive.
                       Omit the end ("10:") to keep frames to the end.
  --chunk-size <n>     split into consecutive chunks of n frames,
                       written to the -o directory and named
                       <stem>_frames_<start>_<end>.tif (end exclusive)

Options:
  -i, --input <path>   input TIFF path
  -o, --output <path>  output TIFF path (trim) or directory (split)
  --block-size <n>     with --chunk-size, force every chunk's frame
                       count to a multiple of n; chunks are truncated
                       down to fit (default 3)
  --no-quiet           print parse warnings for damaged input tags
  -h, --help           print this message
  --version            print version information`)
	}
}
