package trim

import (
	"fmt"
	"io"

	"github.com/mrjoshuak/go-tiffstack/tiff"
)

// Option configures a Trim or Split call.
type Option func(*options)

type options struct {
	progress func(done, total int)
	warnOut  io.Writer
}

// WithProgress installs a progress callback. Trim reports once per
// written frame, Split once per written chunk; done counts from 1 to
// total.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) { o.progress = fn }
}

// WithWarningOutput directs non-fatal parse warnings from the input
// file to w. By default warnings are suppressed.
func WithWarningOutput(w io.Writer) Option {
	return func(o *options) { o.warnOut = w }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) report(done, total int) {
	if o.progress != nil {
		o.progress(done, total)
	}
}

func (o *options) emitWarnings(f *tiff.File) {
	if o.warnOut == nil {
		return
	}
	if err := f.Warnings(); err != nil {
		fmt.Fprintln(o.warnOut, err)
	}
}
