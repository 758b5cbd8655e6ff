package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing
// writer does not stop the others, its error is merged into the result.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports the bytes written by all writers together.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		n   int
		err error
	)
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		n += written
		err = multierr.Append(err, werr)
	}
	return n, err
}
