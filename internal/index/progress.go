package index

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar builds the bar shown while the scan hashes files. The
// caller wires its Add method into Options.Progress and decides whether a
// bar is appropriate for the output destination.
func NewProgressBar(total int, out io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Calculating hashes"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
