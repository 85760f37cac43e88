package meter

import (
	"fmt"
	"io"
	"math"
	"time"
)

func FormatByteRate(b uint64, d time.Duration) string {
	b = uint64(float64(b) / math.Max(time.Nanosecond.Seconds(), d.Seconds()))
	rate, prefix := formatBytes(b)
	if prefix == 0 {
		return fmt.Sprintf("%d B/s", int(rate))
	}

	return fmt.Sprintf("%.1f %cB/s", rate, prefix)
}

func FormatBytes(b uint64) string {
	size, prefix := formatBytes(b)
	if prefix == 0 {
		return fmt.Sprintf("%d B", int(size))
	}

	return fmt.Sprintf("%.2f %cB", size, prefix)
}

func formatBytes(b uint64) (float64, byte) {
	const (
		unit   = 1000
		prefix = "KMGTPE"
	)

	if b < unit {
		return float64(b), 0
	}

	div := int64(unit)
	exp := 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return float64(b) / float64(div), prefix[exp]
}

// Percent is read relative to total, capped at 100. Archive formats that
// read their index before the data read some bytes twice.
func Percent(read uint64, total int64) int {
	if total <= UnknownTotalSize {
		return 0
	}

	return int(math.Min(100, float64(read)*100/float64(total)))
}

// LabelledPercentFormat renders a single progress line
// "<label>: <pct>% (<read>/<total>, <rate>)" that is rewritten in place and
// terminated with a newline on the final update.
func LabelledPercentFormat(w io.Writer, label string, totalSize int64) UpdateCallback {
	return func(read uint64, since time.Duration, done bool) {
		var line string
		if totalSize > UnknownTotalSize {
			line = fmt.Sprintf(
				"\r%s: %d%% (%s/%s, %s)        ",
				label,
				Percent(read, totalSize),
				FormatBytes(read),
				FormatBytes(uint64(totalSize)),
				FormatByteRate(read, since),
			)
		} else {
			line = fmt.Sprintf(
				"\r%s: %s (%s)        ",
				label,
				FormatBytes(read),
				FormatByteRate(read, since),
			)
		}

		if done {
			_, _ = fmt.Fprintln(w, line)
			return
		}
		_, _ = fmt.Fprint(w, line)
	}
}
