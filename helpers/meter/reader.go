package meter

import (
	"io"
	"time"
)

// ReaderAt is a metered io.ReaderAt. Close stops the meter and emits the
// final update; it does not close the underlying source.
type ReaderAt interface {
	io.ReaderAt
	io.Closer

	// Read returns the number of bytes read so far.
	Read() uint64
}

type reader struct {
	*meter

	r io.ReaderAt
}

type unmetered struct {
	io.ReaderAt
}

func (unmetered) Close() error { return nil }
func (unmetered) Read() uint64 { return 0 }

// NewReaderAt counts the bytes read through r and calls fn every frequency.
// A zero frequency disables the meter and fn is never called.
func NewReaderAt(r io.ReaderAt, frequency time.Duration, fn UpdateCallback) ReaderAt {
	if frequency == 0 {
		return unmetered{r}
	}

	m := &reader{
		r:     r,
		meter: newMeter(),
	}

	m.start(frequency, fn)

	return m
}

func (m *reader) ReadAt(p []byte, off int64) (int, error) {
	n, err := m.r.ReadAt(p, off)
	m.add(n)

	return n, err
}

func (m *reader) Read() uint64 {
	return m.load()
}

func (m *reader) Close() error {
	m.doClose()

	return nil
}
