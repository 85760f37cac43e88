package meter

import (
	"sync"
	"sync/atomic"
	"time"
)

const UnknownTotalSize = 0

type UpdateCallback func(read uint64, since time.Duration, done bool)

type meter struct {
	count uint64

	done, notify chan struct{}
	close        sync.Once
}

func newMeter() *meter {
	return &meter{
		done:   make(chan struct{}),
		notify: make(chan struct{}),
	}
}

func (m *meter) add(n int) {
	if n > 0 {
		atomic.AddUint64(&m.count, uint64(n))
	}
}

func (m *meter) load() uint64 {
	return atomic.LoadUint64(&m.count)
}

func (m *meter) start(frequency time.Duration, fn UpdateCallback) {
	if frequency < time.Second {
		frequency = time.Second
	}

	started := time.Now()

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(frequency)
		defer ticker.Stop()

		for {
			fn(m.load(), time.Since(started), false)

			select {
			case <-ticker.C:
			case <-m.notify:
				fn(m.load(), time.Since(started), true)
				return
			}
		}
	}()
}

func (m *meter) doClose() {
	m.close.Do(func() {
		close(m.notify)
		<-m.done
	})
}
