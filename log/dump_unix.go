//go:build !windows

package log

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"
)

// watchForGoroutinesDump logs the stacks of all goroutines on SIGUSR1 until
// stopCh is closed. dumped receives after each dump and finished is closed
// once watching stops.
func watchForGoroutinesDump(logger *logrus.Logger, stopCh chan bool) (dumped chan bool, finished chan bool) {
	dumped = make(chan bool, 1)
	finished = make(chan bool)

	dumpStacks := make(chan os.Signal, 1)
	signal.Notify(dumpStacks, syscall.SIGUSR1)

	go func() {
		defer close(finished)
		defer signal.Stop(dumpStacks)

		for {
			select {
			case <-dumpStacks:
				buf := make([]byte, 1<<20)
				n := runtime.Stack(buf, true)
				logger.Printf("=== received SIGUSR1 ===\n*** goroutine dump...\n%s\n*** end\n", buf[:n])

				select {
				case dumped <- true:
				default:
				}
			case <-stopCh:
				return
			}
		}
	}()

	return dumped, finished
}
