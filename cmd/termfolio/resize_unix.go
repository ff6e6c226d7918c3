//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/nolindnaidoo/termfolio/sshserver"
)

// watchWindow reports the terminal size on every SIGWINCH until ctx ends.
func watchWindow(ctx context.Context, fd int) <-chan sshserver.Window {
	out := make(chan sshserver.Window, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	go func() {
		defer close(out)
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sig:
				ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
				if err != nil {
					continue
				}
				select {
				case out <- sshserver.Window{Width: int(ws.Col), Height: int(ws.Row)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
