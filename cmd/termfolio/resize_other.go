//go:build !unix

package main

import (
	"context"

	"github.com/nolindnaidoo/termfolio/sshserver"
)

// watchWindow is a no-op where SIGWINCH does not exist; the UI keeps its
// initial size.
func watchWindow(context.Context, int) <-chan sshserver.Window {
	return nil
}
