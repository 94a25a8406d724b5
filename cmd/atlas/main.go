// Command atlas serves the slide catalog over HTTP and provides maintenance
// subcommands for migrations and sidecar bundles.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/heartmarshall/slide-atlas/internal/app"
)

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(app.BuildVersion()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
