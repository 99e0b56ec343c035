package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fchimpan/leetboard/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := cmd.NewRootCmd(cmd.DefaultDeps())
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
