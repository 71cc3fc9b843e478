package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/jt/internal/config"
	"github.com/jacoelho/jt/internal/execute"
	"github.com/jacoelho/jt/internal/exit"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	r, err := execute.New(cfg)
	if err != nil {
		result := exit.Errorf("jt: %v\n", err)
		result.Print()
		return result.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		result := exit.Errorf("jt: %v\n", err)
		result.Print()
		return result.ExitCode
	}

	return exit.CodeOK
}
