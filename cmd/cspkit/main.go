package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cspkit/internal/cli"
	"cspkit/internal/config"
)

// main is a deterministic boundary: it canonicalizes all CLI inputs into a
// CLIInvocation before any semantics are evaluated.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInvalidInvocation)
	}
	cfg.SetupLogger(os.Stderr)

	inv, err := cli.ParseInvocation(os.Args[1:], cfg)
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInternalError)
	}

	result, execErr := cli.Execute(context.Background(), inv, os.Stdout)
	if execErr != nil {
		fmt.Fprintln(os.Stderr, execErr)
	}
	os.Exit(result.ExitCode)
}
