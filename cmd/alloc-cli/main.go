package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/noah-isme/campus-allocator/internal/cli"
	"github.com/noah-isme/campus-allocator/pkg/logger"
)

func main() {
	var root cli.Root
	kctx := kong.Parse(&root,
		kong.Name("alloc-cli"),
		kong.Description("Offline course allocation, activity scheduling, reading plans and recommendations."),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	logr, err := logger.NewCLI(root.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logr.Sync() //nolint:errcheck

	appCtx, err := root.NewContext(os.Stdout, logr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := kctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
