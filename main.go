package main

import (
	"context"
	"os"

	"github.com/dmorgan81/autologo/internal/cli"
	"github.com/dmorgan81/autologo/internal/inject"
	"github.com/dmorgan81/autologo/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(os.Stderr, log.ParseLevel(os.Getenv("AUTOLOGO_LOG_LEVEL")))
	ctx := log.NewContext(context.Background(), logger)
	injector := inject.Setup(ctx)

	root := &cobra.Command{
		Use:          "autologo",
		Short:        "Generate brand logo concepts with an image model",
		SilenceUsage: true,
	}
	root.AddCommand(cli.NewGenerateCmd(injector), cli.NewShellCmd(injector))

	err := root.ExecuteContext(ctx)
	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		logger.Error("shutdown", "error", shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
