package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liskovlint/liskov/internal"
	"github.com/liskovlint/liskov/lint"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-run the linter whenever a python file under the given paths changes",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			logger.Fatal("error: no files or directories specified")
		}

		engine, err := lint.New(".", cfgFile)
		if err != nil {
			logger.Fatal("failed to initialize lint engine", zap.Error(err))
		}

		watcher, err := internal.NewWatcher(engine, nil)
		if err != nil {
			logger.Fatal("failed to create watcher", zap.Error(err))
		}
		defer watcher.Stop()

		if err := watcher.Start(args); err != nil {
			logger.Fatal("failed to start watcher", zap.Error(err))
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
	},
}
