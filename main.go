package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teaminsight/internal/config"
	logger "teaminsight/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var projectRoot string

	root := &cobra.Command{
		Use:           "teaminsight",
		Short:         "TeamInsight work-style self-assessment server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&projectRoot, "root", ".", "directory holding config/ and logs/")

	root.AddCommand(newServeCmd(&projectRoot))
	root.AddCommand(newMigrateCmd(&projectRoot))
	root.AddCommand(newQuestionsCmd(&projectRoot))
	return root
}

// bootstrap loads configuration and builds the logger every command uses.
func bootstrap(projectRoot string) (*config.Manager, *zap.Logger, error) {
	manager, err := config.Load(projectRoot)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.Init(projectRoot, manager.Get().Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return manager, log, nil
}
