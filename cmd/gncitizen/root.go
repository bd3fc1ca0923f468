package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gncitizen/internal/config"
	pkgconfig "gncitizen/pkg/config"
	"gncitizen/pkg/logger"
)

type rootOptions struct {
	env       string
	configDir string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gncitizen",
		Short:         "Citizen-science core API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", pkgconfig.GetConfigEnv(), "configuration environment (local, production, ...)")
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "config", "directory holding base.yaml and <env>.yaml")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newSchemaCommand(opts),
		newTokenCommand(opts),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger shared by commands.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.env, o.configDir)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewLogger(o.env), nil
}
