package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/phrasememo/internal/cli"
	"codeberg.org/snonux/phrasememo/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags, cli.Actions{
		Translate: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error {
			return p.Translate(ctx, cmd.OutOrStdout(), args, !flags.NoCache, flags.JSON)
		}),
		Approve: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error {
			return p.Approve(ctx, cmd.OutOrStdout(), args[0])
		}),
		MarkIncorrect: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error {
			return p.MarkIncorrect(ctx, cmd.OutOrStdout(), args[0])
		}),
		Batch: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error {
			return p.ProcessBatch(ctx, cmd.OutOrStdout(), args[0], !flags.NoCache)
		}),
		Export: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, _ []string) error {
			return p.Export(ctx, cmd.OutOrStdout())
		}),
		Archive: withProcessor(func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) > 0 {
				dir = args[0]
			}
			return p.Archive(ctx, cmd.OutOrStdout(), dir)
		}),
		Serve: withProcessor(func(ctx context.Context, p *processor.Processor, _ *cobra.Command, _ []string) error {
			return p.Serve(ctx)
		}),
		ListModels: func(cmd *cobra.Command, _ []string) error {
			return processor.ListModels(cmd.Context(), cmd.OutOrStdout(), loadConfig())
		},
		Migrate: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			return processor.Migrate(cmd.Context(), cfg, newLogger(cfg))
		},
	})

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// SIGINT and SIGTERM cancel running translations and stop the server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type processorFunc func(ctx context.Context, p *processor.Processor, cmd *cobra.Command, args []string) error

// withProcessor builds a Processor from the loaded configuration, runs fn
// and closes the store afterwards
func withProcessor(fn processorFunc) cli.Action {
	return func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)
		slog.SetDefault(logger)

		p, err := processor.NewProcessor(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("failed to close translation store", "error", err)
			}
		}()

		return fn(cmd.Context(), p, cmd, args)
	}
}

func loadConfig() processor.Config {
	return processor.ConfigFromViper(cli.GetOpenAIKey(), cli.GetGeminiKey())
}

func newLogger(cfg processor.Config) *slog.Logger {
	return processor.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
