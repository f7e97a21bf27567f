package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/phrasememo/internal"
)

// Action runs a subcommand
type Action func(cmd *cobra.Command, args []string) error

// Actions are the subcommand implementations wired in by main
type Actions struct {
	Translate     Action
	Approve       Action
	MarkIncorrect Action
	Serve         Action
	Batch         Action
	Export        Action
	ListModels    Action
	Migrate       Action
	Archive       Action
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, actions Actions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phrasememo",
		Short: "Road-sign phrase translator with a reviewed translation memory",
		Long: `phrasememo translates short road-sign phrases through a chat-completion API
and remembers every answer. Remembered translations can be approved or
marked incorrect; approved ones are served without asking the API again.

Examples:
  phrasememo translate "3. Ustąp pierwszeństwa"   # Translate one phrase
  phrasememo approve "Уступите дорогу"             # Approve a remembered translation
  phrasememo batch phrases.txt                     # Translate a file, one phrase per line
  phrasememo serve --addr :8080                    # Serve the JSON endpoint`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "approve <translation>",
			Short: "Move a remembered translation to the approved bucket",
			Args:  cobra.ExactArgs(1),
			RunE:  actions.Approve,
		},
		&cobra.Command{
			Use:   "mark-incorrect <translation>",
			Short: "Move a remembered translation to the incorrect bucket",
			Args:  cobra.ExactArgs(1),
			RunE:  actions.MarkIncorrect,
		},
		&cobra.Command{
			Use:   "export",
			Short: "Print the whole translation memory as JSON",
			Args:  cobra.NoArgs,
			RunE:  actions.Export,
		},
		&cobra.Command{
			Use:   "archive [dir]",
			Short: "Save a timestamped JSON snapshot of the translation memory",
			Args:  cobra.MaximumNArgs(1),
			RunE:  actions.Archive,
		},
		&cobra.Command{
			Use:   "list-models",
			Short: "List chat models available for the configured OpenAI key",
			Args:  cobra.NoArgs,
			RunE:  actions.ListModels,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations for the sqlite or postgres store",
			Args:  cobra.NoArgs,
			RunE:  actions.Migrate,
		},
		translateCommand(flags, actions.Translate),
		batchCommand(flags, actions.Batch),
		serveCommand(flags, actions.Serve),
	)

	return rootCmd
}

func translateCommand(flags *Flags, run Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <phrase>...",
		Short: "Translate phrases, using the translation memory first",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Neither read nor write the translation memory")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the full result as JSON")
	return cmd
}

func batchCommand(flags *Flags, run Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Translate phrases from a file (one per line, \"phrase = translation\" seeds approved entries)",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Neither read nor write the translation memory")
	cmd.Flags().IntVarP(&flags.Concurrency, "concurrency", "c", flags.Concurrency, "Phrases translated at once")
	_ = viper.BindPFlag("batch.concurrency", cmd.Flags().Lookup("concurrency"))
	return cmd
}

func serveCommand(flags *Flags, run Action) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON translation endpoint",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.phrasememo.yaml)")
	pf.StringVar(&flags.Provider, "provider", flags.Provider, "Translation API: openai or gemini")
	pf.StringVar(&flags.Model, "model", "", "Model name (default depends on the provider)")
	pf.StringVar(&flags.PromptFile, "prompt", flags.PromptFile, "Prompt and dictionary rules document (JSON or YAML)")
	pf.StringVar(&flags.StoreBackend, "store", flags.StoreBackend, "Translation memory backend: file, sqlite, postgres, s3 or memory")
	pf.StringVar(&flags.StorePath, "store-path", flags.StorePath, "File or sqlite database path")
	pf.StringVar(&flags.StoreDSN, "store-dsn", "", "Postgres connection string")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	_ = viper.BindPFlag("provider", pf.Lookup("provider"))
	_ = viper.BindPFlag("model", pf.Lookup("model"))
	_ = viper.BindPFlag("prompt.file", pf.Lookup("prompt"))
	_ = viper.BindPFlag("store.backend", pf.Lookup("store"))
	_ = viper.BindPFlag("store.path", pf.Lookup("store-path"))
	_ = viper.BindPFlag("store.dsn", pf.Lookup("store-dsn"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
}
