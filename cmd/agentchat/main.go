package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agentchat/pkg/agent"
	"agentchat/pkg/chat"
	"agentchat/pkg/config"
	"agentchat/pkg/logging"
	"agentchat/pkg/storage"
	"agentchat/pkg/ui"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	storage    string
	url        string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "agentchat",
		Short: "Chat with a remote agent from the terminal",
		Long: `agentchat keeps a list of conversations with a remote agent and
persists them between runs.

Keys:
  Enter        send the message
  Ctrl+N       start a new conversation
  Tab          switch between the list and the input
  Alt+1..4     fill the input with a starter prompt
  Ctrl+Y       copy the last reply
  Ctrl+C       quit
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.GetConfigPath(), "Path to the config file")
	cmd.Flags().StringVar(&opts.storage, "storage", "", "Storage driver: file, sqlite or memory")
	cmd.Flags().StringVar(&opts.url, "url", "", "Agent endpoint URL")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error")

	cmd.AddCommand(versionCmd())
	cmd.AddCommand(backendsCmd())

	return cmd
}

// loadConfig reads the config file and applies flags given on the command line.
func loadConfig(cmd *cobra.Command, opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Driver = opts.storage
	}
	if flags.Changed("url") {
		cfg.Agent.URL = opts.url
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	logger, err := logging.Init(cfg)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	kv, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer kv.Close()

	store := chat.NewStore(kv, cfg.Storage.Key, chat.WithLogger(logger.With("component", "chat")))
	// A corrupt slot has already been logged; the session starts empty.
	_ = store.Load()

	a, err := agent.New(cfg.Agent)
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	logger.Info("session_start",
		"backend", cfg.Agent.Backend,
		"storage_driver", cfg.Storage.Driver,
		"conversations", len(store.Conversations()),
	)

	program := tea.NewProgram(ui.NewModel(ctx, store, a, cfg.StarterPrompts), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}

	logger.Info("session_end")
	return nil
}
