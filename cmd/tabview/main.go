package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/tabview/internal/config"
	"github.com/csheth/tabview/internal/deck"
	"github.com/csheth/tabview/internal/logging"
	"github.com/csheth/tabview/internal/tabbar"
	"github.com/csheth/tabview/internal/tui"
)

var (
	flagConfig      string
	flagNoAltScreen bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tabview [deck]",
	Short: "Swipe through a deck of pages under a scrollable tab bar",
	Long: `tabview shows a deck of pages side by side under a scrollable tab bar.

Decks are YAML files (pages: [{label, body}]), PDFs (one tab per page) or
text files split on lines holding only ---. http(s) URLs are downloaded and
cached. Without a deck a demo deck is shown.

Examples:
  tabview                          # demo deck
  tabview notes.md --tab-style flat
  tabview paper.pdf --tab-bar bottom --locked`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pages, err := load(cmd, args)
		if err != nil {
			return err
		}
		return runTUI(cfg, pages)
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages [deck]",
	Short: "Print the tab labels of a deck",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pages, err := load(cmd, args)
		if err != nil {
			return err
		}
		for i, page := range pages {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, page.Label)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $XDG_CONFIG_HOME/tabview/config.toml)")
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().BoolVar(&flagNoAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.AddCommand(pagesCmd)
}

func load(cmd *cobra.Command, args []string) (config.Config, []deck.Page, error) {
	cfg, err := config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Deck = args[0]
	}
	if cfg.Deck == "" {
		return cfg, deck.Default(), nil
	}
	pages, err := loadDeck(cmd, cfg.Deck)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load deck: %w", err)
	}
	return cfg, pages, nil
}

func loadDeck(cmd *cobra.Command, source string) ([]deck.Page, error) {
	return reloader(source)(cmd.Context())
}

// reloader returns a loader for source that the TUI can call again later.
func reloader(source string) func(ctx context.Context) ([]deck.Page, error) {
	return func(ctx context.Context) ([]deck.Page, error) {
		if !deck.IsRemote(source) {
			return deck.Load(source)
		}
		cache, err := deck.NewCache(nil)
		if err != nil {
			return nil, err
		}
		return cache.LoadRemote(ctx, source)
	}
}

func runTUI(cfg config.Config, pages []deck.Page) error {
	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	pressable, err := tabbar.PressableFor(cfg.TabStyle)
	if err != nil {
		return err
	}
	logger.Info().Str("deck", cfg.Deck).Int("pages", len(pages)).Msg("starting")

	var reload func(ctx context.Context) ([]deck.Page, error)
	if cfg.Deck != "" {
		reload = reloader(cfg.Deck)
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !flagNoAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Options:   cfg.PagerOptions(),
			Pages:     pages,
			Pressable: pressable,
			Header:    cfg.CollapsableBar,
			Reload:    reload,
			Logger:    logger,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
