package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/bjacksonJaxSun/Epstein-sub000/internal/backend"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/config"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/log"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/pager"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/store"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/tui/styles"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/viewer"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// probeDelay is the wait between health probe attempts during setup
const probeDelay = 2 * time.Second

var (
	cfgFile string
	v       = viper.New()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corpusview",
		Short: "Browse a large media corpus page by page",
		Long: `corpusview browses the media items of a corpus server in a terminal.

Pages load on demand as you scroll in either direction. Jump straight to
an item with g, filter by kind with 1-5 and hide page scans with x.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	flags.String("kind", "", "Start on one kind: all, image, video, audio, document")
	flags.Bool("exclude-scanned", false, "Hide page scans")
	flags.Int("page-size", 0, "Items per page")

	// Flags override the config file only when set
	_ = v.BindPFlag("browse.default_kind", flags.Lookup("kind"))
	_ = v.BindPFlag("browse.exclude_scanned", flags.Lookup("exclude-scanned"))
	_ = v.BindPFlag("browse.page_size", flags.Lookup("page-size"))

	rootCmd.AddCommand(newSetupCmd(), newLocateCmd(), newVersionCmd())
	return rootCmd
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure the server URL and API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return runSetupFlow(cfg, logger)
		},
	}
}

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <id>",
		Short: "Print where an item sits under the current filter",
		Long: `Resolve an item identifier to its page, offset and global index
without opening the browser. The lookup is recorded in jump history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, args[0])
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "corpusview %s\n", Version)
		},
	}
}

// loadConfig reads the config file, applies flag overrides and sets up the
// default logger
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) *backend.Client {
	return backend.NewClient(cfg.Server.URL, cfg.Server.Token, backend.Options{
		Timeout: cfg.Network.Timeout,
		Retries: cfg.Network.Retries,
	}, logger)
}

func runBrowser() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("starting corpusview", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := newClient(cfg, logger)

	history, err := store.NewHistoryStore(cfg.Storage.Dir, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer history.Close()

	session := pager.NewSession(client, cfg.Browse.PageSize, cfg.Filter(), logger)
	launcher := viewer.NewLauncher(cfg.Viewer.Command, cfg.Viewer.Args, cfg.Viewer.CorpusRoot, logger)
	model := tui.NewModel(session, history, launcher, cfg, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "server", cfg.Server.URL, "filter", cfg.Filter().Key())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func runLocate(cmd *cobra.Command, raw string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsConfigured() {
		return errors.New("not configured, run corpusview setup first")
	}

	history, err := store.NewHistoryStore(cfg.Storage.Dir, cfg.Server.URL)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer history.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*cfg.Network.Timeout)
	defer cancel()

	session := pager.NewSession(newClient(cfg, logger), cfg.Browse.PageSize, cfg.Filter(), logger)
	result, err := session.Jump(ctx, raw)
	if err != nil {
		return err
	}

	if err := history.RecordJump(result.Record()); err != nil {
		logger.Warn("failed to record jump", "id", result.ID, "error", err)
	}

	out := cmd.OutOrStdout()
	name := "(unknown)"
	if result.Item != nil {
		name = result.Item.Common().FileName
	}
	fmt.Fprintf(out, "%s %d  %s\n", styles.AccentStyle.Render("✓"), result.ID, name)
	fmt.Fprintf(out, "  filter        %s\n", cfg.Filter().Key())
	fmt.Fprintf(out, "  global index  #%d\n", result.GlobalIndex)
	fmt.Fprintf(out, "  page          %d of %d\n", result.Position.Page+1, result.Page.TotalPages)
	fmt.Fprintf(out, "  offset        %d\n", result.Position.Offset)
	return nil
}

// runSetupFlow prompts for the server and token, probes the server and
// saves the config
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to corpusview!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter the corpus server URL (e.g., http://localhost:5000): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL := strings.TrimSpace(input)
		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		token, err := readToken(reader)
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Println("API token cannot be empty. Please try again.")
			continue
		}

		cfg.Server.URL = serverURL
		cfg.Server.Token = token

		fmt.Println()
		if err := probeWithSpinner(newClient(cfg, logger), logger); err != nil {
			fmt.Printf("\n✗ %v\n", err)
			if errors.Is(err, domain.ErrAuthFailed) {
				fmt.Println("The server rejected the token. Please try again.")
			} else {
				fmt.Println("Please check the URL and try again.")
			}
			fmt.Println()
			continue
		}
		break
	}

	dir := ""
	if cfgFile != "" {
		dir = filepath.Dir(cfgFile)
	}
	if err := config.SaveConfig(cfg, dir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run corpusview again to start browsing.")
	return nil
}

// readToken reads the API token without echo when stdin is a terminal
func readToken(reader *bufio.Reader) (string, error) {
	fmt.Print("API token: ")

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(input), nil
	}

	tokenBytes, err := term.ReadPassword(fd)
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(tokenBytes)), nil
}

// probeWithSpinner checks the server health with a visual spinner
func probeWithSpinner(client *backend.Client, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- backend.Probe(ctx, client, probeDelay, logger)
	}()

	frames := spinner.MiniDot.Frames
	frame := 0
	fmt.Printf("\r%s Contacting server...", frames[frame])

	ticker := time.NewTicker(spinner.MiniDot.FPS)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Connected to %s\n", client.BaseURL())
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Contacting server...", frames[frame%len(frames)])
		}
	}
}
