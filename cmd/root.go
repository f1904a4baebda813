package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/folioctl/config"
	"github.com/s0up4200/folioctl/folio"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *folio.Client

	// Command flags
	queryExpr  string
	filterExpr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folioctl",
	Short: "A tool to query and manage records on a FOLIO platform",
	Long: `folioctl is a CLI for the FOLIO library services platform. It logs in
against a tenant, keeps the session token fresh, and exposes users,
inventory and circulation records with server-side CQL queries and
optional client-side filter expressions.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the root command and always releases the FOLIO session,
// even when the command fails. Cobra skips post-run hooks on a RunE error,
// so teardown cannot live there.
func run() error {
	err := rootCmd.Execute()
	if client != nil {
		if cerr := client.Close(); cerr != nil && err == nil {
			err = cerr
		}
		client = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.env)")

	// Add subcommands
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(loansCmd)
}

// initializeApp loads the configuration and opens the FOLIO session
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = folio.Open(cmd.Context(),
		cfg.Folio.BaseURL, cfg.Folio.Tenant, cfg.Folio.Username, cfg.Folio.Password,
		logger,
		folio.WithTimeout(cfg.Folio.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to open FOLIO session: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
