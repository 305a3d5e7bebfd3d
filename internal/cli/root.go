package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
	"github.com/pratik-mahalle/alertprobe/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	logLevel     string
	apiClient    *client.Client
	cliLogger    = logger.Nop()

	// stdout receives command output; tests swap it for a buffer
	stdout io.Writer = os.Stdout
	// pollClock drives the wait commands; nil uses the wall clock
	pollClock poller.Clock
)

var rootCmd = &cobra.Command{
	Use:   "alertprobe",
	Short: "alertprobe - alert lifecycle conformance harness",
	Long: `alertprobe drives security alerts through their lifecycle against the
alert management REST API, checks every status change against the lifecycle
table, and probes the backend's re-scan idempotency.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger()
		// Skip client init for config and offline commands
		parent := ""
		if cmd.Parent() != nil {
			parent = cmd.Parent().Name()
		}
		if cmd.Name() == "transitions" || cmd.Name() == "help" || parent == "config" ||
			(parent == "auth" && cmd.Name() == "status") {
			return nil
		}
		if cmd.Name() == "login" || cmd.Name() == "logout" || cmd.Name() == "health" {
			return initClient()
		}
		return initAuthenticatedClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitError carries a process exit status other than 1
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.alertprobe/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Register all subcommands
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newAlertCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newPolicyCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newTransitionsCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ALERTPROBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("poll.timeout", poller.DefaultTimeout)
	viper.SetDefault("poll.interval", poller.DefaultInterval)
	viper.SetDefault("scan.timeout", 5*time.Minute)
	viper.SetDefault("requests_per_second", 10)

	_ = viper.ReadInConfig()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".alertprobe"), nil
}

func initLogger() {
	cliLogger = logger.New(logger.Config{
		Level:      viper.GetString("log_level"),
		Format:     "console",
		OutputPath: "stderr",
	})
}

// currentServerURL is the --server flag, falling back to config
func currentServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	return viper.GetString("server_url")
}

func initClient() error {
	apiClient = client.NewClient(client.Config{
		BaseURL:           currentServerURL(),
		RequestsPerSecond: viper.GetFloat64("requests_per_second"),
		Logger:            cliLogger,
	})
	return nil
}

func initAuthenticatedClient() error {
	if err := initClient(); err != nil {
		return err
	}

	token := viper.GetString("auth.token")
	if token == "" {
		return fmt.Errorf("not authenticated. Run 'alertprobe auth login' first")
	}

	apiClient.SetToken(token)
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

// pollOptions configures waits for alert status changes
func pollOptions() poller.Options {
	return poller.Options{
		Timeout:  viper.GetDuration("poll.timeout"),
		Interval: viper.GetDuration("poll.interval"),
		Clock:    pollClock,
	}
}

// scanPollOptions configures waits for scan completion
func scanPollOptions() poller.Options {
	opts := pollOptions()
	opts.Timeout = viper.GetDuration("scan.timeout")
	return opts
}

func newOrchestrator() *lifecycle.Orchestrator {
	return lifecycle.New(lifecycle.NewClientBackend(apiClient), lifecycle.Options{
		Poll:     pollOptions(),
		ScanPoll: scanPollOptions(),
	}, cliLogger)
}
