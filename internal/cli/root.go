package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wesleyorama2/simplenet/http"
)

const (
	envConfig  = "SIMPLENET_CONFIG"
	envProfile = "SIMPLENET_PROFILE"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "simplenet",
		Short:   "A small declarative HTTP/JSON client",
		Version: http.Version,
		Long: `simplenet sends JSON requests against a base URL or a configured profile,
decodes the responses and reports failures as one of a few well-known kinds:
unknown, connection lost, timeout, no internet and cannot decode.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Profile file (YAML or JSON); defaults to $"+envConfig)
	flags.String("profile", "", "Profile to use from the config file; defaults to $"+envProfile)
	flags.String("env-file", ".env", "Dotenv file loaded before running")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.BoolP("verbose", "v", false, "Show request and response headers")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("debug", false, "Trace requests and responses to stderr")
	flags.DurationP("timeout", "t", 30*time.Second, "Request timeout")

	root.AddCommand(
		newRequestCmd(http.MethodGet),
		newRequestCmd(http.MethodPost),
		newRequestCmd(http.MethodPut),
		newRequestCmd(http.MethodPatch),
		newRequestCmd(http.MethodDelete),
		newBenchCmd(),
	)
	return root
}

// Execute runs the command line until it completes or the process is interrupted.
// This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// loadDotEnv loads the dotenv file without overriding variables already set.
// A missing default file is ignored; a missing explicit one is an error.
func loadDotEnv(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("env-file") {
		return nil
	}
	return fmt.Errorf("failed to load env file: %w", err)
}

// newLogger writes human-readable debug lines to w.
func newLogger(w io.Writer) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named("simplenet")
}
