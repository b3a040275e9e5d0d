package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gcf/internal/slogutil"
	"gcf/internal/version"
)

var (
	verbosity int
	quiet     bool
	logPath   string
	modelFile string

	logger  = slogutil.NewDiscardLogger()
	logFile *os.File
	// logStderr receives console logs; tests swap it for a buffer.
	logStderr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "gcf",
	Short: "gcf - Gradle class finder",
	Long: `gcf locates where a JVM class comes from in a Gradle project (module
sources, resolved dependencies, or flat-directory jars) and returns its
source, reading embedded source entries or decompiling when needed.`,
	Version:           version.Info(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Silence all logging")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "",
		"Append logs to this file instead of stderr (also stderr when -v is given)")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "Write OpenTelemetry spans as JSON to stderr")
	rootCmd.PersistentFlags().StringVar(&modelFile, "model-file", "",
		"Read the build model from a snapshot (json, yaml or toml) instead of running Gradle")
}

func setup(cmd *cobra.Command, args []string) error {
	if err := setupLogging(cmd, args); err != nil {
		return err
	}
	return setupTracing(logStderr)
}

// setupLogging builds the process logger from the flags. Logs never go to
// stdout, which carries results and the MCP protocol.
func setupLogging(cmd *cobra.Command, args []string) error {
	return configureLogging(slogutil.FormatHuman, slogutil.LevelFromVerbosity(verbosity, quiet))
}

// applyLoggingConfig switches to the configured format, and to the configured
// level unless -v or --quiet was given.
func applyLoggingConfig(format, level string) error {
	lvl := slogutil.LevelFromString(level)
	if verbosity > 0 || quiet {
		lvl = slogutil.LevelFromVerbosity(verbosity, quiet)
	}
	return configureLogging(slogutil.Format(format), lvl)
}

// configureLogging logs to stderr, or to --log-file. With -v and a log file
// every record goes to both.
func configureLogging(format slogutil.Format, level slog.Level) error {
	if logPath == "" {
		logger = slogutil.New(logStderr, format, level)
		slog.SetDefault(logger)
		return nil
	}
	closeLogFile()
	l, f, err := slogutil.NewFileLogger(logPath, format, level)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if verbosity > 0 && !quiet {
		console := slogutil.New(logStderr, format, level)
		l = slog.New(slogutil.NewTeeHandler(l.Handler(), console.Handler()))
	}
	logger, logFile = l, f
	slog.SetDefault(logger)
	return nil
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
