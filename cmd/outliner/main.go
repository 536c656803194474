package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tsawler/outliner/cache"
	"github.com/tsawler/outliner/internal/config"
	"github.com/tsawler/outliner/internal/logger"
)

const appName = "outliner"

var (
	Version     = "0.1.0"
	CommitSha   = "unknown"
	FullVersion = Version + "-" + CommitSha
)

// app holds the state shared by all subcommands
type app struct {
	configPath string
	logLevel   string
	logFile    string

	cfg       *config.Config
	logCloser io.Closer
}

// setup loads the configuration and installs the logger. Flags override
// the file.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		path = config.Find()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if _, ok := logger.LevelFromString(cfg.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	closer, err := logger.Init(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logCloser = closer

	if path != "" {
		slog.Debug("configuration loaded", "path", path)
	}
	return nil
}

func (a *app) teardown() {
	if a.logCloser != nil {
		a.logCloser.Close()
		a.logCloser = nil
	}
}

// openCache opens the configured result cache and drops entries older than
// cache.max_age
func (a *app) openCache(ctx context.Context) (*cache.Cache, error) {
	c, err := cache.Open(a.cfg.Cache.Path)
	if err != nil {
		return nil, err
	}

	removed, err := c.Expire(ctx, a.cfg.Cache.MaxAge)
	if err != nil {
		slog.Warn("cache expiry failed", "path", a.cfg.Cache.Path, "error", err)
	} else if removed > 0 {
		slog.Info("expired cached outlines", "removed", removed, "max_age", a.cfg.Cache.MaxAge)
	}
	return c, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Infer document titles and heading outlines from PDF typography",
		Long: color.New(color.FgHiMagenta).Sprintf(
			"Infer a PDF's title and H1-H3 outline from font size, weight and position. %s",
			color.New(color.FgBlue).Sprintf("(%s)", FullVersion),
		),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Append logs to this file instead of stderr")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	rootCmd.SetHelpTemplate(HelpTemplate)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		return ColorUsageFunc(c.OutOrStderr(), c)
	})

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
