// Package cli is the command line front end: the TUI by default, plus
// one-shot subcommands over the same song API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/tunecrate/internal/catalog"
	"github.com/llehouerou/tunecrate/internal/config"
	"github.com/llehouerou/tunecrate/internal/logger"
	"github.com/llehouerou/tunecrate/internal/state"
	"github.com/llehouerou/tunecrate/internal/upload"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type options struct {
	configPath string
	verbose    bool
}

// env is what every command needs: the loaded config and an API client.
type env struct {
	cfg    *config.Config
	client *catalog.Client
	stdout io.Writer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tunecrate",
		Short:         "tunecrate is a terminal client for a remote song library.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tunecrate/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr (subcommands only)")

	root.AddCommand(
		newLsCmd(opts),
		newUploadCmd(opts),
		newRmCmd(opts),
		newPlayCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "tunecrate:", err)
		os.Exit(1)
	}
}

// setup loads config, starts logging and builds the API client. The
// returned func flushes the log.
func setup(cmd *cobra.Command, opts *options, stderr bool) (*env, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.GetLogConfig()
	level := logCfg.Level
	if opts.verbose && stderr {
		level = "debug"
	}
	flush, err := logger.Init(logger.Config{
		Level:      level,
		OutputPath: logCfg.File,
		MaxSizeMB:  logCfg.MaxSizeMB,
		MaxBackups: logCfg.MaxBackups,
		MaxAgeDays: logCfg.MaxAgeDays,
		Stderr:     opts.verbose && stderr,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		flush()
		return nil, nil, err
	}

	logger.L().Debug("configured",
		zap.String("base_url", cfg.GetAPIConfig().BaseURL),
		zap.String("command", cmd.Name()),
	)
	return &env{cfg: cfg, client: client, stdout: cmd.OutOrStdout()}, flush, nil
}

func newClient(cfg *config.Config) (*catalog.Client, error) {
	maxSize, err := cfg.MaxUploadSize()
	if err != nil {
		return nil, err
	}
	api := cfg.GetAPIConfig()
	return catalog.New(catalog.Options{
		BaseURL:    api.BaseURL,
		SongsPath:  api.SongsPath,
		UploadPath: api.UploadPath,
		Timeout:    cfg.RequestTimeout(),
		Limits:     upload.NewLimits(maxSize, cfg.Upload.AllowedTypes),
		Version:    Version,
	})
}

// findSong fetches the list and returns the song with id.
func findSong(ctx context.Context, c *catalog.Client, id string) (catalog.Song, error) {
	songs, err := c.List(ctx)
	if err != nil {
		return catalog.Song{}, err
	}
	for _, s := range songs {
		if s.ID == id {
			return s, nil
		}
	}
	return catalog.Song{}, fmt.Errorf("%w: %s", errSongNotFound, id)
}

var errSongNotFound = errors.New("no song with id")

// openState opens the state database, honoring state_file from the config.
func openState(cfg *config.Config) (*state.Manager, error) {
	if cfg.StateFile != "" {
		return state.OpenPath(cfg.StateFile)
	}
	return state.Open()
}
