// Package commands implements the pokeforge command-line interface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/pokeforge-client/pkg/auth"
	"github.com/Sternrassler/pokeforge-client/pkg/cache"
	"github.com/Sternrassler/pokeforge-client/pkg/client"
	"github.com/Sternrassler/pokeforge-client/pkg/logging"
	"github.com/Sternrassler/pokeforge-client/pkg/metrics"
	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

// Version is reported by --version and sent in the User-Agent.
var Version = "dev"

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

// Settings is the resolved CLI configuration. Flags take precedence over
// POKEFORGE_* environment variables, which take precedence over the
// config file.
type Settings struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Retries        int
	Output         string
	LogLevel       string
	RedisURL       string
	CacheRetention time.Duration
	Metrics        bool
}

// App carries per-invocation state shared by all commands.
type App struct {
	v        *viper.Viper
	out      io.Writer
	errOut   io.Writer
	settings Settings
	logger   zerolog.Logger

	pf    *pokeforge.Client
	redis *redis.Client
}

func newApp(out, errOut io.Writer) *App {
	return &App{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
		logger: zerolog.Nop(),
	}
}

// Run executes the CLI with args and releases every resource it opened.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	app := newApp(out, errOut)
	root := app.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	app.close()

	if app.settings.Metrics {
		if merr := metrics.WriteText(errOut, prometheus.DefaultGatherer); merr != nil {
			app.logger.Warn().Err(merr).Msg("Failed to write metrics")
		}
	}
	return err
}

var persistentKeys = []string{
	"config", "base-url", "token", "timeout", "retries", "output",
	"log-level", "redis-url", "cache-retention", "metrics",
}

func (a *App) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pokeforge",
		Short: "PokeForge trading card API CLI",
		Long: `A command-line interface for the PokeForge trading card API.

Browse cards, sets, series, artists and the blog, and inspect your
collections and favorites.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.pokeforge/config.yaml)")
	flags.String("base-url", client.DefaultBaseURL, "API base URL")
	flags.StringP("token", "t", "", "bearer token")
	flags.Duration("timeout", 30*time.Second, "timeout for each request attempt")
	flags.Int("retries", 3, "retries after the first attempt")
	flags.StringP("output", "o", OutputFormatTable, "output format (table, json, yaml)")
	flags.String("log-level", string(logging.LevelWarn), "log level (debug, info, warn, error, disabled)")
	flags.String("redis-url", "", "Redis URL enabling the response cache, e.g. redis://localhost:6379/0")
	flags.Duration("cache-retention", cache.DefaultRetention, "how long stale entries are kept for revalidation")
	flags.Bool("metrics", false, "print client metrics to stderr on exit")

	for _, key := range persistentKeys {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(a.newHealthCommand())
	cmd.AddCommand(a.newCardsCommand())
	cmd.AddCommand(a.newSetsCommand())
	cmd.AddCommand(a.newSeriesCommand())
	cmd.AddCommand(a.newCollectionsCommand())
	cmd.AddCommand(a.newFavoritesCommand())
	cmd.AddCommand(a.newArtistsCommand())
	cmd.AddCommand(a.newBlogCommand())
	cmd.AddCommand(a.newServeCommand())

	return cmd
}

func (a *App) initialize() error {
	if err := a.readConfig(); err != nil {
		return err
	}

	a.settings = Settings{
		BaseURL:        a.v.GetString("base-url"),
		Token:          a.v.GetString("token"),
		Timeout:        a.v.GetDuration("timeout"),
		Retries:        a.v.GetInt("retries"),
		Output:         strings.ToLower(a.v.GetString("output")),
		LogLevel:       a.v.GetString("log-level"),
		RedisURL:       a.v.GetString("redis-url"),
		CacheRetention: a.v.GetDuration("cache-retention"),
		Metrics:        a.v.GetBool("metrics"),
	}

	switch a.settings.Output {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", a.settings.Output)
	}

	if _, err := logging.ParseLevel(a.settings.LogLevel); err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(a.settings.LogLevel),
		Pretty: logging.IsTerminal(a.errOut),
		Output: a.errOut,
	})
	a.logger = logging.NewLogger("pokeforge-cli")

	return nil
}

func (a *App) readConfig() error {
	a.v.SetEnvPrefix("POKEFORGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(filepath.Join(home, ".pokeforge"))
	a.v.SetConfigName("config")
	a.v.SetConfigType("yaml")

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// client lazily builds the API client from the resolved settings.
func (a *App) client() (*pokeforge.Client, error) {
	if a.pf != nil {
		return a.pf, nil
	}

	cfg := client.DefaultConfig()
	cfg.BaseURL = a.settings.BaseURL
	cfg.Timeout = a.settings.Timeout
	cfg.Retries = a.settings.Retries
	cfg.UserAgent = "pokeforge-cli/" + Version
	if a.settings.Token != "" {
		cfg.Credential = auth.Static(a.settings.Token)
	}
	logger := a.logger
	cfg.Logger = &logger

	if a.settings.RedisURL != "" {
		opts, err := redis.ParseURL(a.settings.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		cfg.Cache = cache.NewManager(a.redis, a.settings.CacheRetention)
	}

	pf, err := pokeforge.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	a.pf = pf
	return pf, nil
}

func (a *App) close() {
	if a.pf != nil {
		_ = a.pf.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
