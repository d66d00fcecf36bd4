package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rasad-feed/internal/app"
	"rasad-feed/internal/observability/logging"
)

// cli carries the state shared by every subcommand.
type cli struct {
	v       *viper.Viper
	cfgFile string
	envFile string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "rasadctl",
		Short:         "Collect and inspect Persian news headlines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default ./rasad.yaml if present)")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.String("database-url", "", "database DSN (env RASAD_DATABASE_URL, then DATABASE_URL)")
	pf.Bool("migrate", true, "apply the schema before running the command")
	_ = c.v.BindPFlag("database_url", pf.Lookup("database-url"))
	_ = c.v.BindPFlag("migrate", pf.Lookup("migrate"))

	root.AddCommand(
		c.ingestCmd(),
		c.reportCmd(),
		c.highlightsCmd(),
		c.filtersCmd(),
		c.sourcesCmd(),
		c.digestCmd(),
		c.messagesCmd(),
	)
	return root
}

// setup loads the dotenv file, then the optional config file, then binds
// RASAD_* variables. Flags win over all of them.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	c.v.SetEnvPrefix("RASAD")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()
	c.v.SetDefault("digest.per_agency", 3)

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else {
		c.v.SetConfigName("rasad")
		c.v.SetConfigType("yaml")
		c.v.AddConfigPath(".")
		if err := c.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	c.logger = logging.NewTextLogger()
	cmd.SetContext(logging.WithLogger(cmd.Context(), c.logger))
	return nil
}

// withApp builds the dependencies, runs fn and releases them.
func (c *cli) withApp(cmd *cobra.Command, opts app.Options, fn func(ctx context.Context, a *app.App) error) error {
	opts.DSN = c.v.GetString("database_url")
	opts.Migrate = c.v.GetBool("migrate")

	a, err := app.New(cmd.Context(), c.logger, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			c.logger.Warn("failed to release resources", slog.Any("error", err))
		}
	}()
	return fn(cmd.Context(), a)
}
