// Package cli implements the site command: listings, detail pages, the
// application and contact forms, and the interactive browser.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tnsystems-site/internal/config"
	"tnsystems-site/internal/infra/cmsclient"
	"tnsystems-site/internal/observability/logging"
	"tnsystems-site/internal/tui"
)

// DefaultConfigPath is read when present; --config makes it mandatory.
const DefaultConfigPath = "site.yaml"

// ErrReported marks a failure whose message was already written to the
// command output. main exits non-zero without printing it again.
var ErrReported = errors.New("reported")

// app is the state shared by every subcommand, filled in before they run.
type app struct {
	version string
	cfg     *config.SiteConfig
	client  *cmsclient.Client
	logger  *slog.Logger
}

// NewRootCmd creates the site command tree.
func NewRootCmd(version string) *cobra.Command {
	var (
		configPath string
		apiURL     string
		logLevel   string
	)
	a := &app{version: version}

	cmd := &cobra.Command{
		Use:           "site",
		Short:         "TN Systems in the terminal",
		Long:          "Read the blog, browse open positions, apply for a job or send a message to TN Systems.",
		Version:       version,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, configPath, cmd.Flags().Changed("config"), apiURL, logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath, "site configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "override api.base_url from the configuration")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newBlogCmd(a),
		newCareersCmd(a),
		newPostCmd(a),
		newJobCmd(a),
		newApplyCmd(a),
		newContactCmd(a),
		newBrowseCmd(a),
	)
	return cmd
}

const rootExample = `  # Latest blog posts, filtered by category and search
  site blog --category Engineering --search cloud

  # Second page of open positions without colors
  site careers --page 2 --plain

  # Apply for job 12
  site apply 12 --name "Asha Rao" --email asha@example.com --resume-url https://example.com/cv.pdf

  # Interactive browser against a staging API
  site browse --api-url https://staging.tnsystems.in`

func (a *app) setup(cmd *cobra.Command, path string, explicit bool, apiURL, level string) error {
	a.logger = logging.NewTextLogger(cmd.ErrOrStderr(), logging.ParseLevel(level))

	cfg, err := config.LoadSiteConfig(path, explicit)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg = cfg.WithAPIURL(apiURL)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--api-url: %w", err)
		}
	}
	a.cfg = cfg
	a.client = cmsclient.New(cmsclient.Config{
		WordPressAPIURL:   cfg.Endpoint(cfg.API.PostsPath),
		JobsAPIURL:        cfg.Endpoint(cfg.API.JobsPath),
		ContactFormAPIURL: cfg.Endpoint(cfg.API.ContactPath),
		Timeout:           cfg.API.Timeout,
		UserAgent:         "tnsystems-site/" + a.version,
	}, cmsclient.WithLogger(a.logger))
	a.logger.Debug("site configuration loaded",
		slog.String("api", cfg.API.BaseURL),
		slog.Int("page_size", cfg.Listing.PageSize))
	return nil
}

// styles picks plain output for --plain, colors otherwise.
func styles(plain bool) tui.Styles {
	if plain {
		return tui.PlainStyles()
	}
	return tui.DefaultStyles()
}
