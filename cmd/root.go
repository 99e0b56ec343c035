package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fchimpan/leetboard/internal/config"
	"github.com/fchimpan/leetboard/internal/dashboard"
	"github.com/fchimpan/leetboard/internal/github"
	"github.com/fchimpan/leetboard/internal/heatmap"
	"github.com/fchimpan/leetboard/internal/server"
	"github.com/fchimpan/leetboard/internal/stats"
	"github.com/fchimpan/leetboard/internal/tui"
)

type Deps struct {
	LoadConfig func(path string) (*config.Config, error)
	NewLogger  func(level string, verbose bool) (*zap.Logger, error)
	// NewFetcher gets the heatmap anchor so sources with a date window follow --today.
	NewFetcher func(cfg *config.Config, log *zap.Logger, anchor func() time.Time) (dashboard.Fetcher, error)
	RunTUI     func(users []stats.User, opts tui.Options) error
	Serve      func(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
}

func DefaultDeps() Deps {
	return Deps{
		LoadConfig: defaultLoadConfig,
		NewLogger:  defaultNewLogger,
		NewFetcher: defaultNewFetcher,
		RunTUI:     defaultRunTUI,
		Serve:      server.Serve,
		Now:        time.Now,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	users      []string
	source     string
	policy     string
	today      string
	verbose    bool
}

// session is the resolved state a command runs with.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	fetcher dashboard.Fetcher
	policy  heatmap.Policy
	// today is zero unless --today was given.
	today time.Time
}

func NewRootCmd(deps Deps) *cobra.Command {
	opts := &rootOptions{}

	c := &cobra.Command{
		Use:          "leetboard",
		Short:        "Track and compare LeetCode progress with GitHub-style heatmaps",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.setup(deps)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()
			return withHint(deps, runDashboard(cmd.Context(), deps, s))
		},
	}

	pf := c.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "path to the YAML config file")
	pf.StringArrayVarP(&opts.users, "user", "u", nil, "username to track (repeatable, overrides config)")
	pf.StringVar(&opts.source, "source", "", "statistics source: leetcode or github")
	pf.StringVar(&opts.policy, "policy", "", "intensity policy: percentile or fixed")
	pf.StringVar(&opts.today, "today", "", "anchor the heatmap window at this date (YYYY-MM-DD)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	c.AddCommand(
		newHeatmapCmd(deps, opts),
		newTableCmd(deps, opts),
		newServeCmd(deps, opts),
	)

	c.SetOut(deps.Stdout)
	c.SetErr(deps.Stderr)
	return c
}

func newHeatmapCmd(deps Deps, opts *rootOptions) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "heatmap USER",
		Short: "Print the submission heatmap of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.setup(deps)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()
			return withHint(deps, runHeatmap(cmd.Context(), deps, s, args[0], asJSON))
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the grid as JSON")
	return c
}

func newTableCmd(deps Deps, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the comparison table and leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.setup(deps)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()
			return runTable(cmd.Context(), deps, s)
		},
	}
}

func newServeCmd(deps Deps, opts *rootOptions) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.setup(deps)
			if err != nil {
				return err
			}
			defer func() { _ = s.log.Sync() }()
			if addr != "" {
				s.cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), deps, s)
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (default from config, e.g. :8080)")
	return c
}

// setup loads the config, applies flag overrides and builds the logger and fetcher.
func (o *rootOptions) setup(deps Deps) (*session, error) {
	if deps.LoadConfig == nil || deps.NewLogger == nil || deps.NewFetcher == nil {
		return nil, fmt.Errorf("deps are incomplete")
	}

	cfg, err := deps.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if len(o.users) > 0 {
		cfg.Users = nil
		for _, u := range o.users {
			cfg.Users = append(cfg.Users, config.SplitList(u)...)
		}
	}
	if o.source != "" {
		cfg.Source = o.source
	}
	cfg.Source = strings.ToLower(cfg.Source)
	if o.policy != "" {
		cfg.Policy = o.policy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := heatmap.PolicyByName(cfg.Policy)
	if err != nil {
		return nil, err
	}

	var today time.Time
	if o.today != "" {
		if today, err = parseDateUTC(o.today); err != nil {
			return nil, err
		}
	}

	log, err := deps.NewLogger(cfg.Logging.Level, o.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	s := &session{cfg: cfg, log: log, policy: policy, today: today}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	s.fetcher, err = deps.NewFetcher(cfg, log, func() time.Time { return s.anchor(now()) })
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withHint prints a credentials hint when the GitHub source has no token.
func withHint(deps Deps, err error) error {
	if err == nil {
		return nil
	}
	if github.IsAuthError(err) {
		fmt.Fprintln(deps.Stderr, "hint: set GITHUB_TOKEN (or GH_TOKEN) or run `gh auth login`")
	}
	return err
}

var errNoUsers = errors.New("no users configured: pass --user or set users in " + config.DefaultPath)

const dateLayout = "2006-01-02"

func parseDateUTC(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
