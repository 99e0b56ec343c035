package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fchimpan/leetboard/internal/config"
	"github.com/fchimpan/leetboard/internal/dashboard"
	"github.com/fchimpan/leetboard/internal/github"
	"github.com/fchimpan/leetboard/internal/heatmap"
	"github.com/fchimpan/leetboard/internal/leetcode"
	"github.com/fchimpan/leetboard/internal/server"
	"github.com/fchimpan/leetboard/internal/stats"
	"github.com/fchimpan/leetboard/internal/tui"
)

func defaultLoadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	return config.Load(path)
}

func defaultNewLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func defaultNewFetcher(cfg *config.Config, log *zap.Logger, anchor func() time.Time) (dashboard.Fetcher, error) {
	switch strings.ToLower(cfg.Source) {
	case config.SourceGitHub:
		src := github.NewSource()
		if anchor != nil {
			src.Now = anchor
		}
		return src, nil
	case config.SourceLeetCode:
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return nil, err
		}
		return leetcode.NewClient(cfg.APIBase, timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func (s *session) anchor(now time.Time) time.Time {
	if !s.today.IsZero() {
		return s.today
	}
	return now.UTC()
}

func (s *session) aggregate(ctx context.Context) []stats.User {
	return dashboard.Aggregate(ctx, s.fetcher, s.cfg.Users, dashboard.Options{
		Concurrency: s.cfg.Concurrency,
		Log:         s.log,
	})
}

func runDashboard(ctx context.Context, deps Deps, s *session) error {
	if deps.RunTUI == nil {
		return fmt.Errorf("deps.RunTUI is nil")
	}
	if len(s.cfg.Users) == 0 {
		return errNoUsers
	}

	users := s.aggregate(ctx)
	s.log.Debug("dashboard loaded", zap.Int("requested", len(s.cfg.Users)), zap.Int("loaded", len(users)))
	return deps.RunTUI(users, tui.Options{
		Now:    deps.Now,
		Today:  s.today,
		Policy: s.policy,
	})
}

func runHeatmap(ctx context.Context, deps Deps, s *session, username string, asJSON bool) error {
	u, err := s.fetcher.FetchUser(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", username, err)
	}
	if u == nil {
		return fmt.Errorf("failed to fetch %s: empty response", username)
	}

	grid := heatmap.BuildGrid(u.Activity.Submissions, s.anchor(deps.Now()), heatmap.WithPolicy(s.policy))

	if asJSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Username string       `json:"username"`
			Streak   int          `json:"streak"`
			Grid     heatmap.Grid `json:"grid"`
		}{u.Username, u.Activity.Streak, grid})
	}

	fmt.Fprintf(deps.Stdout, "%s  streak %d\n\n", u.Username, u.Activity.Streak)
	fmt.Fprintln(deps.Stdout, tui.RenderHeatmap(grid, 0))
	if s.cfg.Source == config.SourceLeetCode {
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, tui.RenderProgress(dashboard.Progress(*u)))
	}
	return nil
}

func runTable(ctx context.Context, deps Deps, s *session) error {
	if len(s.cfg.Users) == 0 {
		return errNoUsers
	}

	users := s.aggregate(ctx)
	if len(users) == 0 {
		fmt.Fprintln(deps.Stdout, "no user statistics available")
		return nil
	}
	fmt.Fprintln(deps.Stdout, tui.RenderComparison(users, dashboard.Winners(users)))
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, tui.RenderLeaderboard(dashboard.Leaderboard(users)))
	return nil
}

func runServe(ctx context.Context, deps Deps, s *session) error {
	if deps.Serve == nil {
		return fmt.Errorf("deps.Serve is nil")
	}
	if len(s.cfg.Users) == 0 {
		return errNoUsers
	}

	router := server.NewRouter(server.Dependencies{
		Fetcher:     s.fetcher,
		Users:       s.cfg.Users,
		Concurrency: s.cfg.Concurrency,
		Policy:      s.policy,
		Now:         deps.Now,
		Log:         s.log,
	})
	return deps.Serve(ctx, s.cfg.Server.Addr, router, s.log)
}
