package dashboard

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fchimpan/leetboard/internal/stats"
)

// Fetcher loads the statistics of a single user from an upstream source.
type Fetcher interface {
	FetchUser(ctx context.Context, username string) (*stats.User, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, username string) (*stats.User, error)

func (f FetcherFunc) FetchUser(ctx context.Context, username string) (*stats.User, error) {
	return f(ctx, username)
}

const DefaultConcurrency = 4

type Options struct {
	Concurrency int
	Log         *zap.Logger
}

// Aggregate fetches every username concurrently and returns the users that
// could be loaded, in the order of usernames.
//
// A failing user is logged and left out; it never affects the others. Blank and
// repeated usernames are skipped.
func Aggregate(ctx context.Context, f Fetcher, usernames []string, opts Options) []stats.User {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	names := uniqueNames(usernames)
	results := make([]*stats.User, len(names))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			u, err := f.FetchUser(ctx, name)
			if err != nil {
				log.Warn("failed to fetch user, excluding from dashboard",
					zap.String("user", name), zap.Error(err))
				return nil
			}
			if u == nil {
				log.Warn("upstream returned no data, excluding from dashboard", zap.String("user", name))
				return nil
			}
			results[i] = u
			return nil
		})
	}
	_ = g.Wait()

	users := make([]stats.User, 0, len(results))
	for _, u := range results {
		if u != nil {
			users = append(users, *u)
		}
	}
	log.Debug("aggregated users", zap.Int("requested", len(names)), zap.Int("loaded", len(users)))
	return users
}

func uniqueNames(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, n := range usernames {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
