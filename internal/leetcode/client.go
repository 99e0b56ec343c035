package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fchimpan/leetboard/internal/calendar"
	"github.com/fchimpan/leetboard/internal/stats"
)

const DefaultBaseURL = "https://alfa-leetcode-api.onrender.com"

// Client talks to the alfa-leetcode-api statistics service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Log:     log,
	}
}

type calendarPayload struct {
	SubmissionCalendar json.RawMessage `json:"submissionCalendar"`
	TotalActiveDays    int             `json:"totalActiveDays"`
	Streak             int             `json:"streak"`
}

// FetchUser loads profile, solved counts and submission calendar of username.
// The three requests run concurrently; any failure fails the whole user.
//
// A calendar that cannot be decoded is replaced by an empty one so that the rest
// of the user's statistics stay usable.
func (c *Client) FetchUser(ctx context.Context, username string) (*stats.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	var (
		profile stats.Profile
		solved  stats.Solved
		calRaw  calendarPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.getJSON(gctx, username, "", &profile) })
	g.Go(func() error { return c.getJSON(gctx, username, "solved", &solved) })
	g.Go(func() error { return c.getJSON(gctx, username, "calendar", &calRaw) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	subs, err := calendar.Normalize(calRaw.SubmissionCalendar)
	if err != nil {
		c.logger().Warn("submission calendar is malformed, using an empty one",
			zap.String("user", username), zap.Error(err))
		subs = calendar.Calendar{}
	}

	c.logger().Debug("user loaded",
		zap.String("user", username),
		zap.Int("solved", solved.Total),
		zap.Int("submissions", subs.Total()))

	if profile.Username == "" {
		profile.Username = username
	}
	return &stats.User{
		Username: username,
		Profile:  profile,
		Solved:   solved,
		Activity: stats.Activity{
			Submissions:     subs,
			TotalActiveDays: calRaw.TotalActiveDays,
			Streak:          calRaw.Streak,
		},
	}, nil
}

func (c *Client) endpoint(username, resource string) string {
	u := c.BaseURL + "/" + url.PathEscape(username)
	if resource != "" {
		u += "/" + resource
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, username, resource string, out any) error {
	endpoint := c.endpoint(username, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.logger().Debug("statistics API call",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusNotFound {
		return &UserNotFoundError{Username: username, cause: &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Errors []apiError `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		msg := envelope.Errors[0].Message
		if isUserMissingMessage(msg) {
			return &UserNotFoundError{Username: username, cause: errors.New(msg)}
		}
		return fmt.Errorf("statistics API error: %s", msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
