package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Day is a single day entry from GitHub's Contribution Calendar.
// date is returned as "YYYY-MM-DD" (GitHub GraphQL).
type Day struct {
	Date              string `json:"date"`
	Weekday           int    `json:"weekday"`
	ContributionCount int    `json:"contributionCount"`
}

type Week struct {
	ContributionDays []Day `json:"contributionDays"`
}

type ContributionCalendar struct {
	Weeks []Week `json:"weeks"`
}

const userCalendarQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    login
    name
    avatarUrl
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        weeks {
          contributionDays {
            date
            weekday
            contributionCount
          }
        }
      }
    }
  }
}`

type userCalendarResponse struct {
	User *struct {
		Login                   string `json:"login"`
		Name                    string `json:"name"`
		AvatarURL               string `json:"avatarUrl"`
		ContributionsCollection struct {
			ContributionCalendar ContributionCalendar `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// UserCalendar is the part of a GitHub user the dashboard needs.
type UserCalendar struct {
	Login     string
	Name      string
	AvatarURL string
	Calendar  ContributionCalendar
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("from/to must be set")
	}
	if from.After(to) {
		return fmt.Errorf("from must be <= to")
	}
	// GitHub launched in 2008-04-10; earlier dates are not meaningful for contributions.
	launch := time.Date(2008, 4, 10, 0, 0, 0, 0, time.UTC)
	if from.Before(launch) || to.Before(launch) {
		return fmt.Errorf("date range must be on/after 2008-04-10 (GitHub launch)")
	}
	// GitHub GraphQL limit: span must not exceed 1 year.
	// Allow up to 366 days to accommodate leap years.
	if to.Sub(from) > 366*24*time.Hour {
		return fmt.Errorf("date range must not exceed 1 year (GitHub API limit)")
	}
	return nil
}

func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}

// graphqlRequest sends a GraphQL request to GitHub's API using GITHUB_TOKEN.
func graphqlRequest(ctx context.Context, query string, variables map[string]any, result any) error {
	token := githubToken()
	if token == "" {
		return &AuthError{Message: "GITHUB_TOKEN or GH_TOKEN environment variable is not set"}
	}

	payload := map[string]any{
		"query":     query,
		"variables": variables,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.github.com/graphql", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Message: "GitHub rejected the token (status 401)"}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gqlResp struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	if err := json.Unmarshal(gqlResp.Data, result); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}

	return nil
}

// doQuery prefers an explicit token and falls back to the gh CLI's stored auth.
func doQuery(ctx context.Context, vars map[string]any, resp *userCalendarResponse) error {
	if githubToken() != "" {
		return graphqlRequest(ctx, userCalendarQuery, vars, resp)
	}
	client, err := api.DefaultGraphQLClient()
	if err != nil {
		return &AuthError{Message: err.Error()}
	}
	return client.DoWithContext(ctx, userCalendarQuery, vars, resp)
}

// FetchUserContributionCalendarRange returns the given user's profile and contribution
// calendar covering [from,to] (must not exceed 1 year).
func FetchUserContributionCalendarRange(ctx context.Context, login string, from, to time.Time) (UserCalendar, error) {
	if login == "" {
		return UserCalendar{}, fmt.Errorf("user login must not be empty")
	}
	if err := validateRange(from, to); err != nil {
		return UserCalendar{}, err
	}

	vars := map[string]any{
		"login": login,
		"from":  from.UTC().Format(time.RFC3339),
		"to":    to.UTC().Format(time.RFC3339),
	}

	var resp userCalendarResponse
	if err := doQuery(ctx, vars, &resp); err != nil {
		if isGraphQLUserNotFound(err) {
			return UserCalendar{}, &UserNotFoundError{Login: login, cause: err}
		}
		return UserCalendar{}, err
	}
	if resp.User == nil || resp.User.Login == "" {
		return UserCalendar{}, &UserNotFoundError{Login: login}
	}
	return UserCalendar{
		Login:     resp.User.Login,
		Name:      resp.User.Name,
		AvatarURL: resp.User.AvatarURL,
		Calendar:  resp.User.ContributionsCollection.ContributionCalendar,
	}, nil
}
