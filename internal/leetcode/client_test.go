package leetcode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeAPI struct {
	profile  string
	solved   string
	calendar string
	status   map[string]int
}

func (f fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if code, ok := f.status[r.URL.Path]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/alice":
		_, _ = w.Write([]byte(f.profile))
	case "/alice/solved":
		_, _ = w.Write([]byte(f.solved))
	case "/alice/calendar":
		_, _ = w.Write([]byte(f.calendar))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeAPI() fakeAPI {
	return fakeAPI{
		profile: `{"username":"alice","name":"Alice","avatar":"https://example.com/a.png","ranking":12345,"reputation":7,"gitHub":null,"country":"Japan"}`,
		solved: `{"solvedProblem":30,"easySolved":20,"mediumSolved":8,"hardSolved":2,
			"totalSubmissionNum":[{"difficulty":"All","count":3000,"submissions":90},{"difficulty":"Easy","count":800,"submissions":50}],
			"acSubmissionNum":[{"difficulty":"All","count":30,"submissions":40}]}`,
		calendar: `{"activeYears":[2024],"streak":3,"totalActiveDays":11,"submissionCalendar":"{\"1704844800\": 5, \"1704931200\": 1}"}`,
		status:   map[string]int{},
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, zap.NewNop())
}

func TestFetchUser_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, newFakeAPI())
	u, err := c.FetchUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if u.Username != "alice" || u.Profile.Name != "Alice" || u.Profile.Ranking != 12345 {
		t.Fatalf("unexpected profile: %+v", u.Profile)
	}
	if u.Profile.Country == nil || *u.Profile.Country != "Japan" || u.Profile.GitHub != nil {
		t.Fatalf("unexpected optional fields: %+v", u.Profile)
	}
	if u.Solved.Total != 30 || u.Solved.Easy != 20 || u.Solved.Medium != 8 || u.Solved.Hard != 2 {
		t.Fatalf("unexpected solved: %+v", u.Solved)
	}
	if got := u.Solved.Available("Easy"); got != 800 {
		t.Fatalf("expected 800 easy problems, got %d", got)
	}
	if u.Activity.Streak != 3 || u.Activity.TotalActiveDays != 11 {
		t.Fatalf("unexpected activity: %+v", u.Activity)
	}
	if u.Activity.Submissions["1704844800"] != 5 || u.Activity.Submissions["1704931200"] != 1 {
		t.Fatalf("unexpected calendar: %v", u.Activity.Submissions)
	}
}

func TestFetchUser_MalformedCalendarIsRecovered(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.calendar = `{"streak":0,"totalActiveDays":0,"submissionCalendar":"not-json"}`

	c := newTestClient(t, api)
	u, err := c.FetchUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if u.Activity.Submissions == nil || len(u.Activity.Submissions) != 0 {
		t.Fatalf("expected empty calendar, got %v", u.Activity.Submissions)
	}
	if u.Solved.Total != 30 {
		t.Fatalf("expected solved counts to survive, got %+v", u.Solved)
	}
}

func TestFetchUser_NotFound(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.status["/alice"] = http.StatusNotFound

	c := newTestClient(t, api)
	_, err := c.FetchUser(context.Background(), "alice")
	if !IsUserNotFound(err) {
		t.Fatalf("expected UserNotFoundError, got %v", err)
	}
}

func TestFetchUser_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.profile = `{"errors":[{"message":"That user does not exist."}]}`

	c := newTestClient(t, api)
	_, err := c.FetchUser(context.Background(), "alice")
	if !IsUserNotFound(err) {
		t.Fatalf("expected UserNotFoundError, got %v", err)
	}
}

func TestFetchUser_StatusError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.status["/alice/solved"] = http.StatusTooManyRequests

	c := newTestClient(t, api)
	_, err := c.FetchUser(context.Background(), "alice")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status mismatch: got %d", se.StatusCode)
	}
	if IsUserNotFound(err) {
		t.Fatalf("429 must not be reported as user not found")
	}
}

func TestFetchUser_EmptyUsername(t *testing.T) {
	t.Parallel()

	c := NewClient("", time.Second, nil)
	if c.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL, got %q", c.BaseURL)
	}
	if _, err := c.FetchUser(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for empty username")
	}
}
