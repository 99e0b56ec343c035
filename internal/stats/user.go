package stats

import "github.com/fchimpan/leetboard/internal/calendar"

type Profile struct {
	Username   string  `json:"username"`
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar"`
	Ranking    int     `json:"ranking"`
	Reputation int     `json:"reputation"`
	GitHub     *string `json:"gitHub"`
	Twitter    *string `json:"twitter"`
	LinkedIn   *string `json:"linkedIN"`
	Country    *string `json:"country"`
	Company    *string `json:"company"`
	School     *string `json:"school"`
}

// DifficultyCount is one row of the per-difficulty submission breakdown.
// Difficulty is "All", "Easy", "Medium" or "Hard".
type DifficultyCount struct {
	Difficulty  string `json:"difficulty"`
	Count       int    `json:"count"`
	Submissions int    `json:"submissions"`
}

type Solved struct {
	Total               int               `json:"solvedProblem"`
	Easy                int               `json:"easySolved"`
	Medium              int               `json:"mediumSolved"`
	Hard                int               `json:"hardSolved"`
	TotalSubmissions    []DifficultyCount `json:"totalSubmissionNum"`
	AcceptedSubmissions []DifficultyCount `json:"acSubmissionNum"`
}

// Available returns the number of problems of the given difficulty as reported
// by TotalSubmissions, or 0 when the difficulty is missing.
func (s Solved) Available(difficulty string) int {
	for _, d := range s.TotalSubmissions {
		if d.Difficulty == difficulty {
			return d.Count
		}
	}
	return 0
}

type Activity struct {
	Submissions     calendar.Calendar `json:"submissionCalendar"`
	TotalActiveDays int               `json:"totalActiveDays"`
	Streak          int               `json:"streak"`
}

// User is everything the dashboard knows about one tracked account.
type User struct {
	Username string   `json:"username"`
	Profile  Profile  `json:"profile"`
	Solved   Solved   `json:"solved"`
	Activity Activity `json:"calendar"`
}
