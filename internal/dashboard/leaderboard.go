package dashboard

import (
	"sort"

	"github.com/fchimpan/leetboard/internal/stats"
)

type Metric string

const (
	MetricTotal  Metric = "total"
	MetricEasy   Metric = "easy"
	MetricMedium Metric = "medium"
	MetricHard   Metric = "hard"
)

// Metrics lists the comparable columns in display order.
var Metrics = []Metric{MetricTotal, MetricEasy, MetricMedium, MetricHard}

func (m Metric) Value(s stats.Solved) int {
	switch m {
	case MetricTotal:
		return s.Total
	case MetricEasy:
		return s.Easy
	case MetricMedium:
		return s.Medium
	case MetricHard:
		return s.Hard
	default:
		return 0
	}
}

type Standing struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Total    int    `json:"total"`
	Easy     int    `json:"easy"`
	Medium   int    `json:"medium"`
	Hard     int    `json:"hard"`
}

// Leaderboard orders users by total solved, highest first. Users with the same
// total keep their configured order and share a rank.
func Leaderboard(users []stats.User) []Standing {
	out := make([]Standing, 0, len(users))
	for _, u := range users {
		out = append(out, Standing{
			Username: u.Username,
			Avatar:   u.Profile.Avatar,
			Total:    u.Solved.Total,
			Easy:     u.Solved.Easy,
			Medium:   u.Solved.Medium,
			Hard:     u.Solved.Hard,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	for i := range out {
		if i > 0 && out[i].Total == out[i-1].Total {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

// Winners returns, per metric, the first user holding the highest value.
// Metrics where every user has zero are left out.
func Winners(users []stats.User) map[Metric]string {
	winners := make(map[Metric]string, len(Metrics))
	for _, m := range Metrics {
		best := 0
		for _, u := range users {
			if v := m.Value(u.Solved); v > best {
				best = v
				winners[m] = u.Username
			}
		}
	}
	return winners
}

type DifficultyProgress struct {
	Difficulty string  `json:"difficulty"`
	Solved     int     `json:"solved"`
	Total      int     `json:"total"`
	Percent    float64 `json:"percent"`
}

// Progress reports solved / available problems per difficulty.
func Progress(u stats.User) []DifficultyProgress {
	rows := []DifficultyProgress{
		{Difficulty: "Easy", Solved: u.Solved.Easy},
		{Difficulty: "Medium", Solved: u.Solved.Medium},
		{Difficulty: "Hard", Solved: u.Solved.Hard},
	}
	for i := range rows {
		rows[i].Total = u.Solved.Available(rows[i].Difficulty)
		if rows[i].Total > 0 {
			rows[i].Percent = float64(rows[i].Solved) / float64(rows[i].Total) * 100
		}
	}
	return rows
}
