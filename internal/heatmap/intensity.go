package heatmap

import (
	"fmt"
	"math"
	"strings"
)

// MaxLevel is the darkest intensity a cell can have. Level 0 means no activity.
const MaxLevel = 4

// Policy quantizes a day's count into a level in [0, MaxLevel].
// Implementations must be monotonic in count and map count <= 0 to 0.
type Policy interface {
	Name() string
	Level(count, maxCount int) int
}

const (
	PolicyPercentile     = "percentile"
	PolicyFixedThreshold = "fixed"
)

var (
	// Percentile buckets a count by its share of the busiest day:
	// <=25% -> 1, <=50% -> 2, <=75% -> 3, otherwise 4.
	Percentile Policy = percentilePolicy{}

	// FixedThreshold ignores the busiest day: 1 -> 1, 2..3 -> 2, 4..6 -> 3, 7+ -> 4.
	FixedThreshold Policy = fixedThresholdPolicy{}

	DefaultPolicy = Percentile
)

// PolicyByName resolves a policy name as used in config files and query strings.
// An empty name selects DefaultPolicy.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultPolicy, nil
	case PolicyPercentile:
		return Percentile, nil
	case PolicyFixedThreshold, "fixed-threshold":
		return FixedThreshold, nil
	default:
		return nil, fmt.Errorf("unknown intensity policy %q (want %q or %q)", name, PolicyPercentile, PolicyFixedThreshold)
	}
}

type percentilePolicy struct{}

func (percentilePolicy) Name() string { return PolicyPercentile }

func (percentilePolicy) Level(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	if maxCount <= 0 {
		return 1
	}
	// ceil(4 * share) puts a share in (0,25%] at 1, (25%,50%] at 2, and so on.
	lvl := int(math.Ceil(float64(MaxLevel) * float64(count) / float64(maxCount)))
	if lvl < 1 {
		lvl = 1
	}
	if lvl > MaxLevel {
		lvl = MaxLevel
	}
	return lvl
}

type fixedThresholdPolicy struct{}

func (fixedThresholdPolicy) Name() string { return PolicyFixedThreshold }

func (fixedThresholdPolicy) Level(count, _ int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}
