package allocator

import (
	"fmt"
	"sort"
)

// Strategy selects the scoring axis of the ranker.
type Strategy string

const (
	StrategyCredits   Strategy = "credits"
	StrategyInterest  Strategy = "interest"
	StrategyWorkload  Strategy = "workload"
	StrategyBalanced  Strategy = "balanced"
	StrategyRecommend Strategy = "recommend"
)

// Balanced strategy weights.
const (
	balancedCreditWeight   = 0.4
	balancedInterestWeight = 0.4
	balancedWorkloadWeight = 0.2
)

// Strategies lists every supported strategy in presentation order.
var Strategies = []Strategy{StrategyCredits, StrategyInterest, StrategyWorkload, StrategyBalanced, StrategyRecommend}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// RankOptions tunes Rank.
type RankOptions struct {
	// Strict skips any course that would push the credit total past the ceiling.
	Strict bool
}

// Recommendation is a suggested, conflict-free course subset.
type Recommendation struct {
	Strategy        Strategy `json:"strategy"`
	Courses         []Course `json:"courses"`
	TotalCredits    int      `json:"totalCredits"`
	TotalWeight     float64  `json:"totalWeight"`
	AverageInterest float64  `json:"averageInterest"`
	AverageWorkload float64  `json:"averageWorkload"`
}

// Score returns the strategy score of a course.
func Score(course Course, strategy Strategy) float64 {
	switch strategy {
	case StrategyCredits:
		return float64(course.Credits)
	case StrategyInterest:
		return course.Interest
	case StrategyWorkload:
		return -course.Workload
	case StrategyBalanced:
		return float64(course.Credits)*balancedCreditWeight +
			course.Interest*balancedInterestWeight -
			course.Workload*balancedWorkloadWeight
	case StrategyRecommend:
		return course.Recommend
	default:
		return 0
	}
}

// Rank sorts courses by strategy score and accumulates them until the credit total reaches
// ceiling, skipping courses that conflict with one already chosen. It has no side effects
// on the courses it is given.
func Rank(courses []Course, ceiling int, strategy Strategy, opts ...RankOptions) (Recommendation, error) {
	if !strategy.Valid() {
		return Recommendation{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	if ceiling < 0 {
		return Recommendation{}, fmt.Errorf("%w: negative credit ceiling", ErrInvalidInput)
	}
	var opt RankOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	sorted := make([]Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i], strategy) > Score(sorted[j], strategy)
	})

	rec := Recommendation{Strategy: strategy, Courses: []Course{}}
	for _, course := range sorted {
		if rec.TotalCredits >= ceiling {
			break
		}
		if opt.Strict && rec.TotalCredits+course.Credits > ceiling {
			continue
		}
		if conflictsWithAny(course, rec.Courses) {
			continue
		}
		rec.Courses = append(rec.Courses, course)
		rec.TotalCredits += course.Credits
		rec.TotalWeight += course.Recommend
	}

	if n := len(rec.Courses); n > 0 {
		var interest, workload float64
		for _, c := range rec.Courses {
			interest += c.Interest
			workload += c.Workload
		}
		rec.AverageInterest = interest / float64(n)
		rec.AverageWorkload = workload / float64(n)
	}
	return rec, nil
}

// RankAll runs Rank once per strategy.
func RankAll(courses []Course, ceiling int, opts ...RankOptions) ([]Recommendation, error) {
	out := make([]Recommendation, 0, len(Strategies))
	for _, strategy := range Strategies {
		rec, err := Rank(courses, ceiling, strategy, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// TopRecommended returns the n courses with the highest recommendation index.
func TopRecommended(courses []Course, n int) []Course {
	sorted := make([]Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Recommend > sorted[j].Recommend
	})
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

func conflictsWithAny(course Course, chosen []Course) bool {
	for _, other := range chosen {
		if SlotsConflict(course.Slots, other.Slots) {
			return true
		}
	}
	return false
}
