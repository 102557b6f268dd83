package allocator

import (
	"fmt"
	"sort"
)

// ReadTask is a non-preemptible task. EarliestStart is an offset from the start of the
// plan, not a wall-clock time.
type ReadTask struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title,omitempty" yaml:"title"`
	EarliestStart int    `json:"earliestStart" yaml:"earliestStart"`
	Duration      int    `json:"duration" yaml:"duration"`
}

// PlannedInterval is a task placed on [Start, End).
type PlannedInterval struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title,omitempty"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Plan is an ordered, overlap-free sequence of intervals.
type Plan struct {
	Intervals []PlannedInterval `json:"intervals"`
	Makespan  int               `json:"makespan"`
	// Candidates counts the complete orderings examined by the exhaustive search.
	Candidates int  `json:"candidates"`
	Exhaustive bool `json:"exhaustive"`
}

// PlanOptions carries optional search hooks.
type PlanOptions struct {
	Hooks Hooks
}

// PlanIntervals enumerates every ordering of tasks and returns the plan with the smallest
// makespan; among equal makespans the first one found wins. The search is factorial in the
// number of tasks and is meant for small sets only.
func PlanIntervals(tasks []ReadTask, opts ...PlanOptions) (Plan, error) {
	if err := validateTasks(tasks); err != nil {
		return Plan{}, err
	}
	if len(tasks) == 0 {
		return Plan{Intervals: []PlannedInterval{}, Exhaustive: true}, nil
	}
	var hooks Hooks
	if len(opts) > 0 {
		hooks = opts[0].Hooks
	}

	p := &planner{
		tasks:   tasks,
		used:    make([]bool, len(tasks)),
		current: make([]PlannedInterval, 0, len(tasks)),
		hooks:   hooks,
	}
	p.search(0)

	return Plan{
		Intervals:  p.best,
		Makespan:   p.bestSpan,
		Candidates: p.candidates,
		Exhaustive: true,
	}, nil
}

type planner struct {
	tasks []ReadTask
	used  []bool
	// current is the partial plan, pushed and popped as the search descends and returns.
	current    []PlannedInterval
	best       []PlannedInterval
	bestSpan   int
	candidates int
	hooks      Hooks
}

func (p *planner) search(currentDay int) {
	if len(p.current) == len(p.tasks) {
		p.record()
		return
	}
	for i, task := range p.tasks {
		if p.used[i] {
			continue
		}
		start := currentDay
		if task.EarliestStart > start {
			start = task.EarliestStart
		}
		candidate := PlannedInterval{TaskID: task.ID, Title: task.Title, Start: start, End: start + task.Duration}
		if overlapsPlan(candidate, p.current) {
			continue
		}

		p.used[i] = true
		p.current = append(p.current, candidate)
		p.search(candidate.End)
		p.current = p.current[:len(p.current)-1]
		p.used[i] = false
	}
}

func (p *planner) record() {
	p.candidates++
	span := makespan(p.current)
	if p.best != nil && span >= p.bestSpan {
		return
	}
	plan := make([]PlannedInterval, len(p.current))
	copy(plan, p.current)
	sort.SliceStable(plan, func(i, j int) bool { return plan[i].Start < plan[j].Start })
	p.best = plan
	p.bestSpan = span
	if p.hooks.OnPlan != nil {
		p.hooks.OnPlan(plan, span)
	}
}

// PlanIntervalsGreedy is the bounded path for large task sets: tasks are taken by earliest
// start, then shorter duration, and each starts as soon as the previous one ends.
func PlanIntervalsGreedy(tasks []ReadTask) (Plan, error) {
	if err := validateTasks(tasks); err != nil {
		return Plan{}, err
	}
	ordered := make([]ReadTask, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EarliestStart != ordered[j].EarliestStart {
			return ordered[i].EarliestStart < ordered[j].EarliestStart
		}
		return ordered[i].Duration < ordered[j].Duration
	})

	intervals := make([]PlannedInterval, 0, len(ordered))
	day := 0
	for _, task := range ordered {
		start := day
		if task.EarliestStart > start {
			start = task.EarliestStart
		}
		iv := PlannedInterval{TaskID: task.ID, Title: task.Title, Start: start, End: start + task.Duration}
		intervals = append(intervals, iv)
		day = iv.End
	}
	return Plan{Intervals: intervals, Makespan: makespan(intervals), Exhaustive: false}, nil
}

func overlapsPlan(candidate PlannedInterval, plan []PlannedInterval) bool {
	for _, existing := range plan {
		if IntervalsOverlap(candidate.Start, candidate.End, existing.Start, existing.End) {
			return true
		}
	}
	return false
}

func makespan(plan []PlannedInterval) int {
	span := 0
	for _, iv := range plan {
		if iv.End > span {
			span = iv.End
		}
	}
	return span
}

func validateTasks(tasks []ReadTask) error {
	for _, t := range tasks {
		if t.Duration <= 0 {
			return fmt.Errorf("%w: task %q has non-positive duration", ErrInvalidInput, t.ID)
		}
		if t.EarliestStart < 0 {
			return fmt.Errorf("%w: task %q has negative earliest start", ErrInvalidInput, t.ID)
		}
	}
	return nil
}
