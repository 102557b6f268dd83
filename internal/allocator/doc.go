// Package allocator contains the pure allocation and scheduling core used by the
// campus services.
//
// Four decision functions share one conflict model:
//
//	Allocate       greedy seat allocation ordered by priority, then submission time
//	Schedule       backtracking activity placement with a greedy fallback
//	PlanIntervals  exhaustive ordering of sequential tasks with minimum makespan
//	Rank           strategy-weighted course recommendation under a credit ceiling
//
// Every call works on the values it is given. Nothing is cached between calls and
// no argument is mutated, so callers may invoke the functions concurrently on
// independent inputs. The exhaustive searches are exponential in the worst case;
// callers that need bounded latency cap the input size before calling or use
// ScheduleGreedy / PlanIntervalsGreedy directly.
package allocator
