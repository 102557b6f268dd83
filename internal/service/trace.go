package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/allocator"
)

// searchHooks turns allocator search events into debug logs. Without tracing only the
// fallback event is reported, at info level.
func searchHooks(logger *zap.Logger, trace bool, onFallback func(reason string)) allocator.Hooks {
	hooks := allocator.Hooks{
		OnFallback: func(reason string) {
			logger.Info("search fell back to greedy", zap.String("reason", reason))
			if onFallback != nil {
				onFallback(reason)
			}
		},
	}
	if !trace {
		return hooks
	}

	hooks.OnTry = func(a allocator.Activity, venue string, slot allocator.HourSlot, depth int) {
		logger.Debug("try", zap.String("activity", a.ID), zap.String("venue", venue), zap.Stringer("slot", slot), zap.Int("depth", depth))
	}
	hooks.OnPlace = func(p allocator.Placement, depth int) {
		logger.Debug("place", zap.String("activity", p.ActivityID), zap.String("venue", p.Venue), zap.Stringer("slot", p.Slot), zap.Int("depth", depth))
	}
	hooks.OnBacktrack = func(a allocator.Activity, depth int) {
		logger.Debug("backtrack", zap.String("activity", a.ID), zap.Int("depth", depth))
	}
	hooks.OnPlan = func(plan []allocator.PlannedInterval, makespan int) {
		logger.Debug("better plan", zap.Int("tasks", len(plan)), zap.Int("makespan", makespan))
	}
	return hooks
}
