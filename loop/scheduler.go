// Package loop runs an ordered list of systems against a world value once
// per tick. Ticks are either driven externally through Once or by Run on a
// fixed interval.
package loop

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler manages and executes systems in order.
type Scheduler[W any] struct {
	world       W
	systems     []System[W]
	systemStats []*systemStatsInternal
	frames      int64
	last        time.Duration
}

// NewScheduler creates a scheduler whose frames carry world.
func NewScheduler[W any](world W) *Scheduler[W] {
	return &Scheduler[W]{
		world:   world,
		systems: make([]System[W], 0),
	}
}

// World returns the value passed to every frame.
func (s *Scheduler[W]) World() W {
	return s.world
}

// Register appends a system. Systems execute in registration order.
func (s *Scheduler[W]) Register(system System[W]) {
	s.systems = append(s.systems, system)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system any) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("%T", system)
}

// Once executes every system for a tick at time now, then flushes the
// commands they deferred. now must not go backwards.
func (s *Scheduler[W]) Once(now time.Duration) {
	frame := newFrame(now, s.last, s.world)
	s.last = now
	s.frames++

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush()
}

// Run ticks at the given interval until the context is cancelled. Frame
// times are measured from the moment Run was called.
func (s *Scheduler[W]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	epoch := time.Now()
	s.last = 0

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Once(now.Sub(epoch))
		}
	}
}

// Stats returns statistics about system execution.
func (s *Scheduler[W]) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
