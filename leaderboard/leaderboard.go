// Package leaderboard keeps the top scores of finished sessions: a list of at
// most MaxEntries integers sorted in descending order.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// MaxEntries is the number of scores kept.
const MaxEntries = 10

var (
	ErrUnknownBackend = errors.New("leaderboard: unknown backend")
	ErrInvalidScore   = errors.New("leaderboard: score must not be negative")
)

// DefaultSeed is written to an empty leaderboard so a fresh install has
// something to beat.
var DefaultSeed = []int{15000, 12500, 10000, 8500, 7000, 6000, 5000, 4000, 3000, 2000}

// Store persists the score list.
type Store interface {
	Load(ctx context.Context) ([]int, error)
	Save(ctx context.Context, scores []int) error
}

// Updater is implemented by stores that can run a load, modify and save
// cycle atomically against other processes sharing the same backend. fn
// receives the stored list and returns the list to keep and whether it
// needs writing.
type Updater interface {
	Update(ctx context.Context, fn func(scores []int) ([]int, bool)) ([]int, error)
}

// Insert returns a new list holding scores plus score, sorted descending and
// truncated to MaxEntries. The input is not modified.
func Insert(scores []int, score int) []int {
	out := make([]int, 0, len(scores)+1)
	out = append(out, scores...)
	out = append(out, score)
	return normalize(out)
}

func normalize(scores []int) []int {
	slices.SortFunc(scores, func(a, b int) int { return b - a })
	if len(scores) > MaxEntries {
		scores = scores[:MaxEntries]
	}
	return scores
}

// Board records scores on top of a Store. Record and SeedIfEmpty are
// serialized within the process; stores implementing Updater also keep
// writes from other processes from being lost.
type Board struct {
	mu    sync.Mutex
	store Store
}

func New(store Store) *Board {
	if store == nil {
		panic("leaderboard store cannot be nil")
	}
	return &Board{store: store}
}

// Top returns the current list, best first.
func (b *Board) Top(ctx context.Context) ([]int, error) {
	scores, err := b.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: load: %w", err)
	}
	return normalize(slices.Clone(scores)), nil
}

// Record adds score and returns the updated list.
func (b *Board) Record(ctx context.Context, score int) ([]int, error) {
	if score < 0 {
		return nil, ErrInvalidScore
	}
	return b.update(ctx, func(scores []int) ([]int, bool) {
		return Insert(scores, score), true
	})
}

// SeedIfEmpty saves seed when the store holds no scores yet.
func (b *Board) SeedIfEmpty(ctx context.Context, seed []int) error {
	_, err := b.update(ctx, func(scores []int) ([]int, bool) {
		if len(scores) > 0 {
			return scores, false
		}
		return normalize(slices.Clone(seed)), true
	})
	return err
}

func (b *Board) update(ctx context.Context, fn func([]int) ([]int, bool)) ([]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if u, ok := b.store.(Updater); ok {
		scores, err := u.Update(ctx, func(stored []int) ([]int, bool) {
			return fn(normalize(slices.Clone(stored)))
		})
		if err != nil {
			return nil, fmt.Errorf("leaderboard: update: %w", err)
		}
		return scores, nil
	}

	scores, err := b.Top(ctx)
	if err != nil {
		return nil, err
	}
	scores, write := fn(scores)
	if !write {
		return scores, nil
	}
	if err := b.store.Save(ctx, scores); err != nil {
		return nil, fmt.Errorf("leaderboard: save: %w", err)
	}
	return scores, nil
}
