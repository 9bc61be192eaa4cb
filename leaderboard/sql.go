package leaderboard

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreRow is one leaderboard entry in the SQL backend.
type ScoreRow struct {
	ID        uint `gorm:"primaryKey"`
	Score     int  `gorm:"not null;index"`
	CreatedAt time.Time
}

func (ScoreRow) TableName() string { return "leaderboard_scores" }

// SQLStore keeps one row per entry.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	if db == nil {
		panic("database connection cannot be nil for SQLStore")
	}
	return &SQLStore{db: db}
}

// Migrate creates or updates the scores table.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&ScoreRow{}); err != nil {
		return fmt.Errorf("gorm: migrate %s: %w", ScoreRow{}.TableName(), err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context) ([]int, error) {
	var scores []int
	err := s.db.WithContext(ctx).
		Model(&ScoreRow{}).
		Order("score DESC").
		Limit(MaxEntries).
		Pluck("score", &scores).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: load scores: %w", err)
	}
	return scores, nil
}

// Save replaces all rows with scores in one transaction.
func (s *SQLStore) Save(ctx context.Context, scores []int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceScores(tx, scores)
	})
	if err != nil {
		return fmt.Errorf("gorm: save %d scores: %w", len(scores), err)
	}
	return nil
}

// Update reads every row with SELECT ... FOR UPDATE, applies fn and
// replaces the rows in the same transaction, so concurrent writers queue
// on the row locks instead of overwriting each other.
func (s *SQLStore) Update(ctx context.Context, fn func([]int) ([]int, bool)) ([]int, error) {
	var out []int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scores []int
		err := tx.Model(&ScoreRow{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("score DESC").
			Pluck("score", &scores).Error
		if err != nil {
			return err
		}
		next, write := fn(scores)
		out = next
		if !write {
			return nil
		}
		return replaceScores(tx, next)
	})
	if err != nil {
		return nil, fmt.Errorf("gorm: update scores: %w", err)
	}
	return out, nil
}

func replaceScores(tx *gorm.DB, scores []int) error {
	if err := tx.Where("1 = 1").Delete(&ScoreRow{}).Error; err != nil {
		return err
	}
	if len(scores) == 0 {
		return nil
	}
	rows := make([]ScoreRow, len(scores))
	for i, score := range scores {
		rows[i] = ScoreRow{Score: score}
	}
	return tx.Create(&rows).Error
}
