// Package history persists finished matches. The recorder is nil-safe so
// the rest of the server never has to care whether a database is configured.
package history

import (
	"fmt"
	"time"

	"carduel/internal/db"
	"carduel/models"
)

// MatchRecord is one finished match.
type MatchRecord struct {
	ID          uint   `gorm:"primaryKey"`
	GameID      string `gorm:"size:64;uniqueIndex"`
	PlayerAID   string `gorm:"size:64;index"`
	PlayerBID   string `gorm:"size:64;index"`
	PlayerAName string `gorm:"size:64"`
	PlayerBName string `gorm:"size:64"`
	WinnerID    string `gorm:"size:64"`
	Status      string `gorm:"size:16"`
	Rounds      int
	Seed        uint32
	StartedAt   time.Time
	EndedAt     time.Time
}

// Recorder writes match records. A nil *Recorder is a no-op.
type Recorder struct {
	db *db.DB
}

// New migrates the schema and returns a recorder.
func New(database *db.DB) (*Recorder, error) {
	if err := database.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate match history: %w", err)
	}
	return &Recorder{db: database}, nil
}

// Record stores the outcome of a finished match.
func (r *Recorder) Record(state *models.GameState, startedAt, endedAt time.Time) error {
	if r == nil {
		return nil
	}
	a, b := state.Players[0], state.Players[1]
	rec := MatchRecord{
		GameID:      state.GameID,
		PlayerAID:   a.ID,
		PlayerBID:   b.ID,
		PlayerAName: a.Name,
		PlayerBName: b.Name,
		WinnerID:    state.WinnerID,
		Status:      string(state.GameStatus),
		Rounds:      a.Score + b.Score,
		Seed:        state.Seed,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("store match record: %w", err)
	}
	return nil
}

// Recent returns the latest finished matches, newest first.
func (r *Recorder) Recent(limit int) ([]MatchRecord, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []MatchRecord
	if err := r.db.Order("ended_at desc").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load match records: %w", err)
	}
	return records, nil
}
