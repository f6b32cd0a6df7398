package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carduel/internal/db"
	"carduel/models"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(db.Config{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	return database
}

func finishedState(gameID, winnerID string) *models.GameState {
	return &models.GameState{
		GameID: gameID,
		Players: []*models.PlayerState{
			{ID: "alice", Name: "Alice", Score: 3},
			{ID: "bob", Name: "Bob", Score: 1},
		},
		Seed:       0xACE1ACE1,
		GameStatus: models.StatusWin,
		WinnerID:   winnerID,
	}
}

func TestRecordAndRecent(t *testing.T) {
	rec, err := New(openTestDB(t))
	require.NoError(t, err)

	start := time.Now().Add(-5 * time.Minute)
	require.NoError(t, rec.Record(finishedState("g-1", "alice"), start, start.Add(time.Minute)))
	require.NoError(t, rec.Record(finishedState("g-2", "bob"), start, start.Add(2*time.Minute)))

	records, err := rec.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "g-2", records[0].GameID)
	assert.Equal(t, "bob", records[0].WinnerID)
	assert.Equal(t, 4, records[0].Rounds)
	assert.Equal(t, "g-1", records[1].GameID)
}

func TestNilRecorderIsNoOp(t *testing.T) {
	var rec *Recorder
	assert.NoError(t, rec.Record(finishedState("g-1", "alice"), time.Now(), time.Now()))

	records, err := rec.Recent(10)
	assert.NoError(t, err)
	assert.Nil(t, records)
}

func TestRecentClampsLimit(t *testing.T) {
	rec, err := New(openTestDB(t))
	require.NoError(t, err)
	records, err := rec.Recent(-1)
	require.NoError(t, err)
	assert.Empty(t, records)
}
