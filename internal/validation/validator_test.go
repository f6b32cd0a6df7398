package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUserID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"simple", "alice", true},
		{"with separators", "player_one-2", true},
		{"too short", "ab", false},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"spaces rejected", "a b c", false},
		{"empty", "", false},
		{"injection characters", "a<script>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUserID(tt.id))
		})
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("Alice B."))
	assert.True(t, ValidUsername("x2"))
	assert.False(t, ValidUsername("x"))
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("name\nwith newline"))
}

func TestNormalizeUserIDFallsBackToGuest(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUserID("alice", "chan-1234"))
	assert.Equal(t, "guest-0af1b2c3", NormalizeUserID("!", "0af1b2c3-rest-of-uuid"))
	assert.Equal(t, "guest-abc", NormalizeUserID("", "abc"))
}

func TestNormalizeUsernameFallsBackToGuest(t *testing.T) {
	assert.Equal(t, "Alice", NormalizeUsername("Alice"))
	assert.Equal(t, "Guest", NormalizeUsername(""))
	assert.Equal(t, "Guest", NormalizeUsername("<b>bold</b>"))
}
