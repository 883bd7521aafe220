package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusCreated, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},

		{StatusCreated, StatusCompleted, false}, // нельзя перепрыгнуть через in_progress
		{StatusInProgress, StatusCreated, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCreated, false},
		{StatusCreated, StatusCreated, false},
		{StatusInProgress, StatusInProgress, false},
		{StatusCompleted, StatusCompleted, false},
		{"bogus", StatusInProgress, false},
		{StatusCreated, "bogus", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsFinalStatus(t *testing.T) {
	assert.True(t, IsFinalStatus(StatusCompleted))
	assert.False(t, IsFinalStatus(StatusCreated))
	assert.False(t, IsFinalStatus(StatusInProgress))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("CREATED"))
	assert.False(t, IsValidStatus("done"))
}

func TestIsValidPriority(t *testing.T) {
	for _, p := range OrderPriorities {
		assert.True(t, IsValidPriority(p))
	}
	assert.False(t, IsValidPriority(""))
	assert.False(t, IsValidPriority("urgent"))
}
