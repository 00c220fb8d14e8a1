package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moveAction(sessionID, slotID string) Action {
	return Action{
		Type:      ActionSchedule,
		SessionID: sessionID,
		To:        Position{VenueID: strPtr("v1"), SlotID: strPtr(slotID)},
	}
}

func TestHistoryPushAssignsID(t *testing.T) {
	h := NewHistory()
	h.Push(moveAction("a", "s1"))

	got, ok := h.PeekUndo()
	require.True(t, ok)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "a", got.SessionID)
}

func TestHistoryUndoRedoCursor(t *testing.T) {
	h := NewHistory()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	h.Push(moveAction("a", "s1"))
	h.Push(moveAction("b", "s2"))
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	got, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "b", got.SessionID)
	h.CommitUndo()

	assert.True(t, h.CanRedo())
	got, ok = h.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, "b", got.SessionID)
	h.CommitRedo()

	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
}

func TestHistoryPushTruncatesRedoBranch(t *testing.T) {
	h := NewHistory()
	h.Push(moveAction("a", "s1"))
	h.Push(moveAction("b", "s2"))
	h.CommitUndo()

	h.Push(moveAction("c", "s3"))

	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
	got, ok := h.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, "c", got.SessionID)
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Push(moveAction("a", "s1"))
	h.Clear()

	assert.Zero(t, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestPositionIsPlaced(t *testing.T) {
	assert.False(t, Position{}.IsPlaced())
	assert.True(t, Position{VenueID: strPtr("v1"), SlotID: strPtr("s1")}.IsPlaced())
}
