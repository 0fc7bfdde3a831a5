package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStates = []State{
	StateUnidentified,
	StateIdentified,
	StateBrowsingSlots,
	StateBooking,
	StateConfirming,
	StateRetrieving,
	StateCancelling,
	StateModifying,
	StateCompleted,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[State][]State{
		StateUnidentified:  {StateIdentified},
		StateIdentified:    {StateBrowsingSlots, StateRetrieving, StateCancelling, StateModifying, StateCompleted},
		StateBrowsingSlots: {StateBooking, StateIdentified},
		StateBooking:       {StateConfirming, StateIdentified},
		StateConfirming:    {StateCompleted, StateIdentified},
		StateRetrieving:    {StateIdentified},
		StateCancelling:    {StateIdentified},
		StateModifying:     {StateIdentified},
		StateCompleted:     {},
	}

	for _, from := range allStates {
		for _, to := range allStates {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "transition %s -> %s", from, to)
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	for _, to := range allStates {
		assert.False(t, CanTransition(StateCompleted, to), "completed must not reach %s", to)
	}
}

func TestTransitionToMutatesOnlyWhenLegal(t *testing.T) {
	c := NewContext("s1")
	require.Equal(t, StateUnidentified, c.State)

	// Illegal: unidentified cannot jump to browsing.
	assert.False(t, c.TransitionTo(StateBrowsingSlots))
	assert.Equal(t, StateUnidentified, c.State)

	// Legal path.
	assert.True(t, c.TransitionTo(StateIdentified))
	assert.True(t, c.TransitionTo(StateBrowsingSlots))
	assert.True(t, c.TransitionTo(StateBooking))
	assert.True(t, c.TransitionTo(StateConfirming))
	assert.True(t, c.TransitionTo(StateCompleted))

	// Terminal.
	assert.False(t, c.TransitionTo(StateIdentified))
	assert.Equal(t, StateCompleted, c.State)
}

func TestWorkingStatesEscapeToIdentified(t *testing.T) {
	for _, working := range []State{StateBrowsingSlots, StateBooking, StateConfirming, StateRetrieving, StateCancelling, StateModifying} {
		assert.True(t, CanTransition(working, StateIdentified), "%s must escape to identified", working)
	}
}

func TestIsIdentifiedTracksPhoneAndState(t *testing.T) {
	c := NewContext("s2")
	assert.False(t, c.IsIdentified())

	c.UserPhone = "5551234567"
	c.TransitionTo(StateIdentified)
	assert.True(t, c.IsIdentified())
}

func TestHistoryIsAppendOnlyInOrder(t *testing.T) {
	c := NewContext("s3")
	c.AddToHistory("user", "hello", nil)
	c.AddToHistory("assistant", "hi there", map[string]any{"intent": "unknown"})
	c.AddToHistory("user", "book something", nil)

	require.Len(t, c.History, 3)
	assert.Equal(t, "hello", c.History[0].Content)
	assert.Equal(t, "assistant", c.History[1].Role)
	assert.Equal(t, "book something", c.History[2].Content)
}
