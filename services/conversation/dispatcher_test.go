package conversation

import (
	"context"
	"testing"

	appointmentRepo "voicedesk/database/repository/appointment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher() *Dispatcher {
	tools := NewTools(appointmentRepo.NewMemoryAppointmentRepo(), nil)
	return NewDispatcher(tools, &KeywordClassifier{})
}

func identifiedContext(t *testing.T, d *Dispatcher, phone string) *Context {
	t.Helper()
	c := NewContext("test-session")
	res := d.Dispatch(context.Background(), IntentIdentifyUser, map[string]any{"phone": phone}, c)
	require.True(t, res.Success, "identification failed: %s", res.Error)
	return c
}

func TestDispatchUnknownSentinelGivesSuggestions(t *testing.T) {
	d := newTestDispatcher()
	c := NewContext("s")

	res := d.Dispatch(context.Background(), IntentUnknown, nil, c)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Suggestions)
	assert.Equal(t, StateUnidentified, c.State)
	assert.Empty(t, c.IdentifiedIntents, "unknown intent must not be audited")
}

func TestDispatchBogusIntentRejected(t *testing.T) {
	d := newTestDispatcher()
	c := NewContext("s")

	res := d.Dispatch(context.Background(), "delete_all_records", nil, c)
	assert.False(t, res.Success)
	assert.Equal(t, "Unknown intent: delete_all_records", res.Error)
	assert.Equal(t, StateUnidentified, c.State)
}

func TestDispatchRequiresIdentificationFirst(t *testing.T) {
	d := newTestDispatcher()

	for _, intent := range []string{
		IntentFetchSlots,
		IntentBookAppointment,
		IntentRetrieveAppointments,
		IntentCancelAppointment,
		IntentModifyAppointment,
	} {
		c := NewContext("s")
		res := d.Dispatch(context.Background(), intent, map[string]any{
			"date": "2030-01-07", "time": "10:00", "appointment_id": "x",
		}, c)
		assert.False(t, res.Success, "%s must be rejected before identification", intent)
		assert.Equal(t, "Please provide your phone number first so I can help you.", res.Error)
		assert.Equal(t, StateUnidentified, c.State, "%s must not mutate state", intent)
		assert.Empty(t, c.UserPhone)
		assert.Empty(t, c.IdentifiedIntents)
	}
}

func TestDispatchIdentifyTwiceRejected(t *testing.T) {
	d := newTestDispatcher()
	c := identifiedContext(t, d, "555-123-4567")

	res := d.Dispatch(context.Background(), IntentIdentifyUser, map[string]any{"phone": "5559876543"}, c)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "already identified")
	assert.Equal(t, "5551234567", c.UserPhone, "phone must keep its first value")
}

func TestDispatchMissingParamsReportsRequired(t *testing.T) {
	d := newTestDispatcher()
	c := identifiedContext(t, d, "5551234567")

	res := d.Dispatch(context.Background(), IntentBookAppointment, map[string]any{}, c)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Invalid parameters for book_appointment")
	assert.Equal(t, []string{"date", "time"}, res.RequiredParams)
}

func TestDispatchRejectsActionsAfterCompletion(t *testing.T) {
	d := newTestDispatcher()
	c := identifiedContext(t, d, "5551234567")

	res := d.Dispatch(context.Background(), IntentEndConversation, nil, c)
	require.True(t, res.Success)
	require.Equal(t, StateCompleted, c.State)

	res = d.Dispatch(context.Background(), IntentFetchSlots, nil, c)
	assert.False(t, res.Success)
	assert.Equal(t, "This conversation has ended. Please start a new session.", res.Error)
	assert.Equal(t, StateCompleted, c.State)
}

func TestDispatchAuditsExecutedIntents(t *testing.T) {
	d := newTestDispatcher()
	c := identifiedContext(t, d, "5551234567")

	d.Dispatch(context.Background(), IntentFetchSlots, nil, c)
	d.Dispatch(context.Background(), IntentRetrieveAppointments, nil, c)

	assert.Equal(t, []string{
		IntentIdentifyUser,
		IntentFetchSlots,
		IntentRetrieveAppointments,
	}, c.IdentifiedIntents)
}

func TestDispatchResultCarriesIntentAndEntities(t *testing.T) {
	d := newTestDispatcher()
	c := NewContext("s")

	entities := map[string]any{"phone": "5551234567", "name": "Alice"}
	res := d.Dispatch(context.Background(), IntentIdentifyUser, entities, c)
	require.True(t, res.Success)
	assert.Equal(t, IntentIdentifyUser, res.Intent)
	assert.Equal(t, entities, res.Entities)
}

func TestDispatchTextClassifiesAndExecutes(t *testing.T) {
	d := newTestDispatcher()
	c := NewContext("s")

	res := d.DispatchText(context.Background(), "my phone number is 555-123-4567 and my name is alice", c)
	require.True(t, res.Success, "got error: %s", res.Error)
	assert.Equal(t, IntentIdentifyUser, res.Intent)
	assert.Equal(t, "5551234567", c.UserPhone)
	assert.Equal(t, StateIdentified, c.State)
}
