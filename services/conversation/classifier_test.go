package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifierIntents(t *testing.T) {
	k := NewKeywordClassifier()
	c := NewContext("s")

	cases := []struct {
		utterance string
		intent    string
	}{
		{"my phone number is 555-123-4567", IntentIdentifyUser},
		{"hi, my name is bob", IntentIdentifyUser},
		{"what slots are available next week?", IntentFetchSlots},
		{"when can I come in?", IntentFetchSlots},
		{"show my appointments", IntentRetrieveAppointments},
		{"cancel my visit please", IntentCancelAppointment},
		{"I need to reschedule", IntentModifyAppointment},
		{"book me for 2030-01-07 at 14:00", IntentBookAppointment},
		{"goodbye", IntentEndConversation},
		{"what's the weather like?", IntentUnknown},
	}

	for _, tc := range cases {
		cls := k.Classify(context.Background(), tc.utterance, c)
		assert.Equal(t, tc.intent, cls.Intent, "utterance %q", tc.utterance)
	}
}

func TestKeywordClassifierExtractsPhoneAndName(t *testing.T) {
	k := NewKeywordClassifier()
	c := NewContext("s")

	cls := k.Classify(context.Background(), "my name is alice, phone 555-123-4567", c)
	require.Equal(t, IntentIdentifyUser, cls.Intent)
	assert.Equal(t, "555-123-4567", cls.Entities["phone"])
	assert.Equal(t, "Alice", cls.Entities["name"])
}

func TestKeywordClassifierExtractsBookingDetails(t *testing.T) {
	k := NewKeywordClassifier()
	c := NewContext("s")

	cls := k.Classify(context.Background(), "book me on 2030-01-07 at 9:30", c)
	require.Equal(t, IntentBookAppointment, cls.Intent)
	assert.Equal(t, "2030-01-07", cls.Entities["date"])
	assert.Equal(t, "09:30", cls.Entities["time"], "single-digit hours are zero padded")
}

func TestKeywordClassifierExtractsAppointmentID(t *testing.T) {
	k := NewKeywordClassifier()
	c := NewContext("s")

	cls := k.Classify(context.Background(), "cancel 3b2f1a70-9f2c-4d8e-b1a4-0c9d8e7f6a5b", c)
	require.Equal(t, IntentCancelAppointment, cls.Intent)
	assert.Equal(t, "3b2f1a70-9f2c-4d8e-b1a4-0c9d8e7f6a5b", cls.Entities["appointment_id"])
}

func TestKeywordClassifierModifyCarriesNewSlot(t *testing.T) {
	k := NewKeywordClassifier()
	c := NewContext("s")

	cls := k.Classify(context.Background(), "change 3b2f1a70-9f2c-4d8e-b1a4-0c9d8e7f6a5b to 2030-01-08 at 11:00", c)
	require.Equal(t, IntentModifyAppointment, cls.Intent)
	assert.Equal(t, "2030-01-08", cls.Entities["new_date"])
	assert.Equal(t, "11:00", cls.Entities["new_time"])
	assert.Equal(t, "3b2f1a70-9f2c-4d8e-b1a4-0c9d8e7f6a5b", cls.Entities["appointment_id"])
}

func TestParseClassificationHandlesFencedJSON(t *testing.T) {
	raw := "```json\n{\"intent\": \"book_appointment\", \"entities\": {\"date\": \"2030-01-07\", \"time\": \"14:00\"}}\n```"
	cls, err := parseClassification(raw)
	require.NoError(t, err)
	assert.Equal(t, IntentBookAppointment, cls.Intent)
	assert.Equal(t, "2030-01-07", cls.Entities["date"])
}

func TestParseClassificationUnknownizesForeignIntents(t *testing.T) {
	cls, err := parseClassification(`{"intent": "order_pizza", "entities": {}}`)
	require.NoError(t, err)
	assert.Equal(t, IntentUnknown, cls.Intent)
}

func TestParseClassificationRejectsGarbage(t *testing.T) {
	_, err := parseClassification("I could not decide on an intent, sorry.")
	assert.Error(t, err)
}
