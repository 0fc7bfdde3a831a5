package conversation

import (
	"context"
	"regexp"
	"strings"

	"voicedesk/models"
)

// Classifier maps a raw utterance to an intent plus extracted entities.
// Implementations are swappable oracles; the dispatcher validates and
// enforces regardless of how the classification was produced.
type Classifier interface {
	Classify(ctx context.Context, utterance string, c *Context) models.IntentClassification
}

var (
	phoneEntityPattern = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	dateEntityPattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	timeEntityPattern  = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	idEntityPattern    = regexp.MustCompile(`\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
)

// KeywordClassifier is the baseline heuristic classifier: keyword
// matching plus regex entity extraction. It needs no external service
// and is the default backend.
type KeywordClassifier struct{}

// NewKeywordClassifier returns the keyword-matching classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (k *KeywordClassifier) Classify(ctx context.Context, utterance string, c *Context) models.IntentClassification {
	lower := strings.ToLower(utterance)

	switch {
	case containsAny(lower, "phone", "number", "identify", "my name is"):
		return models.IntentClassification{
			Intent:   IntentIdentifyUser,
			Entities: extractPhoneAndName(utterance),
		}
	case containsAny(lower, "available", "slots", "when", "times"):
		return models.IntentClassification{Intent: IntentFetchSlots, Entities: map[string]any{}}
	case containsAny(lower, "my appointments", "show", "list", "retrieve"):
		return models.IntentClassification{Intent: IntentRetrieveAppointments, Entities: map[string]any{}}
	case containsAny(lower, "cancel", "delete"):
		return models.IntentClassification{
			Intent:   IntentCancelAppointment,
			Entities: extractAppointmentRef(utterance),
		}
	case containsAny(lower, "modify", "change", "reschedule"):
		entities := extractAppointmentRef(utterance)
		if m := dateEntityPattern.FindString(utterance); m != "" {
			entities["new_date"] = m
		}
		if m := timeEntityPattern.FindString(utterance); m != "" {
			entities["new_time"] = normalizeClock(m)
		}
		return models.IntentClassification{Intent: IntentModifyAppointment, Entities: entities}
	case containsAny(lower, "book", "schedule", "appointment"):
		return models.IntentClassification{
			Intent:   IntentBookAppointment,
			Entities: extractBookingDetails(utterance),
		}
	case containsAny(lower, "bye", "goodbye", "finish", "end"):
		return models.IntentClassification{Intent: IntentEndConversation, Entities: map[string]any{}}
	}
	return models.IntentClassification{Intent: IntentUnknown, Entities: map[string]any{}}
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func extractPhoneAndName(utterance string) map[string]any {
	entities := map[string]any{}
	if m := phoneEntityPattern.FindString(utterance); m != "" {
		entities["phone"] = m
	}
	lower := strings.ToLower(utterance)
	for _, marker := range []string{"my name is", "i'm", "i am"} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			rest := strings.Fields(utterance[idx+len(marker):])
			if len(rest) > 0 {
				entities["name"] = capitalize(strings.Trim(rest[0], ".,!?"))
			}
			break
		}
	}
	return entities
}

func extractBookingDetails(utterance string) map[string]any {
	entities := map[string]any{}
	if m := dateEntityPattern.FindString(utterance); m != "" {
		entities["date"] = m
	}
	if m := timeEntityPattern.FindString(utterance); m != "" {
		entities["time"] = normalizeClock(m)
	}
	return entities
}

func extractAppointmentRef(utterance string) map[string]any {
	entities := map[string]any{}
	if m := idEntityPattern.FindString(strings.ToLower(utterance)); m != "" {
		entities["appointment_id"] = m
	}
	return entities
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// normalizeClock pads a single-digit hour so "9:30" becomes "09:30".
func normalizeClock(clock string) string {
	if len(clock) == 4 {
		return "0" + clock
	}
	return clock
}
