package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"voicedesk/models"
	"voicedesk/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClassifier uses a Gemini model to classify utterances. The
// model is prompted to emit a single JSON object with the intent and
// entities; anything unparseable degrades to the keyword classifier so
// a flaky model call never breaks a session.
type GeminiClassifier struct {
	model    *genai.GenerativeModel
	fallback *KeywordClassifier
}

// NewGeminiClassifier builds a classifier over the given API key.
func NewGeminiClassifier(apiKey string) *GeminiClassifier {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiClassifier{
		model:    model,
		fallback: NewKeywordClassifier(),
	}
}

const classifyPromptTemplate = `You are an intent classifier for a phone appointment assistant.
Classify the user's message into exactly one intent:
identify_user, fetch_slots, book_appointment, retrieve_appointments,
cancel_appointment, modify_appointment, end_conversation, unknown.

Extract entities where present:
- identify_user: phone, name
- book_appointment: date (YYYY-MM-DD), time (HH:MM), notes
- cancel_appointment: appointment_id
- modify_appointment: appointment_id, new_date, new_time

Current conversation state: %s

Respond with a single JSON object, nothing else:
{"intent": "...", "entities": {...}}

User message: %q`

func (g *GeminiClassifier) Classify(ctx context.Context, utterance string, c *Context) models.IntentClassification {
	prompt := fmt.Sprintf(classifyPromptTemplate, c.State, utterance)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		utils.GetLogger().Warn("gemini classification failed, falling back to keywords", zap.Error(err))
		return g.fallback.Classify(ctx, utterance, c)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	cls, err := parseClassification(sb.String())
	if err != nil {
		utils.GetLogger().Warn("unparseable gemini classification, falling back to keywords",
			zap.String("raw", sb.String()), zap.Error(err))
		return g.fallback.Classify(ctx, utterance, c)
	}
	return cls
}

// parseClassification extracts the JSON object from the model output,
// tolerating markdown fences, and rejects intents outside the known
// set (they become the unknown sentinel).
func parseClassification(raw string) (models.IntentClassification, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.IntentClassification{}, fmt.Errorf("no JSON object in model output")
	}

	var cls models.IntentClassification
	if err := json.Unmarshal([]byte(raw[start:end+1]), &cls); err != nil {
		return models.IntentClassification{}, fmt.Errorf("decode classification: %w", err)
	}
	if cls.Entities == nil {
		cls.Entities = map[string]any{}
	}
	if !isKnownIntent(cls.Intent) && cls.Intent != IntentUnknown {
		cls.Intent = IntentUnknown
	}
	return cls, nil
}
