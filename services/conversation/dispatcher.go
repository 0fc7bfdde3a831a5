package conversation

import (
	"context"
	"errors"
	"fmt"

	"voicedesk/models"
	"voicedesk/utils"

	"go.uber.org/zap"
)

// Known intent names. IntentUnknown is the sentinel classifiers return
// when an utterance matches nothing.
const (
	IntentIdentifyUser         = "identify_user"
	IntentFetchSlots           = "fetch_slots"
	IntentBookAppointment      = "book_appointment"
	IntentRetrieveAppointments = "retrieve_appointments"
	IntentCancelAppointment    = "cancel_appointment"
	IntentModifyAppointment    = "modify_appointment"
	IntentEndConversation      = "end_conversation"
	IntentUnknown              = "unknown"
)

// Dispatcher validates an intent against the conversation state and
// executes the matching domain operation. Validation runs strictly
// before execution: an illegal attempt never mutates the context.
type Dispatcher struct {
	Tools      *Tools
	Classifier Classifier
}

// NewDispatcher returns a Dispatcher over the given tools and
// classifier.
func NewDispatcher(tools *Tools, classifier Classifier) *Dispatcher {
	return &Dispatcher{Tools: tools, Classifier: classifier}
}

// DispatchText classifies a raw utterance and dispatches the result.
func (d *Dispatcher) DispatchText(ctx context.Context, utterance string, c *Context) *models.DispatchResult {
	cls := d.Classifier.Classify(ctx, utterance, c)
	return d.Dispatch(ctx, cls.Intent, cls.Entities, c)
}

// Dispatch runs pre-dispatch validation for the intent, executes the
// matching operation, records the intent in the context's audit trail,
// and returns the result augmented with intent and entities. Every
// failure mode is reported in-band; no fault escapes to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, intent string, entities map[string]any, c *Context) *models.DispatchResult {
	if !isKnownIntent(intent) {
		res := d.unknownIntentResult(intent, c)
		res.Intent = intent
		res.Entities = entities
		return res
	}

	if msg, ok := d.validateState(intent, c); !ok {
		return &models.DispatchResult{
			Success:      false,
			Error:        msg,
			CurrentState: string(c.State),
			Intent:       intent,
			Entities:     entities,
		}
	}

	res, err := d.execute(ctx, intent, entities, c)
	if err != nil {
		var mpe *MissingParamError
		if errors.As(err, &mpe) {
			return &models.DispatchResult{
				Success:        false,
				Error:          fmt.Sprintf("Invalid parameters for %s: %v", intent, err),
				RequiredParams: RequiredParams(intent),
				Intent:         intent,
				Entities:       entities,
			}
		}
		utils.GetLogger().Error("intent execution failed",
			zap.String("intent", intent),
			zap.String("sessionId", c.SessionID),
			zap.Error(err))
		return &models.DispatchResult{
			Success:  false,
			Error:    fmt.Sprintf("Error executing %s. Please try again.", intent),
			Intent:   intent,
			Entities: entities,
		}
	}

	// Audit every executed operation, successful or not.
	c.IdentifiedIntents = append(c.IdentifiedIntents, intent)

	res.Intent = intent
	res.Entities = entities
	return res
}

// execute is the closed dispatch table: only the intents enumerated
// here are callable.
func (d *Dispatcher) execute(ctx context.Context, intent string, entities map[string]any, c *Context) (*models.DispatchResult, error) {
	switch intent {
	case IntentIdentifyUser:
		return d.Tools.IdentifyUser(ctx, c, entities)
	case IntentFetchSlots:
		return d.Tools.FetchSlots(ctx, c, entities)
	case IntentBookAppointment:
		return d.Tools.BookAppointment(ctx, c, entities)
	case IntentRetrieveAppointments:
		return d.Tools.RetrieveAppointments(ctx, c, entities)
	case IntentCancelAppointment:
		return d.Tools.CancelAppointment(ctx, c, entities)
	case IntentModifyAppointment:
		return d.Tools.ModifyAppointment(ctx, c, entities)
	case IntentEndConversation:
		return d.Tools.EndConversation(ctx, c, entities)
	}
	return nil, fmt.Errorf("unreachable intent %q", intent)
}

func isKnownIntent(intent string) bool {
	switch intent {
	case IntentIdentifyUser, IntentFetchSlots, IntentBookAppointment,
		IntentRetrieveAppointments, IntentCancelAppointment,
		IntentModifyAppointment, IntentEndConversation:
		return true
	}
	return false
}

// validateState checks the intent against the current conversation
// state. identify_user is legal only before identification; the
// appointment intents require an identified session; end_conversation
// is legal everywhere.
func (d *Dispatcher) validateState(intent string, c *Context) (string, bool) {
	switch intent {
	case IntentIdentifyUser:
		if c.State != StateUnidentified {
			who := c.UserName
			if who == "" {
				who = c.UserPhone
			}
			return fmt.Sprintf("You're already identified as %s.", who), false
		}
	case IntentFetchSlots, IntentBookAppointment, IntentRetrieveAppointments,
		IntentCancelAppointment, IntentModifyAppointment:
		if c.State == StateCompleted {
			return "This conversation has ended. Please start a new session.", false
		}
		if !c.IsIdentified() {
			return "Please provide your phone number first so I can help you.", false
		}
	}
	return "", true
}

func (d *Dispatcher) unknownIntentResult(intent string, c *Context) *models.DispatchResult {
	if intent == IntentUnknown {
		return &models.DispatchResult{
			Success:     false,
			Error:       "I didn't understand that. Could you please rephrase?",
			Suggestions: d.suggestions(c),
		}
	}
	return &models.DispatchResult{
		Success: false,
		Error:   fmt.Sprintf("Unknown intent: %s", intent),
	}
}

func (d *Dispatcher) suggestions(c *Context) []string {
	switch c.State {
	case StateUnidentified:
		return []string{"Please provide your phone number to get started"}
	case StateIdentified:
		return []string{
			"Check available appointment slots",
			"View your existing appointments",
			"Book a new appointment",
		}
	default:
		return []string{"Continue with your current request or say 'help'"}
	}
}
