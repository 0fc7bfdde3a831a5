package conversation

import "fmt"

// MissingParamError signals that a required entity was absent or of the
// wrong type. The dispatcher converts it into a parameter-error result
// instead of surfacing the raw fault.
type MissingParamError struct {
	Intent string
	Param  string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing or invalid parameter %q for %s", e.Param, e.Intent)
}

// requiredParams lists the required entity names per intent, used to
// build parameter-error results.
var requiredParams = map[string][]string{
	IntentIdentifyUser:      {"phone"},
	IntentBookAppointment:   {"date", "time"},
	IntentCancelAppointment: {"appointment_id"},
	IntentModifyAppointment: {"appointment_id"},
}

// RequiredParams returns the required parameter names for an intent.
func RequiredParams(intent string) []string {
	return requiredParams[intent]
}
