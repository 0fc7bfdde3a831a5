package conversation

// State is a conversation state. Transitions are restricted to the
// table below so a session can never reach an action its history does
// not support (e.g. booking before identification).
type State string

const (
	StateUnidentified  State = "unidentified"   // initial: waiting for a phone number
	StateIdentified    State = "identified"     // phone captured, tools unlocked
	StateBrowsingSlots State = "browsing_slots" // viewing available time slots
	StateBooking       State = "booking"        // booking in progress
	StateConfirming    State = "confirming"     // confirming booking details
	StateRetrieving    State = "retrieving"     // fetching appointments
	StateCancelling    State = "cancelling"     // cancelling an appointment
	StateModifying     State = "modifying"      // modifying an appointment
	StateCompleted     State = "completed"      // terminal
)

// validTransitions maps each state to its allowed targets. Every
// working state can fall back to StateIdentified, so an abandoned
// action never strands the session. StateCompleted is terminal.
var validTransitions = map[State][]State{
	StateUnidentified: {StateIdentified},
	StateIdentified: {
		StateBrowsingSlots,
		StateRetrieving,
		StateCancelling,
		StateModifying,
		StateCompleted,
	},
	StateBrowsingSlots: {StateBooking, StateIdentified},
	StateBooking:       {StateConfirming, StateIdentified},
	StateConfirming:    {StateCompleted, StateIdentified},
	StateRetrieving:    {StateIdentified},
	StateCancelling:    {StateIdentified},
	StateModifying:     {StateIdentified},
	StateCompleted:     {},
}

// CanTransition reports whether moving from current to target is legal.
func CanTransition(current, target State) bool {
	for _, allowed := range validTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}
