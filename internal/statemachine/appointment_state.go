package statemachine

import (
	"fmt"
	"strings"

	"appointment_booking/internal/model"
)

// Transition defines a valid status change and the role allowed to make it
type Transition struct {
	From  model.AppointmentStatus
	To    model.AppointmentStatus
	Actor model.Role
}

// validTransitions is the authoritative state machine definition.
// Confirmed and Rejected have no outgoing edges.
var validTransitions = []Transition{
	{From: model.StatusPending, To: model.StatusConfirmed, Actor: model.RoleTeacher},
	{From: model.StatusPending, To: model.StatusRejected, Actor: model.RoleTeacher},
}

type transitionKey struct {
	From  model.AppointmentStatus
	To    model.AppointmentStatus
	Actor model.Role
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// InitialStatus is the status every new appointment starts in.
const InitialStatus = model.StatusPending

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status model.AppointmentStatus) []model.AppointmentStatus {
	var nexts []model.AppointmentStatus
	seen := map[model.AppointmentStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status model.AppointmentStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// IsTarget reports whether status can be reached by any transition.
// Used to reject requests for statuses no caller may ever set (e.g. Pending).
func IsTarget(status model.AppointmentStatus) bool {
	for _, t := range validTransitions {
		if t.To == status {
			return true
		}
	}
	return false
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to model.AppointmentStatus, actor model.Role) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s is not allowed for %s; valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status model.AppointmentStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
