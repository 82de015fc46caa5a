package domain

import (
	"fmt"

	"github.com/centrala/rainfall-gate/internal/errors"
)

// Status is the lifecycle state of an AccessRequest. Approved and rejected are terminal.
type Status uint8

// Status values. The zero value is invalid so an unset status is never mistaken for pending.
const (
	StatusPending Status = iota + 1
	StatusApproved
	StatusRejected
)

var statusNames = map[Status]string{
	StatusPending:  "pending",
	StatusApproved: "approved",
	StatusRejected: "rejected",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseStatus converts a stored status name.
func ParseStatus(name string) (Status, error) {
	for status, statusName := range statusNames {
		if statusName == name {
			return status, nil
		}
	}
	return 0, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("unknown access request status %q", name))
}

// Action is an administrative decision applied to a pending request.
type Action uint8

// Review actions.
const (
	ActionApprove Action = iota + 1
	ActionReject
)

func (a Action) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Transition returns the status reached by applying action to from.
// Only pending requests can move; anything else is ErrRequestNotPending.
func Transition(from Status, action Action) (Status, error) {
	if from != StatusPending {
		return from, ErrRequestNotPending
	}
	switch action {
	case ActionApprove:
		return StatusApproved, nil
	case ActionReject:
		return StatusRejected, nil
	default:
		return from, errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("unknown review action %s", action))
	}
}
