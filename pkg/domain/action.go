package domain

import dErrors "curator/pkg/domain-errors"

// Action is a moderation verdict requested by a moderator.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionEscalate Action = "escalate"
)

var validActions = map[Action]bool{
	ActionApprove:  true,
	ActionReject:   true,
	ActionEscalate: true,
}

// ParseAction constructs an Action from external input.
// Errors: CodeInvalidInput when the value is empty or unsupported.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "action cannot be empty")
	}
	a := Action(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid action: "+s)
	}
	return a, nil
}

// IsValid checks if the action is one of the supported enum values.
func (a Action) IsValid() bool {
	return validActions[a]
}

func (a Action) String() string {
	return string(a)
}
