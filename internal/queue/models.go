package queue

import (
	"time"

	id "curator/pkg/domain"
)

// Status is the moderation state of a queue item.
//
// Legal transitions: pending -> approved | rejected | escalated. Approved and
// rejected are terminal. Escalated hands off to a higher tier outside this
// subsystem and is immutable through this API.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusEscalated Status = "escalated"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusEscalated: true,
}

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

func (s Status) String() string {
	return string(s)
}

// StatusForAction maps a moderation verdict to the queue status it produces.
func StatusForAction(action id.Action) (Status, bool) {
	switch action {
	case id.ActionApprove:
		return StatusApproved, true
	case id.ActionReject:
		return StatusRejected, true
	case id.ActionEscalate:
		return StatusEscalated, true
	default:
		return "", false
	}
}

// Item is one piece of content awaiting (or past) a moderation verdict.
//
// Invariant: ModeratorID is set if and only if Status != pending.
type Item struct {
	ID          id.QueueID
	ContentType id.ContentType
	ContentID   id.ContentID
	Status      Status
	ModeratorID *id.UserID
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows a queue listing. Zero fields match everything.
type ListFilter struct {
	Status      Status
	ContentType id.ContentType
	ModeratorID *id.UserID
}

// DefaultListLimit applies when the caller does not size the page.
const DefaultListLimit = 20
