package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "curator/pkg/domain-errors"
)

// UserID identifies a user across the moderation subsystem.
// Invariant: a valid UserID is a non-nil UUID; the zero value means anonymous.
type UserID uuid.UUID

// QueueID identifies a moderation queue item. Generated on enqueue.
type QueueID uuid.UUID

// ContentID is the host content store's opaque record identifier. This
// subsystem never interprets it beyond passing it back to the content store.
type ContentID int64

// ParseUserID constructs a UserID from external input.
// Errors: CodeInvalidInput on empty, malformed, or nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseQueueID constructs a QueueID from external input.
func ParseQueueID(s string) (QueueID, error) {
	u, err := parseUUID(s, "queue id")
	return QueueID(u), err
}

// ParseContentID constructs a ContentID from external input.
func ParseContentID(s string) (ContentID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "content id must be a positive integer")
	}
	return ContentID(n), nil
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	// Canonical 8-4-4-4-12 form only. uuid.Parse alone also accepts braced,
	// URN-prefixed, and raw-hex variants, and for 38-char input it strips the
	// surrounding characters without checking they are braces.
	if len(s) != 36 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be nil")
	}
	return u, nil
}

// NewQueueID generates a fresh queue item identifier.
func NewQueueID() QueueID {
	return QueueID(uuid.New())
}

// IsNil reports whether the UserID is the anonymous zero value.
func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

func (id QueueID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id QueueID) String() string {
	return uuid.UUID(id).String()
}

func (id ContentID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
