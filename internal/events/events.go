// Package events carries moderation verdicts to external listeners
// (notification, audit log). Emission is fire-and-forget: a sink failure is
// logged by the sink and never fails the moderation that produced it.
package events

import (
	"context"
	"time"

	id "curator/pkg/domain"
)

// EventVerdict is the event name emitted after a committed moderation.
const EventVerdict = "moderation.verdict"

// Verdict is the payload published for each committed moderation decision.
type Verdict struct {
	QueueID     string    `json:"queue_id"`
	Action      string    `json:"action"`
	ContentType string    `json:"content_type"`
	ContentID   int64     `json:"content_id"`
	ModeratorID string    `json:"moderator_id"`
	Notes       string    `json:"notes,omitempty"`
	DecidedAt   time.Time `json:"decided_at"`
}

// Sink receives verdict events. Implementations must not block moderation:
// deliver fast or drop and log.
type Sink interface {
	Emit(ctx context.Context, event string, verdict Verdict)
}

// NewVerdict assembles a payload from a decided queue item.
func NewVerdict(queueID id.QueueID, action id.Action, contentType id.ContentType, contentID id.ContentID, moderatorID id.UserID, notes string, decidedAt time.Time) Verdict {
	return Verdict{
		QueueID:     queueID.String(),
		Action:      action.String(),
		ContentType: contentType.String(),
		ContentID:   int64(contentID),
		ModeratorID: moderatorID.String(),
		Notes:       notes,
		DecidedAt:   decidedAt,
	}
}
