package capability

import (
	"context"

	id "curator/pkg/domain"
)

// RoleStore is the host's native role and grant store. The evaluator only
// reads it; membership management belongs to the host.
type RoleStore interface {
	HasRole(ctx context.Context, userID id.UserID, role string) bool
	HasGlobalGrant(ctx context.Context, userID id.UserID, grant string) bool
}

// OwnerReader resolves the owner of a host content record. Implemented by the
// content store's read path.
type OwnerReader interface {
	Owner(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.UserID, error)
}

// PointsReader yields a user's current reputation points. Implemented by the
// reputation service; always total, zero on absence.
type PointsReader interface {
	Points(ctx context.Context, userID id.UserID) int
}

// ObjectRef identifies the target of an object-scoped capability check.
type ObjectRef struct {
	Type id.ContentType
	ID   id.ContentID
}

// Host role names recognized by the evaluator.
const (
	RoleModerator = "moderator"
	RoleAdmin     = "administrator"
)

// Global grant names recognized by the evaluator.
const (
	GrantEditOthers = "edit_others_content"
)

// Capability names owned by this subsystem. Anything else falls through to
// the host's role store.
const (
	CapEditContent     = "edit_content"
	CapPublishContent  = "publish_content"
	CapManageTags      = "manage_tags"
	CapModerateContent = "moderate_content"
)
