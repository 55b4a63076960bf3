package content

import (
	"context"

	id "curator/pkg/domain"
)

// Store is the host content store boundary. This subsystem reads owners and
// writes statuses; the status vocabulary per content type belongs to the host.
//
// SetStatus and Delete return an error when the underlying write fails; each
// is a single write so a failure never leaves the record half-applied.
type Store interface {
	Owner(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.UserID, error)
	SetStatus(ctx context.Context, contentType id.ContentType, contentID id.ContentID, status string) error
	Delete(ctx context.Context, contentType id.ContentType, contentID id.ContentID) error
}

// Host status vocabulary written by the synchronizer.
const (
	ReviewStatusPublished = "published"
	ReviewStatusRejected  = "rejected"
	ListingStatusPublish  = "publish"
	ListingStatusDraft    = "draft"
)
