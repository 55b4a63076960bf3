package content

import (
	"context"
	"fmt"

	id "curator/pkg/domain"
)

// Handler applies a moderation verdict to one kind of host content.
type Handler interface {
	Apply(ctx context.Context, contentID id.ContentID, action id.Action) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, contentID id.ContentID, action id.Action) error

func (f HandlerFunc) Apply(ctx context.Context, contentID id.ContentID, action id.Action) error {
	return f(ctx, contentID, action)
}

// Synchronizer applies verdicts to the underlying content records through a
// per-type handler table. Registering a new content type touches only this
// construction site, never the orchestrator.
type Synchronizer struct {
	store    Store
	handlers map[id.ContentType]Handler
}

// NewSynchronizer builds a synchronizer with the built-in review, listing,
// and tag handlers registered.
func NewSynchronizer(store Store) *Synchronizer {
	s := &Synchronizer{
		store:    store,
		handlers: make(map[id.ContentType]Handler),
	}
	s.Register(id.ContentTypeReview, HandlerFunc(s.applyReview))
	s.Register(id.ContentTypeListing, HandlerFunc(s.applyListing))
	s.Register(id.ContentTypeTag, HandlerFunc(s.applyTag))
	return s
}

// Register installs the handler for a content type, replacing any previous
// registration. Not safe for use after construction-time wiring.
func (s *Synchronizer) Register(contentType id.ContentType, handler Handler) {
	s.handlers[contentType] = handler
}

// Apply routes the verdict to the content type's handler.
func (s *Synchronizer) Apply(ctx context.Context, contentType id.ContentType, contentID id.ContentID, action id.Action) error {
	handler, ok := s.handlers[contentType]
	if !ok {
		return fmt.Errorf("no content handler registered for type %q", contentType)
	}
	return handler.Apply(ctx, contentID, action)
}

// Owner exposes the content store's read path for ownership checks.
func (s *Synchronizer) Owner(ctx context.Context, contentType id.ContentType, contentID id.ContentID) (id.UserID, error) {
	return s.store.Owner(ctx, contentType, contentID)
}

func (s *Synchronizer) applyReview(ctx context.Context, contentID id.ContentID, action id.Action) error {
	switch action {
	case id.ActionApprove:
		return s.store.SetStatus(ctx, id.ContentTypeReview, contentID, ReviewStatusPublished)
	case id.ActionReject:
		return s.store.SetStatus(ctx, id.ContentTypeReview, contentID, ReviewStatusRejected)
	case id.ActionEscalate:
		// Escalation leaves the visible review state untouched; the higher
		// tier decides later.
		return nil
	default:
		return fmt.Errorf("unsupported review action %q", action)
	}
}

func (s *Synchronizer) applyListing(ctx context.Context, contentID id.ContentID, action id.Action) error {
	switch action {
	case id.ActionApprove:
		return s.store.SetStatus(ctx, id.ContentTypeListing, contentID, ListingStatusPublish)
	case id.ActionReject:
		return s.store.SetStatus(ctx, id.ContentTypeListing, contentID, ListingStatusDraft)
	case id.ActionEscalate:
		return nil
	default:
		return fmt.Errorf("unsupported listing action %q", action)
	}
}

func (s *Synchronizer) applyTag(ctx context.Context, contentID id.ContentID, action id.Action) error {
	switch action {
	case id.ActionApprove:
		// Tags are visible by default; approval confirms without a write.
		return nil
	case id.ActionReject:
		return s.store.Delete(ctx, id.ContentTypeTag, contentID)
	case id.ActionEscalate:
		return nil
	default:
		return fmt.Errorf("unsupported tag action %q", action)
	}
}
