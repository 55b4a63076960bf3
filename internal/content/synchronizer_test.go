package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
)

func seededStore() *InMemoryStore {
	store := NewInMemoryStore()
	owner := id.UserID(uuid.New())
	store.Put(id.ContentTypeReview, Record{ID: 1, OwnerID: owner, Status: "pending"})
	store.Put(id.ContentTypeListing, Record{ID: 2, OwnerID: owner, Status: "draft"})
	store.Put(id.ContentTypeTag, Record{ID: 3, OwnerID: owner})
	return store
}

func TestSynchronizer_ReviewMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("approve publishes", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeReview, 1, id.ActionApprove))
		record, ok := store.Lookup(id.ContentTypeReview, 1)
		require.True(t, ok)
		assert.Equal(t, ReviewStatusPublished, record.Status)
	})

	t.Run("reject marks rejected", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeReview, 1, id.ActionReject))
		record, ok := store.Lookup(id.ContentTypeReview, 1)
		require.True(t, ok)
		assert.Equal(t, ReviewStatusRejected, record.Status)
	})

	t.Run("escalate leaves visible state untouched", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeReview, 1, id.ActionEscalate))
		record, ok := store.Lookup(id.ContentTypeReview, 1)
		require.True(t, ok)
		assert.Equal(t, "pending", record.Status)
	})
}

func TestSynchronizer_ListingMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("approve publishes", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeListing, 2, id.ActionApprove))
		record, ok := store.Lookup(id.ContentTypeListing, 2)
		require.True(t, ok)
		assert.Equal(t, ListingStatusPublish, record.Status)
	})

	t.Run("reject hides to draft", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeListing, 2, id.ActionReject))
		record, ok := store.Lookup(id.ContentTypeListing, 2)
		require.True(t, ok)
		assert.Equal(t, ListingStatusDraft, record.Status)
	})

	t.Run("escalate is a no-op", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeListing, 2, id.ActionEscalate))
		record, ok := store.Lookup(id.ContentTypeListing, 2)
		require.True(t, ok)
		assert.Equal(t, "draft", record.Status)
	})
}

func TestSynchronizer_TagMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("approve is a no-op", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeTag, 3, id.ActionApprove))
		_, ok := store.Lookup(id.ContentTypeTag, 3)
		assert.True(t, ok, "approved tag must survive")
	})

	t.Run("reject deletes the record", func(t *testing.T) {
		store := seededStore()
		sync := NewSynchronizer(store)
		require.NoError(t, sync.Apply(ctx, id.ContentTypeTag, 3, id.ActionReject))
		_, ok := store.Lookup(id.ContentTypeTag, 3)
		assert.False(t, ok, "rejected tag must be deleted")
	})
}

func TestSynchronizer_UnregisteredTypeFails(t *testing.T) {
	sync := NewSynchronizer(seededStore())
	err := sync.Apply(context.Background(), id.ContentType("comment"), 1, id.ActionApprove)
	assert.Error(t, err)
}

func TestSynchronizer_RegisterNewType(t *testing.T) {
	sync := NewSynchronizer(seededStore())
	applied := false
	sync.Register(id.ContentType("comment"), HandlerFunc(func(context.Context, id.ContentID, id.Action) error {
		applied = true
		return nil
	}))
	require.NoError(t, sync.Apply(context.Background(), id.ContentType("comment"), 1, id.ActionApprove))
	assert.True(t, applied)
}

func TestSynchronizer_WriteFailurePropagates(t *testing.T) {
	store := seededStore()
	store.FailWrites = true
	sync := NewSynchronizer(store)

	err := sync.Apply(context.Background(), id.ContentTypeReview, 1, id.ActionApprove)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
