//go:build integration

package queue_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"curator/internal/queue"
	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	"curator/pkg/platform/tx"
	"curator/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *queue.PostgresStore
	runner   *tx.SQLRunner
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = queue.NewPostgresStore(s.postgres.DB)
	s.runner = tx.NewSQLRunner(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) insertPending(contentType id.ContentType, contentID id.ContentID, createdAt time.Time) *queue.Item {
	item := &queue.Item{
		ID:          id.NewQueueID(),
		ContentType: contentType,
		ContentID:   contentID,
		Status:      queue.StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	s.Require().NoError(s.store.Insert(context.Background(), item))
	return item
}

func (s *PostgresStoreSuite) TestInsertAndGet() {
	ctx := context.Background()
	item := s.insertPending(id.ContentTypeReview, 42, time.Now().UTC())

	got, err := s.store.Get(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(item.ID, got.ID)
	s.Equal(id.ContentTypeReview, got.ContentType)
	s.Equal(id.ContentID(42), got.ContentID)
	s.Equal(queue.StatusPending, got.Status)
	s.Nil(got.ModeratorID)
	s.Nil(got.Notes)
}

func (s *PostgresStoreSuite) TestGetMissingReturnsNotFound() {
	_, err := s.store.Get(context.Background(), id.NewQueueID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestTransitionSetsDecisionFields() {
	ctx := context.Background()
	item := s.insertPending(id.ContentTypeListing, 7, time.Now().UTC())
	moderator := id.UserID(uuid.New())

	err := s.store.Transition(ctx, item.ID, queue.StatusApproved, moderator, "looks fine")
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(queue.StatusApproved, got.Status)
	s.Require().NotNil(got.ModeratorID)
	s.Equal(moderator, *got.ModeratorID)
	s.Require().NotNil(got.Notes)
	s.Equal("looks fine", *got.Notes)
}

func (s *PostgresStoreSuite) TestTransitionDecidedItemConflicts() {
	ctx := context.Background()
	item := s.insertPending(id.ContentTypeReview, 1, time.Now().UTC())
	moderator := id.UserID(uuid.New())

	s.Require().NoError(s.store.Transition(ctx, item.ID, queue.StatusRejected, moderator, ""))
	err := s.store.Transition(ctx, item.ID, queue.StatusApproved, moderator, "")
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	got, err := s.store.Get(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(queue.StatusRejected, got.Status, "losing transition must not change the verdict")
}

// TestTransitionConcurrentOneWinner drives the compare-and-set through many
// real connections at once: exactly one transition may succeed.
func (s *PostgresStoreSuite) TestTransitionConcurrentOneWinner() {
	ctx := context.Background()
	item := s.insertPending(id.ContentTypeReview, 9, time.Now().UTC())
	const goroutines = 50

	var wg sync.WaitGroup
	var winners atomic.Int32
	var conflicts atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			status := queue.StatusApproved
			if n%2 == 1 {
				status = queue.StatusRejected
			}
			err := s.store.Transition(ctx, item.ID, status, id.UserID(uuid.New()), "")
			switch {
			case err == nil:
				winners.Add(1)
			default:
				s.Require().ErrorIs(err, sentinel.ErrConflict)
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), winners.Load(), "exactly one transition must win")
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestTransitionRollsBackWithUnitOfWork() {
	ctx := context.Background()
	item := s.insertPending(id.ContentTypeReview, 3, time.Now().UTC())
	moderator := id.UserID(uuid.New())

	failed := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Transition(ctx, item.ID, queue.StatusApproved, moderator, ""); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.Require().ErrorIs(failed, sentinel.ErrUnavailable)

	got, err := s.store.Get(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(queue.StatusPending, got.Status, "rolled back transition must leave the item pending")
	s.Nil(got.ModeratorID)
}

func (s *PostgresStoreSuite) TestListOrderingAndPagination() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)
	var inserted []*queue.Item
	for i := 0; i < 25; i++ {
		inserted = append(inserted, s.insertPending(id.ContentTypeReview, id.ContentID(i+1), base.Add(time.Duration(i)*time.Second)))
	}

	first, err := s.store.List(ctx, queue.ListFilter{Status: queue.StatusPending}, 20, 0)
	s.Require().NoError(err)
	s.Require().Len(first, 20)
	// Newest first.
	s.Equal(inserted[24].ID, first[0].ID)

	second, err := s.store.List(ctx, queue.ListFilter{Status: queue.StatusPending}, 20, 20)
	s.Require().NoError(err)
	s.Require().Len(second, 5)

	seen := make(map[id.QueueID]bool)
	for _, item := range append(first, second...) {
		s.False(seen[item.ID], "pages must not overlap")
		seen[item.ID] = true
	}
}

func (s *PostgresStoreSuite) TestListFilters() {
	ctx := context.Background()
	now := time.Now().UTC()
	review := s.insertPending(id.ContentTypeReview, 1, now)
	listing := s.insertPending(id.ContentTypeListing, 2, now)
	moderator := id.UserID(uuid.New())
	s.Require().NoError(s.store.Transition(ctx, listing.ID, queue.StatusApproved, moderator, ""))

	byType, err := s.store.List(ctx, queue.ListFilter{Status: queue.StatusPending, ContentType: id.ContentTypeReview}, 20, 0)
	s.Require().NoError(err)
	s.Require().Len(byType, 1)
	s.Equal(review.ID, byType[0].ID)

	byModerator, err := s.store.List(ctx, queue.ListFilter{Status: queue.StatusApproved, ModeratorID: &moderator}, 20, 0)
	s.Require().NoError(err)
	s.Require().Len(byModerator, 1)
	s.Equal(listing.ID, byModerator[0].ID)

	all, err := s.store.List(ctx, queue.ListFilter{}, 20, 0)
	s.Require().NoError(err)
	s.Len(all, 2)
}
