//go:build integration

package reputation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"curator/internal/reputation"
	id "curator/pkg/domain"
	"curator/pkg/platform/sentinel"
	"curator/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *reputation.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = reputation.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) TestGetMissingReturnsNotFound() {
	_, err := s.store.Get(context.Background(), id.UserID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestEnsureIsIdempotent() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	s.Require().NoError(s.store.Ensure(ctx, userID))
	s.Require().NoError(s.store.Ensure(ctx, userID))

	record, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(0, record.Points)
	s.Equal(reputation.LevelContributor, record.Level)
}

func (s *PostgresStoreSuite) TestAddAccumulatesAndDerivesLevel() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	points, err := s.store.Add(ctx, userID, 150)
	s.Require().NoError(err)
	s.Equal(150, points)

	points, err = s.store.Add(ctx, userID, 400)
	s.Require().NoError(err)
	s.Equal(550, points)

	record, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(550, record.Points)
	s.Equal(reputation.LevelModerator, record.Level)
}

func (s *PostgresStoreSuite) TestAddClampsAtZero() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	_, err := s.store.Add(ctx, userID, 50)
	s.Require().NoError(err)

	points, err := s.store.Add(ctx, userID, -200)
	s.Require().NoError(err)
	s.Equal(0, points, "points may never go negative")
}

func (s *PostgresStoreSuite) TestConcurrentAwardsAllLand() {
	// The upsert is atomic per statement, so concurrent awards must all land.
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	const goroutines = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Add(ctx, userID, 10)
			s.Require().NoError(err)
		}()
	}
	wg.Wait()

	record, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Equal(goroutines*10, record.Points)
}
