package capability_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curator/internal/capability"
	"curator/internal/capability/rolestore"
	"curator/internal/content"
	"curator/internal/reputation"
	id "curator/pkg/domain"
)

type fixture struct {
	roles     *rolestore.InMemoryStore
	contents  *content.InMemoryStore
	repSvc    *reputation.Service
	evaluator *capability.Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	roles := rolestore.NewInMemoryStore()
	contents := content.NewInMemoryStore()
	repSvc := reputation.NewService(reputation.NewInMemoryStore(), logger)
	sync := content.NewSynchronizer(contents)
	evaluator := capability.NewEvaluator(roles, sync, repSvc, logger, nil)
	repSvc.RegisterInvalidator(evaluator)
	return &fixture{roles: roles, contents: contents, repSvc: repSvc, evaluator: evaluator}
}

func TestEvaluator_AnonymousIsAlwaysDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, cap := range []string{
		capability.CapModerateContent,
		capability.CapPublishContent,
		capability.CapEditContent,
		capability.CapManageTags,
		"read_dashboard",
	} {
		assert.False(t, f.evaluator.Can(ctx, cap, id.UserID{}, nil), "capability %q", cap)
	}
}

func TestEvaluator_ReputationThresholdBoundaries(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		capability string
		points     int
		allowed    bool
	}{
		{capability.CapPublishContent, 99, false},
		{capability.CapPublishContent, 100, true},
		{capability.CapManageTags, 199, false},
		{capability.CapManageTags, 200, true},
		{capability.CapModerateContent, 499, false},
		{capability.CapModerateContent, 500, true},
	}
	for _, tc := range cases {
		f := newFixture(t)
		userID := id.UserID(uuid.New())
		_, err := f.repSvc.Award(ctx, userID, tc.points)
		require.NoError(t, err)

		got := f.evaluator.Can(ctx, tc.capability, userID, nil)
		assert.Equal(t, tc.allowed, got, "%s with %d points", tc.capability, tc.points)
	}
}

func TestEvaluator_ModeratorRoleBypassesReputation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	moderator := id.UserID(uuid.New())
	f.roles.AssignRole(moderator, capability.RoleModerator)
	assert.True(t, f.evaluator.Can(ctx, capability.CapModerateContent, moderator, nil))

	admin := id.UserID(uuid.New())
	f.roles.AssignRole(admin, capability.RoleAdmin)
	assert.True(t, f.evaluator.Can(ctx, capability.CapModerateContent, admin, nil))

	// Role does not leak into other reputation-gated capabilities.
	assert.False(t, f.evaluator.Can(ctx, capability.CapPublishContent, moderator, nil))
}

func TestEvaluator_OwnershipStrategy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := id.UserID(uuid.New())
	stranger := id.UserID(uuid.New())
	editor := id.UserID(uuid.New())
	f.roles.AssignGrant(editor, capability.GrantEditOthers)
	f.contents.Put(id.ContentTypeListing, content.Record{ID: 10, OwnerID: owner, Status: "publish"})

	object := &capability.ObjectRef{Type: id.ContentTypeListing, ID: 10}

	t.Run("owner may edit", func(t *testing.T) {
		assert.True(t, f.evaluator.Can(ctx, capability.CapEditContent, owner, object))
	})

	t.Run("global grant may edit anything", func(t *testing.T) {
		assert.True(t, f.evaluator.Can(ctx, capability.CapEditContent, editor, object))
		assert.True(t, f.evaluator.Can(ctx, capability.CapEditContent, editor, nil))
	})

	t.Run("stranger is denied", func(t *testing.T) {
		assert.False(t, f.evaluator.Can(ctx, capability.CapEditContent, stranger, object))
	})

	t.Run("no object and no grant is denied", func(t *testing.T) {
		assert.False(t, f.evaluator.Can(ctx, capability.CapEditContent, stranger, nil))
	})

	t.Run("missing object is denied", func(t *testing.T) {
		missing := &capability.ObjectRef{Type: id.ContentTypeListing, ID: 404}
		assert.False(t, f.evaluator.Can(ctx, capability.CapEditContent, stranger, missing))
	})

	t.Run("reputation does not substitute for ownership", func(t *testing.T) {
		rich := id.UserID(uuid.New())
		_, err := f.repSvc.Award(ctx, rich, 10_000)
		require.NoError(t, err)
		assert.False(t, f.evaluator.Can(ctx, capability.CapEditContent, rich, object))
	})
}

func TestEvaluator_StaticStrategyDelegatesToHost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	assert.False(t, f.evaluator.Can(ctx, "read_dashboard", userID, nil),
		"capability unknown to the host denies by default")

	f.roles.AssignGrant(userID, "read_dashboard")
	assert.True(t, f.evaluator.Can(ctx, "read_dashboard", userID, nil))
}

// TestEvaluator_CacheInvalidationOnDowngrade covers the stale-positive bug
// class: without invalidation the evaluator would keep serving the old point
// total after a downgrade.
func TestEvaluator_CacheInvalidationOnDowngrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	_, err := f.repSvc.Award(ctx, userID, 600)
	require.NoError(t, err)
	require.True(t, f.evaluator.Can(ctx, capability.CapModerateContent, userID, nil))

	// Warm the cache again, then downgrade below the threshold.
	require.True(t, f.evaluator.Can(ctx, capability.CapModerateContent, userID, nil))
	_, err = f.repSvc.Award(ctx, userID, -550)
	require.NoError(t, err)

	assert.False(t, f.evaluator.Can(ctx, capability.CapModerateContent, userID, nil),
		"downgrade must not be masked by the points cache")
}

// TestEvaluator_CacheServesRepeatLookups pins the memoization: after the
// first lookup the store is not consulted again until invalidation.
func TestEvaluator_CacheServesRepeatLookups(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	counter := &countingPoints{points: 150}
	evaluator := capability.NewEvaluator(
		rolestore.NewInMemoryStore(),
		content.NewSynchronizer(content.NewInMemoryStore()),
		counter,
		logger,
		nil,
	)
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	for i := 0; i < 5; i++ {
		assert.True(t, evaluator.Can(ctx, capability.CapPublishContent, userID, nil))
	}
	assert.Equal(t, 1, counter.calls, "points should be fetched once per user until invalidated")

	evaluator.Invalidate(userID)
	assert.True(t, evaluator.Can(ctx, capability.CapPublishContent, userID, nil))
	assert.Equal(t, 2, counter.calls)
}

// TestEvaluator_InvalidationBeatsInFlightFetch pins the race between
// Invalidate and a fetch already in progress: a point total read before the
// mutation must never be cached past it. The first lookup blocks inside the
// reader while the downgrade and invalidation happen, so the value it carries
// is stale by the time it would be stored.
func TestEvaluator_InvalidationBeatsInFlightFetch(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	gate := &gatedPoints{
		points:  600,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	evaluator := capability.NewEvaluator(
		rolestore.NewInMemoryStore(),
		content.NewSynchronizer(content.NewInMemoryStore()),
		gate,
		logger,
		nil,
	)
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	done := make(chan struct{})
	go func() {
		defer close(done)
		evaluator.Can(ctx, capability.CapModerateContent, userID, nil)
	}()

	<-gate.entered
	gate.setPoints(50)
	evaluator.Invalidate(userID)
	close(gate.release)
	<-done

	assert.False(t, evaluator.Can(ctx, capability.CapModerateContent, userID, nil),
		"lookup after invalidation must observe the downgraded total, not the in-flight value")
}

type countingPoints struct {
	points int
	calls  int
}

func (c *countingPoints) Points(context.Context, id.UserID) int {
	c.calls++
	return c.points
}

// gatedPoints parks the first Points call between entered and release so a
// test can interleave an invalidation with an in-flight fetch.
type gatedPoints struct {
	mu      sync.Mutex
	points  int
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedPoints) Points(context.Context, id.UserID) int {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.points
}

func (g *gatedPoints) setPoints(points int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.points = points
}
