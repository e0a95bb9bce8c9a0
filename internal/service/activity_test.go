package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mergington/activities/internal/metrics"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/seed"
)

// ============================================================================
// Fakes
// ============================================================================

type recordingPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func (p *recordingPublisher) Publish(event *Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []*Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Event(nil), p.events...)
}

type failingRepo struct {
	err error
}

func (r *failingRepo) List(ctx context.Context) (model.ActivityDirectory, error) {
	return nil, r.err
}

func (r *failingRepo) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	return nil, r.err
}

func (r *failingRepo) AddParticipant(ctx context.Context, name, email string, limitCapacity bool) (*model.Activity, error) {
	return nil, r.err
}

func (r *failingRepo) RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	return nil, r.err
}

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) (*ActivityService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewActivityService(ActivityServiceConfig{
		Repo:   repository.NewActivityRepository(seed.MustDefault()),
		Events: pub,
	})
	return svc, pub
}

// ============================================================================
// ListActivities Tests
// ============================================================================

func TestActivityService_ListActivities_ReturnsSeed(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	activities, err := svc.ListActivities(context.Background())
	require.NoError(t, err)

	assert.Len(t, activities, 9)
	assert.Contains(t, activities, "Chess Club")
	assert.Contains(t, activities, "Programming Class")
	assert.Contains(t, activities, "Soccer Team")
}

func TestActivityService_ListActivities_WrapsRepoError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	svc := NewActivityService(ActivityServiceConfig{Repo: &failingRepo{err: boom}})

	_, err := svc.ListActivities(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ============================================================================
// GetActivity Tests
// ============================================================================

func TestActivityService_GetActivity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	activity, err := svc.GetActivity(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"michael@mergington.edu"}, activity.Participants)

	_, err = svc.GetActivity(ctx, "CHESS CLUB")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.GetActivity(ctx, "")
	assert.ErrorIs(t, err, ErrActivityNameRequired)
}

// ============================================================================
// Signup Tests
// ============================================================================

func TestActivityService_Signup_ChessClubScenario(t *testing.T) {
	t.Parallel()
	svc, pub := newTestService(t)
	ctx := context.Background()

	change, err := svc.Signup(ctx, "Chess Club", "test@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", change.ActivityName)
	assert.Equal(t, "test@mergington.edu", change.Email)
	assert.Equal(t, 2, change.Participants)

	activities, err := svc.ListActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"michael@mergington.edu", "test@mergington.edu"}, activities["Chess Club"].Participants)

	_, err = svc.Signup(ctx, "Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)

	_, err = svc.Unregister(ctx, "Chess Club", "test@mergington.edu")
	require.NoError(t, err)

	activities, err = svc.ListActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"michael@mergington.edu"}, activities["Chess Club"].Participants)

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventSignedUp, events[0].Type)
	assert.Equal(t, EventUnregistered, events[1].Type)
	assert.Equal(t, "Chess Club", events[0].Activity)
}

func TestActivityService_Signup_NonInterference(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.ListActivities(ctx)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Soccer Team", "independence@mergington.edu")
	require.NoError(t, err)

	after, err := svc.ListActivities(ctx)
	require.NoError(t, err)

	for name, activity := range before {
		if name == "Soccer Team" {
			assert.Len(t, after[name].Participants, len(activity.Participants)+1)
			assert.Contains(t, after[name].Participants, "independence@mergington.edu")
			continue
		}
		assert.Equal(t, activity.Participants, after[name].Participants, name)
	}
}

func TestActivityService_Signup_DuplicateLeavesListUnchanged(t *testing.T) {
	t.Parallel()
	svc, pub := newTestService(t)
	ctx := context.Background()

	before, err := svc.GetActivity(ctx, "Programming Class")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Programming Class", "emma@mergington.edu")
	require.ErrorIs(t, err, ErrAlreadySignedUp)

	after, err := svc.GetActivity(ctx, "Programming Class")
	require.NoError(t, err)
	assert.Equal(t, before.Participants, after.Participants)
	assert.Empty(t, pub.Events())
}

func TestActivityService_UnknownActivity_NotFoundForEveryOperation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Nonexistent Club", "x@y.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.Unregister(ctx, "Nonexistent Club", "x@y.edu")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.GetActivity(ctx, "Nonexistent Club")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivityService_Signup_MissingInput(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Chess Club", "")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = svc.Unregister(ctx, "", "x@y.edu")
	assert.ErrorIs(t, err, ErrActivityNameRequired)
}

func TestActivityService_Signup_CapacityAdvisoryByDefault(t *testing.T) {
	t.Parallel()
	svc := NewActivityService(ActivityServiceConfig{
		Repo: repository.NewActivityRepository(model.ActivityDirectory{
			"Tiny Club": {MaxParticipants: 1, Participants: []string{"a@mergington.edu"}},
		}),
	})

	_, err := svc.Signup(context.Background(), "Tiny Club", "b@mergington.edu")
	assert.NoError(t, err)
}

func TestActivityService_Signup_CapacityEnforced(t *testing.T) {
	t.Parallel()
	svc := NewActivityService(ActivityServiceConfig{
		Repo: repository.NewActivityRepository(model.ActivityDirectory{
			"Tiny Club": {MaxParticipants: 1, Participants: []string{"a@mergington.edu"}},
		}),
		EnforceCapacity: true,
	})

	_, err := svc.Signup(context.Background(), "Tiny Club", "b@mergington.edu")
	assert.ErrorIs(t, err, ErrActivityFull)
}

// ============================================================================
// Unregister Tests
// ============================================================================

func TestActivityService_Unregister_NotSignedUp(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Unregister(ctx, "Chess Club", "notregistered@mergington.edu")
	assert.ErrorIs(t, err, ErrNotSignedUp)

	activity, err := svc.GetActivity(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"michael@mergington.edu"}, activity.Participants)
}

func TestActivityService_Unregister_ReducesCount(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.GetActivity(ctx, "Programming Class")
	require.NoError(t, err)

	change, err := svc.Unregister(ctx, "Programming Class", "emma@mergington.edu")
	require.NoError(t, err)

	assert.Equal(t, len(before.Participants)-1, change.Participants)
	assert.NotContains(t, change.Activity.Participants, "emma@mergington.edu")
}

func TestActivityService_RoundTrip_RestoresOrder(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	before, err := svc.GetActivity(ctx, "Art Workshop")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Art Workshop", "cyclictest@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Unregister(ctx, "Art Workshop", "cyclictest@mergington.edu")
	require.NoError(t, err)

	after, err := svc.GetActivity(ctx, "Art Workshop")
	require.NoError(t, err)
	assert.Equal(t, before.Participants, after.Participants)
}

// ============================================================================
// Observability Tests
// ============================================================================

func TestActivityService_Signup_UpdatesParticipantGauge(t *testing.T) {
	t.Parallel()
	svc := NewActivityService(ActivityServiceConfig{
		Repo: repository.NewActivityRepository(model.ActivityDirectory{
			"Gauge Test Club": {MaxParticipants: 5, Participants: []string{}},
		}),
	})

	_, err := svc.Signup(context.Background(), "Gauge Test Club", "a@mergington.edu")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActivityParticipants.WithLabelValues("Gauge Test Club")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.ActivitySpotsLeft.WithLabelValues("Gauge Test Club")))
}

func TestActivityService_SyncParticipantGauges(t *testing.T) {
	t.Parallel()
	svc := NewActivityService(ActivityServiceConfig{
		Repo: repository.NewActivityRepository(model.ActivityDirectory{
			"Sync Test Club":      {MaxParticipants: 5, Participants: []string{"a", "b", "c"}},
			"Oversubscribed Club": {MaxParticipants: 1, Participants: []string{"a", "b"}},
		}),
	})

	require.NoError(t, svc.SyncParticipantGauges(context.Background()))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.ActivityParticipants.WithLabelValues("Sync Test Club")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ActivitySpotsLeft.WithLabelValues("Sync Test Club")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActivitySpotsLeft.WithLabelValues("Oversubscribed Club")))
}

func TestActivityService_Signup_RecordsSpans(t *testing.T) {
	t.Parallel()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	svc := NewActivityService(ActivityServiceConfig{
		Repo:   repository.NewActivityRepository(seed.MustDefault()),
		Tracer: provider.Tracer("test"),
	})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Chess Club", "span@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "Chess Club", "span@mergington.edu")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "ActivityService.Signup", spans[0].Name())
	assert.Equal(t, otelcodes.Unset, spans[0].Status().Code)
	assert.Equal(t, otelcodes.Error, spans[1].Status().Code)
}
