package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mergington/activities/internal/metrics"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/repository"
)

const tracerName = "github.com/mergington/activities/internal/service"

// ActivityRepository defines the data access the activity service needs
type ActivityRepository interface {
	List(ctx context.Context) (model.ActivityDirectory, error)
	GetByName(ctx context.Context, name string) (*model.Activity, error)
	AddParticipant(ctx context.Context, name, email string, limitCapacity bool) (*model.Activity, error)
	RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error)
}

// EventPublisher receives membership change events
type EventPublisher interface {
	Publish(event *Event)
}

// ActivityServiceConfig holds dependencies for the activity service
type ActivityServiceConfig struct {
	Repo            ActivityRepository
	Events          EventPublisher // optional
	Tracer          trace.Tracer   // optional, defaults to the global provider
	EnforceCapacity bool
}

// ActivityService handles activity listing and membership business logic
type ActivityService struct {
	repo            ActivityRepository
	events          EventPublisher
	tracer          trace.Tracer
	enforceCapacity bool
}

// MembershipChange describes the result of a successful signup or unregister
type MembershipChange struct {
	ActivityName string         `json:"activity"`
	Email        string         `json:"email"`
	Activity     model.Activity `json:"-"`
	Participants int            `json:"participants"`
}

// NewActivityService creates a new activity service
func NewActivityService(cfg ActivityServiceConfig) *ActivityService {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &ActivityService{
		repo:            cfg.Repo,
		events:          cfg.Events,
		tracer:          tracer,
		enforceCapacity: cfg.EnforceCapacity,
	}
}

// ListActivities returns every activity keyed by name
func (s *ActivityService) ListActivities(ctx context.Context) (model.ActivityDirectory, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.ListActivities")
	defer span.End()

	activities, err := s.repo.List(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list activities: %w", err)
	}

	span.SetAttributes(attribute.Int("activity.count", len(activities)))
	return activities, nil
}

// GetActivity returns one activity by exact name
func (s *ActivityService) GetActivity(ctx context.Context, name string) (*model.Activity, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.GetActivity",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	if name == "" {
		return nil, ErrActivityNameRequired
	}

	activity, err := s.repo.GetByName(ctx, name)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup adds email to the named activity
func (s *ActivityService) Signup(ctx context.Context, name, email string) (*MembershipChange, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.Signup",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	if err := validateMembershipInput(name, email); err != nil {
		return nil, err
	}

	activity, err := s.repo.AddParticipant(ctx, name, email, s.enforceCapacity)
	if err != nil {
		err = translateRepoError(err)
		metrics.MembershipChangesTotal.WithLabelValues(metrics.OperationSignup, outcomeFor(err)).Inc()
		recordSpanError(span, err)
		return nil, err
	}

	change := s.recordChange(metrics.OperationSignup, name, email, activity)
	s.publish(EventSignedUp, change)
	return change, nil
}

// Unregister removes email from the named activity
func (s *ActivityService) Unregister(ctx context.Context, name, email string) (*MembershipChange, error) {
	ctx, span := s.tracer.Start(ctx, "ActivityService.Unregister",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	if err := validateMembershipInput(name, email); err != nil {
		return nil, err
	}

	activity, err := s.repo.RemoveParticipant(ctx, name, email)
	if err != nil {
		err = translateRepoError(err)
		metrics.MembershipChangesTotal.WithLabelValues(metrics.OperationUnregister, outcomeFor(err)).Inc()
		recordSpanError(span, err)
		return nil, err
	}

	change := s.recordChange(metrics.OperationUnregister, name, email, activity)
	s.publish(EventUnregistered, change)
	return change, nil
}

// SyncParticipantGauges sets the participant and spots-left gauges for
// every activity. Called once at startup so the gauges reflect the seed catalog.
func (s *ActivityService) SyncParticipantGauges(ctx context.Context) error {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for name, activity := range activities {
		setActivityGauges(name, activity)
	}
	return nil
}

func setActivityGauges(name string, activity model.Activity) {
	metrics.ActivityParticipants.WithLabelValues(name).Set(float64(len(activity.Participants)))
	metrics.ActivitySpotsLeft.WithLabelValues(name).Set(float64(activity.SpotsLeft()))
}

func (s *ActivityService) recordChange(operation, name, email string, activity *model.Activity) *MembershipChange {
	metrics.MembershipChangesTotal.WithLabelValues(operation, metrics.OutcomeSuccess).Inc()
	setActivityGauges(name, *activity)

	return &MembershipChange{
		ActivityName: name,
		Email:        email,
		Activity:     *activity,
		Participants: len(activity.Participants),
	}
}

func (s *ActivityService) publish(eventType EventType, change *MembershipChange) {
	if s.events == nil {
		return
	}
	s.events.Publish(NewActivityEvent(eventType, change.ActivityName, change))
}

func validateMembershipInput(name, email string) error {
	if name == "" {
		return ErrActivityNameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	return nil
}

func translateRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return ErrActivityNotFound
	case errors.Is(err, repository.ErrParticipantExists):
		return ErrAlreadySignedUp
	case errors.Is(err, repository.ErrParticipantMissing):
		return ErrNotSignedUp
	case errors.Is(err, repository.ErrCapacityReached):
		return ErrActivityFull
	default:
		return err
	}
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrAlreadySignedUp), errors.Is(err, ErrNotSignedUp):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrActivityFull):
		return metrics.OutcomeFull
	default:
		return metrics.OutcomeError
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
