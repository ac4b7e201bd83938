package location

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"populationservice/internal/api"
	"populationservice/internal/config"
)

// Service runs the validate -> derive -> store pipeline for every operation
// and classifies storage outcomes into the api error taxonomy. It holds no
// state beyond the injected repository; every call is a single transition
// from input to one terminal outcome.
type Service struct {
	repo       Repository
	operations metric.Int64Counter
}

func NewService(repo Repository) *Service {
	meter := otel.Meter("populationservice/internal/location")
	operations, err := meter.Int64Counter("location.operations",
		metric.WithDescription("Location operations by name and outcome"),
		metric.WithUnit("{operation}"))
	if err != nil {
		slog.Warn("Unable to create location.operations counter", config.ErrAttr(err))
	}
	return &Service{repo: repo, operations: operations}
}

// Create validates the payload, derives the total and inserts the record.
// The assigned id comes back from the repository.
func (s *Service) Create(ctx context.Context, payload Payload) (*Location, error) {
	candidate, violations := Validate(payload)
	if violations != nil {
		return nil, &api.ValidationError{Violations: violations}
	}

	created, err := s.repo.Create(ctx, &Location{
		Name:            candidate.Name,
		MaleResidents:   candidate.MaleResidents,
		FemaleResidents: candidate.FemaleResidents,
		TotalResidents:  totalResidents(candidate.MaleResidents, candidate.FemaleResidents),
	})
	return created, s.classify(ctx, "create", err)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	loc, err := s.repo.FindByID(ctx, id)
	return loc, s.classify(ctx, "get", err)
}

// List returns all records in repository order; an empty result is a
// successful outcome, not an error.
func (s *Service) List(ctx context.Context) ([]Location, error) {
	locations, err := s.repo.FindAll(ctx)
	return locations, s.classify(ctx, "list", err)
}

// Update replaces name and resident counts wholesale: the payload must carry
// all three fields and passes the same rules as create. The total is always
// recomputed from the new counts.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload Payload) (*Location, error) {
	candidate, violations := Validate(payload)
	if violations != nil {
		return nil, &api.ValidationError{Violations: violations}
	}

	updated, err := s.repo.FindAndUpdate(ctx, id, &Location{
		Name:            candidate.Name,
		MaleResidents:   candidate.MaleResidents,
		FemaleResidents: candidate.FemaleResidents,
		TotalResidents:  totalResidents(candidate.MaleResidents, candidate.FemaleResidents),
	})
	return updated, s.classify(ctx, "update", err)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.classify(ctx, "delete", s.repo.FindAndDelete(ctx, id))
}

// classify records the operation outcome and keeps the taxonomy tight: not
// found and duplicate pass through untouched, anything else is logged here
// and surfaces as an unclassified storage failure.
func (s *Service) classify(ctx context.Context, operation string, err error) error {
	s.count(ctx, operation, err)

	switch {
	case err == nil, errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrDuplicate):
		return err
	default:
		slog.Error("Location storage failure", slog.String("operation", operation), config.ErrAttr(err))
		return err
	}
}

func (s *Service) count(ctx context.Context, operation string, err error) {
	if s.operations == nil {
		return
	}

	outcome := "success"
	switch {
	case errors.Is(err, api.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, api.ErrDuplicate):
		outcome = "duplicate"
	case err != nil:
		outcome = "failure"
	}

	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
