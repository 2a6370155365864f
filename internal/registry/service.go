// Package registry orchestrates validation and storage for every person record
// operation, whatever front end triggers it.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/person-registry/internal/events"
	"github.com/rcliao/person-registry/internal/logger"
	"github.com/rcliao/person-registry/internal/metrics"
	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/store"
	"github.com/rcliao/person-registry/internal/validate"
)

// Service validates input and applies it to a store.
type Service struct {
	store     store.Store
	validator *validate.Validator
	events    events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithValidator replaces the default wall-clock validator.
func WithValidator(v *validate.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithPublisher sends change events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithMetrics records operation counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service over st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		validator: validate.New(),
		events:    events.Noop{},
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in and stores it as a new record.
func (s *Service) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	in = in.Normalize()
	if err := s.check(ctx, in, 0); err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, s.storeErr(ctx, "create", err)
	}

	if s.metrics != nil {
		s.metrics.RecordsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "record created", slog.Int64("id", p.ID))
	s.publish(ctx, events.ActionCreated, *p)
	return p, nil
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*model.Person, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.storeErr(ctx, "get", err)
	}
	return p, nil
}

// List returns the records matching p.
func (s *Service) List(ctx context.Context, p store.ListParams) ([]model.Person, error) {
	persons, err := s.store.List(ctx, p)
	if err != nil {
		return nil, s.storeErr(ctx, "list", err)
	}
	return persons, nil
}

// Update validates in and replaces every mutable field of record id.
func (s *Service) Update(ctx context.Context, id int64, in model.PersonInput) (*model.Person, error) {
	in = in.Normalize()
	if err := s.check(ctx, in, id); err != nil {
		return nil, err
	}

	p, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, s.storeErr(ctx, "update", err)
	}

	if s.metrics != nil {
		s.metrics.RecordsUpdated.Inc()
	}
	s.logger.InfoContext(ctx, "record updated", slog.Int64("id", p.ID))
	s.publish(ctx, events.ActionUpdated, *p)
	return p, nil
}

// Delete permanently removes record id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return s.storeErr(ctx, "delete", err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeErr(ctx, "delete", err)
	}

	if s.metrics != nil {
		s.metrics.RecordsDeleted.Inc()
	}
	s.logger.InfoContext(ctx, "record deleted", slog.Int64("id", id))
	s.publish(ctx, events.ActionDeleted, *p)
	return nil
}

// Stats returns record counts.
func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return nil, s.storeErr(ctx, "stats", err)
	}
	return st, nil
}

// Check runs full-record validation without touching the store, for forms that
// want to show errors before submitting.
func (s *Service) Check(ctx context.Context, in model.PersonInput, editingID int64) error {
	return s.check(ctx, in.Normalize(), editingID)
}

func (s *Service) check(ctx context.Context, in model.PersonInput, editingID int64) error {
	lookup, err := s.ownerLookup(ctx, in.NationalID)
	if err != nil {
		return err
	}

	errs := s.validator.Record(in, lookup, editingID)
	if errs.Valid() {
		return nil
	}

	if s.metrics != nil {
		s.metrics.ObserveValidationFailure(errs)
	}
	s.logger.DebugContext(ctx, "validation failed", slog.Any("fields", map[string]string(errs)))

	return &model.ValidationError{
		Fields:    errs,
		Duplicate: len(errs) == 1 && errs[model.FieldNationalID] == validate.MsgNationalIDTaken,
	}
}

// ownerLookup resolves the single national ID the validator will ask about.
func (s *Service) ownerLookup(ctx context.Context, nationalID string) (validate.Lookup, error) {
	if nationalID == "" {
		return validate.NoRecords, nil
	}
	owner, err := s.store.FindByNationalID(ctx, nationalID)
	if errors.Is(err, model.ErrNotFound) {
		return validate.NoRecords, nil
	}
	if err != nil {
		return nil, s.storeErr(ctx, "lookup", err)
	}
	return validate.InRecords([]model.Person{*owner}), nil
}

// storeErr maps store failures onto the registry error taxonomy.
func (s *Service) storeErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return err
	case errors.Is(err, model.ErrDuplicateKey):
		// lost a race with a concurrent writer after validation passed
		return &model.ValidationError{
			Fields:    map[string]string{model.FieldNationalID: validate.MsgNationalIDTaken},
			Duplicate: true,
		}
	}
	s.logger.ErrorContext(ctx, "storage failure", slog.String("op", op), slog.String("error", err.Error()))
	return fmt.Errorf("%w: %s: %v", model.ErrStorage, op, err)
}

func (s *Service) publish(ctx context.Context, action events.Action, p model.Person) {
	if err := s.events.Publish(ctx, events.New(action, p)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			slog.String("action", string(action)),
			slog.Int64("id", p.ID),
			slog.String("error", err.Error()),
		)
	}
}
