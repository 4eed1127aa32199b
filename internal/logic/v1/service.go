package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/duynhne/contact-service/internal/core/domain"
	"github.com/duynhne/contact-service/internal/core/paging"
	"github.com/duynhne/contact-service/internal/core/validation"
	"github.com/duynhne/contact-service/middleware"
)

const fieldContactID = "ContactId"

// ContactService implements the contact workflows: create, update, delete and search.
// Validation failures and missing contacts are returned as messages, not errors;
// an error return always means storage or configuration failed.
type ContactService struct {
	repo      domain.ContactRepository
	validator *validation.ContactValidator
	logger    *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(repo domain.ContactRepository, validator *validation.ContactValidator, logger *zap.Logger) *ContactService {
	if validator == nil {
		validator = validation.NewContactValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, validator: validator, logger: logger}
}

// CreateContact validates dto and stores it. On success the stored contact is
// returned with its assigned identity. Any identity on dto is ignored.
func (s *ContactService) CreateContact(ctx context.Context, dto domain.ContactDto) (*domain.ContactDto, domain.ValidationFailures, error) {
	ctx, span := middleware.StartSpan(ctx, "contact.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if failures := s.validator.Validate(dto); len(failures) > 0 {
		span.SetAttributes(
			attribute.Bool("contact.created", false),
			attribute.Int("validation.failures", len(failures)),
		)
		middleware.RecordContactOperation("create", middleware.OutcomeInvalid)
		return nil, failures, nil
	}

	entity := DtoToEntity(dto)
	if err := s.repo.Add(ctx, entity); err != nil {
		span.RecordError(err)
		middleware.RecordContactOperation("create", middleware.OutcomeError)
		return nil, nil, fmt.Errorf("create contact: %w", err)
	}

	created := EntityToDto(entity)
	span.SetAttributes(
		attribute.Int("contact.id", entity.ContactID),
		attribute.Bool("contact.created", true),
	)
	span.AddEvent("contact.created")
	middleware.RecordContactOperation("create", middleware.OutcomeSuccess)
	s.logger.Debug("Contact created", zap.Int("contact_id", entity.ContactID))

	return &created, nil, nil
}

// UpdateContact replaces every mutable field of an existing contact with the
// values in dto. The identity must be present and refer to a stored contact.
func (s *ContactService) UpdateContact(ctx context.Context, dto domain.ContactDto) (*domain.ContactDto, domain.ValidationFailures, error) {
	ctx, span := middleware.StartSpan(ctx, "contact.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	var failures domain.ValidationFailures
	if dto.ContactID == nil || *dto.ContactID == 0 {
		failures = append(failures, domain.ValidationFailure{
			Field:   fieldContactID,
			Message: "ContactId is required.",
		})
	}
	failures = append(failures, s.validator.Validate(dto)...)
	if len(failures) > 0 {
		span.SetAttributes(
			attribute.Bool("contact.updated", false),
			attribute.Int("validation.failures", len(failures)),
		)
		middleware.RecordContactOperation("update", middleware.OutcomeInvalid)
		return nil, failures, nil
	}

	id := *dto.ContactID
	span.SetAttributes(attribute.Int("contact.id", id))

	existing, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil, s.updateNotFound(span, id), nil
		}
		span.RecordError(err)
		middleware.RecordContactOperation("update", middleware.OutcomeError)
		return nil, nil, fmt.Errorf("update contact %d: %w", id, err)
	}

	updated := DtoToEntity(dto)
	updated.ContactID = existing.ContactID
	if err := s.repo.Update(ctx, existing.ContactID, updated); err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil, s.updateNotFound(span, id), nil
		}
		span.RecordError(err)
		middleware.RecordContactOperation("update", middleware.OutcomeError)
		return nil, nil, fmt.Errorf("update contact %d: %w", id, err)
	}

	result := EntityToDto(updated)
	span.SetAttributes(attribute.Bool("contact.updated", true))
	middleware.RecordContactOperation("update", middleware.OutcomeSuccess)
	s.logger.Debug("Contact updated", zap.Int("contact_id", id))

	return &result, nil, nil
}

func (s *ContactService) updateNotFound(span trace.Span, id int) domain.ValidationFailures {
	span.SetAttributes(attribute.Bool("contact.found", false))
	middleware.RecordContactOperation("update", middleware.OutcomeNotFound)
	return domain.ValidationFailures{{
		Field:          fieldContactID,
		Message:        fmt.Sprintf("No Contact found with %d", id),
		AttemptedValue: id,
	}}
}

// DeleteContact removes the contact with the given identity. It returns an
// empty message on success and a not-found message when nothing was removed.
func (s *ContactService) DeleteContact(ctx context.Context, id int) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "contact.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("contact.id", id),
	))
	defer span.End()

	err := s.repo.Remove(ctx, id)
	if errors.Is(err, domain.ErrContactNotFound) {
		span.SetAttributes(attribute.Bool("contact.deleted", false))
		middleware.RecordContactOperation("delete", middleware.OutcomeNotFound)
		return fmt.Sprintf("Contact with %d does not exist.", id), nil
	}
	if err != nil {
		span.RecordError(err)
		middleware.RecordContactOperation("delete", middleware.OutcomeError)
		return "", fmt.Errorf("delete contact %d: %w", id, err)
	}

	span.SetAttributes(attribute.Bool("contact.deleted", true))
	middleware.RecordContactOperation("delete", middleware.OutcomeSuccess)
	s.logger.Debug("Contact deleted", zap.Int("contact_id", id))

	return "", nil
}

// SearchContacts returns one page of contacts matching every set criterion,
// ordered by identity.
func (s *ContactService) SearchContacts(ctx context.Context, criteria domain.ContactSearchCriteria) (*paging.Result[domain.ContactDto], error) {
	ctx, span := middleware.StartSpan(ctx, "contact.search", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("paging.page", criteria.PageNumber),
	))
	defer span.End()

	filter := BuildFilter(criteria)
	source := paging.Funcs[*domain.Contact]{
		CountFn: func(ctx context.Context) (int, error) {
			return s.repo.Count(ctx, filter)
		},
		FetchFn: func(ctx context.Context, offset, limit int) ([]*domain.Contact, error) {
			return s.repo.List(ctx, filter, offset, limit)
		},
	}

	result, err := paging.PageAndConvert(ctx, source, criteria.Parameters, EntityToDto)
	if err != nil {
		span.RecordError(err)
		middleware.RecordContactOperation("search", middleware.OutcomeError)
		return nil, fmt.Errorf("search contacts: %w", err)
	}

	span.SetAttributes(
		attribute.Int("filter.predicates", len(filter)),
		attribute.Int("paging.total", result.Total),
		attribute.Int("paging.returned", len(result.Data)),
	)
	middleware.RecordContactOperation("search", middleware.OutcomeSuccess)

	return result, nil
}
