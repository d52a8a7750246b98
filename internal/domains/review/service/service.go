package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"

	"ghumakad/config"
	"ghumakad/infras/otel"
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/review/model"
	"ghumakad/internal/domains/review/model/dto"
	"ghumakad/internal/domains/review/repository"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/failure"

	"github.com/rs/zerolog/log"
)

type Review interface {
	Create(ctx context.Context, req dto.CreateReviewRequest) error
	ListByListing(ctx context.Context, kind listing.Kind, referenceID string, params gDto.QueryParams) (dto.GetReviewsResponse, error)
	ListByHost(ctx context.Context, kind listing.Kind, params gDto.QueryParams) (dto.GetReviewsResponse, error)
}

type serviceImpl struct {
	repo     repository.Review
	resolver *listing.Resolver
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Review, resolver *listing.Resolver, cfg *config.Config, otel otel.Otel) Review {
	return &serviceImpl{
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReviewRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	kind := listing.Kind(req.Type)

	store, err := s.resolver.Store(kind)
	if err != nil {
		return err
	}

	summary, err := store.Summary(ctx, req.ReferenceID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve reviewed listing")

		return fmt.Errorf("failed to resolve reviewed listing: %w", err)
	}

	if summary.ID == constant.Empty {
		return failure.NotFound("listing not found") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create review")

		return fmt.Errorf("failed to create review: %w", err)
	}

	// The listing carries a denormalized mean rating, refreshed on every
	// new review. A failed refresh does not undo the review.
	average, err := s.repo.AverageByReferences(ctx, kind, []string{req.ReferenceID})
	if err != nil {
		log.Error().Err(err).Msg("failed to recompute listing rating")

		return nil
	}

	if err := store.UpdateRating(ctx, req.ReferenceID, math.Round(average*10)/10); err != nil {
		log.Error().Err(err).Msg("failed to update listing rating")
	}

	return nil
}

func (s *serviceImpl) ListByListing(ctx context.Context, kind listing.Kind, referenceID string, params gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListReviews")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.resolver.Store(kind); err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldType,
				Operator: gDto.FilterOperatorEq,
				Value:    kind,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldReferenceID,
				Operator: gDto.FilterOperatorEq,
				Value:    referenceID,
				Table:    model.TableName,
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reviews")

		return res, fmt.Errorf("failed to count reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reviews")

		return res, fmt.Errorf("failed to get reviews: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// ListByHost returns reviews left on any of the calling host's listings of
// the given type.
func (s *serviceImpl) ListByHost(ctx context.Context, kind listing.Kind, params gDto.QueryParams) (res dto.GetReviewsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListHostReviews")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	store, err := s.resolver.Store(kind)
	if err != nil {
		return res, err
	}

	ids, err := store.IDsByHost(ctx, host)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve host listings")

		return res, fmt.Errorf("failed to resolve host listings: %w", err)
	}

	if len(ids) == 0 {
		res.FromModels(nil, 0, params.Limit)

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldType,
				Operator: gDto.FilterOperatorEq,
				Value:    kind,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldReferenceID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    model.TableName,
			},
		},
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count host reviews")

		return res, fmt.Errorf("failed to count host reviews: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get host reviews")

		return res, fmt.Errorf("failed to get host reviews: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}
