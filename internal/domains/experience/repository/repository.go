package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"ghumakad/infras/otel"
	"ghumakad/infras/postgres"
	"ghumakad/internal/domains/experience/model"
	"ghumakad/internal/domains/listing"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/logger"
	gRepo "ghumakad/shared/repository"
)

type Experience interface {
	listing.Store
	Insert(ctx context.Context, model model.Experience) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Experience, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Experience, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Experience]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Experience {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Experience](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) Summary(ctx context.Context, id string) (listing.Summary, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".Summary")
	defer scope.End()

	experience, err := repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return listing.Summary{}, err
	}

	if experience.ID == constant.Empty {
		return listing.Summary{}, nil
	}

	return listing.Summary{
		ID:       experience.ID,
		HostID:   experience.HostID,
		Title:    experience.Title,
		Location: experience.Location,
		Capacity: experience.MaxGuests,
		Price:    experience.PricePerHead,
		Kind:     listing.KindExperience,
	}, nil
}

func (repo *repositoryImpl) Lock(id string) listing.Lock {
	return listing.Lock{
		Kind:           listing.KindExperience,
		Table:          model.TableName,
		CapacityColumn: model.FieldMaxGuests,
		ID:             id,
	}
}

func (repo *repositoryImpl) IDsByHost(ctx context.Context, hostID string) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".IDsByHost")
	defer scope.End()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", model.FieldID, model.TableName, model.FieldHostID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var ids []string
	if err := repo.db.Read.SelectContext(ctx, &ids, query, hostID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get experience ids by host: %w", err)
	}

	return ids, nil
}

func (repo *repositoryImpl) CountByHost(ctx context.Context, hostID string) (int, error) {
	return repo.Count(ctx, shared.FilterByID(hostID, model.FieldHostID, model.TableName))
}

func (repo *repositoryImpl) UpdateRating(ctx context.Context, id string, rating float64) error {
	return repo.Update(ctx, map[string]any{model.FieldRating: rating}, shared.FilterByID(id, model.FieldID, model.TableName))
}
