package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"ghumakad/infras/otel"
	"ghumakad/infras/postgres"
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/review/model"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/logger"
	gRepo "ghumakad/shared/repository"

	"github.com/lib/pq"
)

type Review interface {
	Insert(ctx context.Context, model model.Review) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AverageByReferences(ctx context.Context, kind listing.Kind, referenceIDs []string) (float64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AverageByReferences returns the mean rating across the given listings,
// zero when none are reviewed yet.
func (repo *repositoryImpl) AverageByReferences(ctx context.Context, kind listing.Kind, referenceIDs []string) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".AverageByReferences")
	defer scope.End()

	if len(referenceIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`SELECT COALESCE(AVG(%s), 0) FROM %s WHERE %s = $1 AND %s = ANY($2)`,
		model.FieldRating, model.TableName, model.FieldType, model.FieldReferenceID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var average float64
	if err := repo.db.Read.GetContext(ctx, &average, query, kind, pq.Array(referenceIDs)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}

	return average, nil
}
