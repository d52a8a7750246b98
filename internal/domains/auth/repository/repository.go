package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"ghumakad/infras/otel"
	"ghumakad/infras/postgres"
	"ghumakad/internal/domains/auth/model"
	gDto "ghumakad/shared/dto"
	gRepo "ghumakad/shared/repository"
)

type PendingRegistration interface {
	Insert(ctx context.Context, model model.PendingRegistration) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.PendingRegistration, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.PendingRegistration]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) PendingRegistration {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.PendingRegistration](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
