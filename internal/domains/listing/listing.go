// Package listing resolves polymorphic booking references. A booking row
// carries a type discriminant and a reference id; the Resolver maps the
// discriminant to the store that owns the referenced table.
package listing

//go:generate go run go.uber.org/mock/mockgen -source=./listing.go -destination=./mocks/listing_mock.go -package=mocks

import (
	"context"

	"ghumakad/shared/failure"
)

type Kind string

const (
	KindHotel      Kind = "hotel"
	KindService    Kind = "service"
	KindExperience Kind = "experience"
)

// Summary is the cross-domain view of a listing that the booking and
// payment flows need: ownership, capacity, and notification fields.
type Summary struct {
	ID       string
	HostID   string
	Title    string
	Location string
	Capacity int
	Price    int64
	Kind     Kind
}

// Lock identifies the row a reservation must take FOR UPDATE on, and the
// column holding its capacity.
type Lock struct {
	Kind           Kind
	Table          string
	CapacityColumn string
	ID             string
}

type Store interface {
	Summary(ctx context.Context, id string) (Summary, error)
	Lock(id string) Lock
	IDsByHost(ctx context.Context, hostID string) ([]string, error)
	CountByHost(ctx context.Context, hostID string) (int, error)
	UpdateRating(ctx context.Context, id string, rating float64) error
}

type Resolver struct {
	stores map[Kind]Store
}

func NewResolver(hotel, service, experience Store) *Resolver {
	return &Resolver{
		stores: map[Kind]Store{
			KindHotel:      hotel,
			KindService:    service,
			KindExperience: experience,
		},
	}
}

func (r *Resolver) Store(kind Kind) (Store, error) {
	store, ok := r.stores[kind]
	if !ok {
		return nil, failure.BadRequestFromString("invalid booking type") // nolint:wrapcheck
	}

	return store, nil
}

func (r *Resolver) Summary(ctx context.Context, kind Kind, id string) (Summary, error) {
	store, err := r.Store(kind)
	if err != nil {
		return Summary{}, err
	}

	return store.Summary(ctx, id)
}
