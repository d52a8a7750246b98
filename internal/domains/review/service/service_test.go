package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghumakad/config"
	"ghumakad/infras/otel/mocks"
	"ghumakad/internal/domains/listing"
	listingMocks "ghumakad/internal/domains/listing/mocks"
	reviewMocks "ghumakad/internal/domains/review/mocks"
	"ghumakad/internal/domains/review/model"
	"ghumakad/internal/domains/review/model/dto"
	"ghumakad/internal/domains/review/service"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
)

type reviewFixture struct {
	repo       *reviewMocks.MockReview
	hotelStore *listingMocks.MockStore
	svc        service.Review
}

func newReviewFixture(ctrl *gomock.Controller) *reviewFixture {
	f := &reviewFixture{
		repo:       reviewMocks.NewMockReview(ctrl),
		hotelStore: listingMocks.NewMockStore(ctrl),
	}

	resolver := listing.NewResolver(
		f.hotelStore,
		listingMocks.NewMockStore(ctrl),
		listingMocks.NewMockStore(ctrl),
	)

	f.svc = service.New(f.repo, resolver, &config.Config{}, mocks.NewOtel())

	return f
}

func TestReviewService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReviewFixture(ctrl)

	hotelSummary := listing.Summary{
		ID:     "hotel-id-123",
		HostID: "host-id-123",
		Kind:   listing.KindHotel,
	}

	req := dto.CreateReviewRequest{
		Type:        "hotel",
		ReferenceID: "hotel-id-123",
		Rating:      4,
		Comment:     "Great stay, spotless rooms.",
	}

	tests := []struct {
		name      string
		req       dto.CreateReviewRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful review refreshes the listing rating",
			req:  req,
			setupMock: func() {
				f.hotelStore.EXPECT().
					Summary(gomock.Any(), "hotel-id-123").
					Return(hotelSummary, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				f.repo.EXPECT().
					AverageByReferences(gomock.Any(), listing.KindHotel, []string{"hotel-id-123"}).
					Return(4.25, nil)

				f.hotelStore.EXPECT().
					UpdateRating(gomock.Any(), "hotel-id-123", 4.3).
					Return(nil)
			},
		},
		{
			name: "rating refresh failure does not fail the review",
			req:  req,
			setupMock: func() {
				f.hotelStore.EXPECT().
					Summary(gomock.Any(), "hotel-id-123").
					Return(hotelSummary, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				f.repo.EXPECT().
					AverageByReferences(gomock.Any(), listing.KindHotel, []string{"hotel-id-123"}).
					Return(0.0, errors.New("database error"))
			},
		},
		{
			name: "listing not found",
			req:  req,
			setupMock: func() {
				f.hotelStore.EXPECT().
					Summary(gomock.Any(), "hotel-id-123").
					Return(listing.Summary{}, nil)
			},
			wantErr: true,
		},
		{
			name: "unknown listing type",
			req: dto.CreateReviewRequest{
				Type:        "villa",
				ReferenceID: "hotel-id-123",
				Rating:      4,
			},
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "insert failure",
			req:  req,
			setupMock: func() {
				f.hotelStore.EXPECT().
					Summary(gomock.Any(), "hotel-id-123").
					Return(hotelSummary, nil)

				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-id-123")
			err := f.svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReviewService_ListByListing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReviewFixture(ctrl)

	reviews := []model.Review{
		{
			ID:          "review-id-1",
			UserID:      "user-id-123",
			Type:        listing.KindHotel,
			ReferenceID: "hotel-id-123",
			Rating:      5,
			Comment:     "Perfect location.",
		},
	}

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(reviews, nil)

	result, err := f.svc.ListByListing(context.Background(), listing.KindHotel, "hotel-id-123", gDto.QueryParams{Limit: 10, Page: 1})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.TotalData)
	assert.Equal(t, 5, result.Reviews[0].Rating)
}

func TestReviewService_ListByHost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newReviewFixture(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantTotal int
	}{
		{
			name: "reviews across the host listings",
			setupMock: func() {
				f.hotelStore.EXPECT().
					IDsByHost(gomock.Any(), "host-id-123").
					Return([]string{"hotel-id-1", "hotel-id-2"}, nil)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(3, nil)

				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Review{
						{ID: "review-id-1", ReferenceID: "hotel-id-1", Rating: 4},
						{ID: "review-id-2", ReferenceID: "hotel-id-1", Rating: 5},
						{ID: "review-id-3", ReferenceID: "hotel-id-2", Rating: 3},
					}, nil)
			},
			wantTotal: 3,
		},
		{
			name: "host without listings gets an empty page",
			setupMock: func() {
				f.hotelStore.EXPECT().
					IDsByHost(gomock.Any(), "host-id-123").
					Return(nil, nil)
			},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "host-id-123")
			result, err := f.svc.ListByHost(ctx, listing.KindHotel, gDto.QueryParams{Limit: 10, Page: 1})

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.TotalData)
		})
	}
}
