package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghumakad/config"
	"ghumakad/infras/otel/mocks"
	s3Mocks "ghumakad/infras/s3/mocks"
	bookingMocks "ghumakad/internal/domains/booking/mocks"
	hotelMocks "ghumakad/internal/domains/hotel/mocks"
	"ghumakad/internal/domains/hotel/model"
	"ghumakad/internal/domains/hotel/model/dto"
	"ghumakad/internal/domains/hotel/service"
	cacheMocks "ghumakad/shared/cache/mocks"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
)

type hotelFixture struct {
	repo        *hotelMocks.MockHotel
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
	s3          *s3Mocks.MockS3
	svc         service.Hotel
}

func newHotelFixture(ctrl *gomock.Controller) *hotelFixture {
	f := &hotelFixture{
		repo:        hotelMocks.NewMockHotel(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		s3:          s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookingRepo, cfg, f.cache, mocks.NewOtel(), f.s3)

	return f
}

func TestHotelService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHotelFixture(ctrl)

	req := dto.CreateHotelRequest{
		Title:          "Mountain View Lodge",
		Location:       "Manali",
		State:          "Himachal Pradesh",
		Amenities:      []string{"wifi", "parking"},
		PricePerNight:  6000,
		AvailableRooms: 5,
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful create without images",
			setupMock: func() {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				f.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "insert failure",
			setupMock: func() {
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

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "host-id-123")
			err := f.svc.Create(ctx, req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHotelService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHotelFixture(ctrl)

	hotels := []model.Hotel{
		{ID: "hotel-id-1", HostID: "host-id-123", Title: "Mountain View Lodge", AvailableRooms: 5},
		{ID: "hotel-id-2", HostID: "host-id-123", Title: "Riverside Inn", AvailableRooms: 2},
	}

	params := gDto.QueryParams{Limit: 10, Page: 1}

	tests := []struct {
		name      string
		avail     dto.AvailabilityFilter
		setupMock func()
		wantLen   int
		wantTotal int
	}{
		{
			name: "cache hit",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cache miss reads from the database",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(2, nil)

				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(hotels, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name: "availability filter drops booked out hotels",
			avail: dto.AvailabilityFilter{
				CheckIn:  time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
				CheckOut: time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
				Rooms:    2,
			},
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				f.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(2, nil)

				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(hotels, nil)

				f.bookingRepo.EXPECT().
					SumOverlappingRooms(gomock.Any(), "hotel-id-1", gomock.Any(), gomock.Any()).
					Return(1, nil)

				f.bookingRepo.EXPECT().
					SumOverlappingRooms(gomock.Any(), "hotel-id-2", gomock.Any(), gomock.Any()).
					Return(1, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantLen:   1,
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{}, tt.avail)

			assert.NoError(t, err)
			assert.Len(t, result.Hotels, tt.wantLen)
			assert.Equal(t, tt.wantTotal, result.TotalData)
		})
	}
}

func TestHotelService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHotelFixture(ctrl)

	hotel := model.Hotel{
		ID:     "hotel-id-123",
		HostID: "host-id-123",
		Title:  "Mountain View Lodge",
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cache miss, found in db",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotel, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantID: "hotel-id-123",
		},
		{
			name: "hotel not found",
			setupMock: func() {
				f.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Hotel{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := f.svc.Get(context.Background(), "hotel-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, result.ID)
			}
		})
	}
}

func TestHotelService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHotelFixture(ctrl)

	hotel := model.Hotel{
		ID:     "hotel-id-123",
		HostID: "host-id-123",
		Title:  "Mountain View Lodge",
	}

	price := int64(7500)
	req := dto.UpdateHotelRequest{PricePerNight: &price}

	tests := []struct {
		name      string
		host      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful update",
			host: "host-id-123",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotel, nil)

				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				f.cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				f.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "not the owning host",
			host: "host-id-999",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotel, nil)
			},
			wantErr: true,
		},
		{
			name: "hotel not found",
			host: "host-id-123",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Hotel{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.host)
			err := f.svc.Update(ctx, req, "hotel-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHotelService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newHotelFixture(ctrl)

	hotel := model.Hotel{
		ID:     "hotel-id-123",
		HostID: "host-id-123",
		Images: []string{"https://bucket.s3.amazonaws.com/hotel/cover.jpg"},
	}

	tests := []struct {
		name      string
		host      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful delete removes stored images",
			host: "host-id-123",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotel, nil)

				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				f.s3.EXPECT().
					GetObjectNameFromURL(gomock.Any(), hotel.Images[0]).
					Return("cover.jpg")

				f.s3.EXPECT().
					DeleteFile(gomock.Any(), gomock.Any(), model.EntityName, "cover.jpg").
					Return(nil)

				f.cache.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				f.cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
		},
		{
			name: "not the owning host",
			host: "host-id-999",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(hotel, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.host)
			err := f.svc.Delete(ctx, "hotel-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
