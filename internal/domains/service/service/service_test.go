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
	serviceMocks "ghumakad/internal/domains/service/mocks"
	"ghumakad/internal/domains/service/model"
	"ghumakad/internal/domains/service/model/dto"
	"ghumakad/internal/domains/service/service"
	cacheMocks "ghumakad/shared/cache/mocks"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
)

type serviceFixture struct {
	repo        *serviceMocks.MockService
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
	svc         service.Service
}

func newServiceFixture(ctrl *gomock.Controller) *serviceFixture {
	f := &serviceFixture{
		repo:        serviceMocks.NewMockService(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.svc = service.New(f.repo, f.bookingRepo, cfg, f.cache, mocks.NewOtel(), s3Mocks.NewMockS3(ctrl))

	return f
}

func TestServiceService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newServiceFixture(ctrl)

	services := []model.Service{
		{ID: "service-id-1", HostID: "host-id-123", Title: "Ayurvedic Massage", MaxGuests: 10},
		{ID: "service-id-2", HostID: "host-id-123", Title: "Yoga Retreat", MaxGuests: 4},
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
					Return(services, nil)

				f.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name: "availability filter drops fully booked dates",
			avail: dto.AvailabilityFilter{
				Date:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
				Guests: 4,
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
					Return(services, nil)

				f.bookingRepo.EXPECT().
					SumGuestsOn(gomock.Any(), gomock.Any(), "service-id-1", gomock.Any()).
					Return(3, nil)

				f.bookingRepo.EXPECT().
					SumGuestsOn(gomock.Any(), gomock.Any(), "service-id-2", gomock.Any()).
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
			assert.Len(t, result.Services, tt.wantLen)
			assert.Equal(t, tt.wantTotal, result.TotalData)
		})
	}
}

func TestServiceService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newServiceFixture(ctrl)

	svcModel := model.Service{
		ID:     "service-id-123",
		HostID: "host-id-123",
		Title:  "Ayurvedic Massage",
	}

	tests := []struct {
		name      string
		host      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful delete",
			host: "host-id-123",
			setupMock: func() {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(svcModel, nil)

				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
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
					Return(svcModel, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, tt.host)
			err := f.svc.Delete(ctx, "service-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
