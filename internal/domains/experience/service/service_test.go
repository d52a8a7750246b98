package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"ghumakad/config"
	"ghumakad/infras/otel/mocks"
	s3Mocks "ghumakad/infras/s3/mocks"
	bookingMocks "ghumakad/internal/domains/booking/mocks"
	experienceMocks "ghumakad/internal/domains/experience/mocks"
	"ghumakad/internal/domains/experience/model"
	"ghumakad/internal/domains/experience/service"
	cacheMocks "ghumakad/shared/cache/mocks"
)

func TestExperienceService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := experienceMocks.NewMockExperience(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(
		mockRepo,
		bookingMocks.NewMockBooking(ctrl),
		cfg,
		mockCache,
		mocks.NewOtel(),
		s3Mocks.NewMockS3(ctrl),
	)

	experience := model.Experience{
		ID:       "experience-id-123",
		HostID:   "host-id-123",
		Title:    "Old Delhi Food Walk",
		Category: "food",
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
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "cache miss, found in db",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(experience, nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantID: "experience-id-123",
		},
		{
			name: "experience not found",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Experience{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Get(context.Background(), "experience-id-123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, result.ID)
			}
		})
	}
}
