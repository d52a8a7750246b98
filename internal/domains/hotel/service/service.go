package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"ghumakad/config"
	"ghumakad/infras/otel"
	"ghumakad/infras/s3"
	bookingRepository "ghumakad/internal/domains/booking/repository"
	"ghumakad/internal/domains/hotel/model"
	"ghumakad/internal/domains/hotel/model/dto"
	"ghumakad/internal/domains/hotel/repository"
	"ghumakad/shared"
	"ghumakad/shared/cache"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	"ghumakad/shared/failure"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	cacheGetHotel    = "hotel:get"
	cacheGetAllHotel = "hotel:gets"
	cacheCountHotel  = "hotel:count"
)

type Hotel interface {
	Create(ctx context.Context, req dto.CreateHotelRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (dto.GetHotelsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.HotelResponse, error)
	Update(ctx context.Context, req dto.UpdateHotelRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Hotel
	bookingRepo bookingRepository.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Hotel, bookingRepo bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Hotel {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateHotelRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	imageURLs, uploaded, err := s.uploadImages(ctx, req.Images, req.ImageFiles)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, req.ToModel(host, imageURLs)); err != nil {
		s.deleteImages(ctx, uploaded)

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()

	return nil
}

// uploadImages fans the files out to S3 concurrently and joins the results
// all-or-nothing: a single failed upload aborts the batch and removes the
// objects that already made it.
func (s *serviceImpl) uploadImages(ctx context.Context, headers []*multipart.FileHeader, files []multipart.File) (urls []string, uploaded []string, err error) {
	if len(headers) == 0 {
		return nil, nil, nil
	}

	bucketName := s.cfg.External.S3.BucketName
	urls = make([]string, len(headers))
	names := make([]string, len(headers))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, header := range headers {
		filename := uuid.NewString()

		parts := strings.Split(header.Filename, ".")
		if len(parts) > 1 {
			filename = fmt.Sprintf("%s.%s", filename, parts[len(parts)-1])
		}

		names[i] = filename

		group.Go(func() error {
			url, uploadErr := s.s3.UploadFile(groupCtx, bucketName, model.EntityName, files[i], header, filename)
			if uploadErr != nil {
				return fmt.Errorf("failed to upload image: %w", uploadErr)
			}

			urls[i] = url

			return nil
		})
	}

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to upload hotel images to S3")
		s.deleteImages(ctx, names)

		return nil, nil, err
	}

	return urls, names, nil
}

func (s *serviceImpl) deleteImages(ctx context.Context, objectNames []string) {
	bucketName := s.cfg.External.S3.BucketName

	for _, name := range objectNames {
		if name == constant.Empty {
			continue
		}

		_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, name)
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (res dto.GetHotelsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllHotels")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllHotel, req, filter) + avail.CacheSuffix()

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotels")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotels")

		return res, fmt.Errorf("failed to get hotels: %w", err)
	}

	if avail.Active() {
		kept, filterErr := s.filterAvailable(ctx, models, avail)
		if filterErr != nil {
			return res, filterErr
		}

		// The count query cannot see the availability check, so the rows
		// this page lost come off the total.
		total -= len(models) - len(kept)
		models = kept
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotels to cache")
		}
	}()

	return res, nil
}

// filterAvailable drops hotels whose remaining rooms over the requested
// range cannot cover the requested count.
func (s *serviceImpl) filterAvailable(ctx context.Context, models []model.Hotel, avail dto.AvailabilityFilter) ([]model.Hotel, error) {
	available := make([]model.Hotel, 0, len(models))

	for _, hotel := range models {
		booked, err := s.bookingRepo.SumOverlappingRooms(ctx, hotel.ID, avail.CheckIn, avail.CheckOut)
		if err != nil {
			log.Error().Err(err).Str("hotel", hotel.ID).Msg("failed to check hotel availability")

			return nil, fmt.Errorf("failed to check hotel availability: %w", err)
		}

		if hotel.AvailableRooms-booked >= avail.Rooms {
			available = append(available, hotel)
		}
	}

	return available, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountHotels")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountHotel, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hotels")

		return res, fmt.Errorf("failed to count hotels: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotel count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.HotelResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetHotel")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetHotel, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for hotel")

		return res, nil
	}

	hotel, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get hotel")

		return res, fmt.Errorf("failed to get hotel: %w", err)
	}

	if hotel.ID == constant.Empty {
		return res, failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	res.FromModel(hotel)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save hotel to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateHotelRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return err
	}

	if current.ID == constant.Empty {
		log.Error().Msg("hotel not found")

		return failure.NotFound("hotel not found")
	}

	if current.HostID != host {
		return failure.Forbidden("hotel does not belong to this host") // nolint:wrapcheck
	}

	return s.updateInternal(ctx, req, current, host, filter)
}

func (s *serviceImpl) updateInternal(ctx context.Context, req dto.UpdateHotelRequest, current model.Hotel, host string, filter gDto.FilterGroup) error {
	imageURLs, uploaded, err := s.uploadImages(ctx, req.Images, req.ImageFiles)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, host)
	if len(imageURLs) > 0 {
		updatedFields[model.FieldImages] = pq.StringArray(imageURLs)
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update hotel")
		s.deleteImages(ctx, uploaded)

		return fmt.Errorf("failed to update hotel: %w", err)
	}

	// Replaced images are removed once the row update is durable.
	if len(imageURLs) > 0 {
		bucketName := s.cfg.External.S3.BucketName

		for _, old := range current.Images {
			if name := s.s3.GetObjectNameFromURL(bucketName, old); name != constant.Empty {
				_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, name)
			}
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHotel, current.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete hotel cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteHotel")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check hotel existence")

		return fmt.Errorf("failed to check hotel existence: %w", err)
	}

	if current.ID == constant.Empty {
		log.Error().Msg("hotel not found")

		return failure.NotFound("hotel not found") // nolint:wrapcheck
	}

	if current.HostID != host {
		return failure.Forbidden("hotel does not belong to this host") // nolint:wrapcheck
	}

	// Bookings referencing the hotel are left in place; later cancellation
	// attempts resolve them as not found.
	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete hotel")

		return fmt.Errorf("failed to delete hotel: %w", err)
	}

	bucketName := s.cfg.External.S3.BucketName
	for _, image := range current.Images {
		if name := s.s3.GetObjectNameFromURL(bucketName, image); name != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, name)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetHotel, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete hotel from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllHotel)
		shared.InvalidateCaches(c, s.cache, cacheCountHotel)
	}()

	return nil
}
