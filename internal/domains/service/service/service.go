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
	"ghumakad/internal/domains/listing"
	"ghumakad/internal/domains/service/model"
	"ghumakad/internal/domains/service/model/dto"
	"ghumakad/internal/domains/service/repository"
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
	cacheGetService    = "service:get"
	cacheGetAllService = "service:gets"
	cacheCountService  = "service:count"
)

type Service interface {
	Create(ctx context.Context, req dto.CreateServiceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (dto.GetServicesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ServiceResponse, error)
	Update(ctx context.Context, req dto.UpdateServiceRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Service
	bookingRepo bookingRepository.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Service, bookingRepo bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Service {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateServiceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateService")
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

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return nil
}

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
		log.Error().Err(err).Msg("failed to upload service images to S3")
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

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (res dto.GetServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllService, req, filter) + avail.CacheSuffix()

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for services")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get services")

		return res, fmt.Errorf("failed to get services: %w", err)
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
			log.Error().Err(err).Msg("failed to save services to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) filterAvailable(ctx context.Context, models []model.Service, avail dto.AvailabilityFilter) ([]model.Service, error) {
	available := make([]model.Service, 0, len(models))

	for _, service := range models {
		booked, err := s.bookingRepo.SumGuestsOn(ctx, listing.KindService, service.ID, avail.Date)
		if err != nil {
			log.Error().Err(err).Str("service", service.ID).Msg("failed to check service availability")

			return nil, fmt.Errorf("failed to check service availability: %w", err)
		}

		if service.MaxGuests-booked >= avail.Guests {
			available = append(available, service)
		}
	}

	return available, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountServices")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountService, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count services")

		return res, fmt.Errorf("failed to count services: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetService")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetService, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	service, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get service")

		return res, fmt.Errorf("failed to get service: %w", err)
	}

	if service.ID == constant.Empty {
		return res, failure.NotFound("service not found") // nolint:wrapcheck
	}

	res.FromModel(service)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateServiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateService")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check service existence")

		return err
	}

	if current.ID == constant.Empty {
		log.Error().Msg("service not found")

		return failure.NotFound("service not found")
	}

	if current.HostID != host {
		return failure.Forbidden("service does not belong to this host") // nolint:wrapcheck
	}

	imageURLs, uploaded, err := s.uploadImages(ctx, req.Images, req.ImageFiles)
	if err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, host)
	if len(imageURLs) > 0 {
		updatedFields[model.FieldImages] = pq.StringArray(imageURLs)
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update service")
		s.deleteImages(ctx, uploaded)

		return fmt.Errorf("failed to update service: %w", err)
	}

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

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, current.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete service cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteService")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check service existence")

		return fmt.Errorf("failed to check service existence: %w", err)
	}

	if current.ID == constant.Empty {
		log.Error().Msg("service not found")

		return failure.NotFound("service not found") // nolint:wrapcheck
	}

	if current.HostID != host {
		return failure.Forbidden("service does not belong to this host") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete service")

		return fmt.Errorf("failed to delete service: %w", err)
	}

	bucketName := s.cfg.External.S3.BucketName
	for _, image := range current.Images {
		if name := s.s3.GetObjectNameFromURL(bucketName, image); name != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, name)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetService, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete service from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllService)
		shared.InvalidateCaches(c, s.cache, cacheCountService)
	}()

	return nil
}
