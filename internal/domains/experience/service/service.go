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
	"ghumakad/internal/domains/experience/model"
	"ghumakad/internal/domains/experience/model/dto"
	"ghumakad/internal/domains/experience/repository"
	"ghumakad/internal/domains/listing"
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
	cacheGetExperience    = "experience:get"
	cacheGetAllExperience = "experience:gets"
	cacheCountExperience  = "experience:count"
)

type Experience interface {
	Create(ctx context.Context, req dto.CreateExperienceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (dto.GetExperiencesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ExperienceResponse, error)
	Update(ctx context.Context, req dto.UpdateExperienceRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Experience
	bookingRepo bookingRepository.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Experience, bookingRepo bookingRepository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Experience {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateExperienceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateExperience")
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

		shared.InvalidateCaches(c, s.cache, cacheGetAllExperience)
		shared.InvalidateCaches(c, s.cache, cacheCountExperience)
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
		log.Error().Err(err).Msg("failed to upload experience images to S3")
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

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, avail dto.AvailabilityFilter) (res dto.GetExperiencesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllExperiences")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllExperience, req, filter) + avail.CacheSuffix()

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for experiences")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count experiences")

		return res, fmt.Errorf("failed to count experiences: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get experiences")

		return res, fmt.Errorf("failed to get experiences: %w", err)
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
			log.Error().Err(err).Msg("failed to save experiences to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) filterAvailable(ctx context.Context, models []model.Experience, avail dto.AvailabilityFilter) ([]model.Experience, error) {
	available := make([]model.Experience, 0, len(models))

	for _, experience := range models {
		booked, err := s.bookingRepo.SumGuestsOn(ctx, listing.KindExperience, experience.ID, avail.Date)
		if err != nil {
			log.Error().Err(err).Str("experience", experience.ID).Msg("failed to check experience availability")

			return nil, fmt.Errorf("failed to check experience availability: %w", err)
		}

		if experience.MaxGuests-booked >= avail.Guests {
			available = append(available, experience)
		}
	}

	return available, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CountExperiences")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountExperience, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for experience count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count experiences")

		return res, fmt.Errorf("failed to count experiences: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save experience count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ExperienceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetExperience")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetExperience, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for experience")

		return res, nil
	}

	experience, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get experience")

		return res, fmt.Errorf("failed to get experience: %w", err)
	}

	if experience.ID == constant.Empty {
		return res, failure.NotFound("experience not found") // nolint:wrapcheck
	}

	res.FromModel(experience)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save experience to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateExperienceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateExperience")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check experience existence")

		return err
	}

	if current.ID == constant.Empty {
		log.Error().Msg("experience not found")

		return failure.NotFound("experience not found")
	}

	if current.HostID != host {
		return failure.Forbidden("experience does not belong to this host") // nolint:wrapcheck
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
		log.Error().Err(err).Msg("failed to update experience")
		s.deleteImages(ctx, uploaded)

		return fmt.Errorf("failed to update experience: %w", err)
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

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetExperience, current.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete experience cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllExperience)
		shared.InvalidateCaches(c, s.cache, cacheCountExperience)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteExperience")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check experience existence")

		return fmt.Errorf("failed to check experience existence: %w", err)
	}

	if current.ID == constant.Empty {
		log.Error().Msg("experience not found")

		return failure.NotFound("experience not found") // nolint:wrapcheck
	}

	if current.HostID != host {
		return failure.Forbidden("experience does not belong to this host") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete experience")

		return fmt.Errorf("failed to delete experience: %w", err)
	}

	bucketName := s.cfg.External.S3.BucketName
	for _, image := range current.Images {
		if name := s.s3.GetObjectNameFromURL(bucketName, image); name != constant.Empty {
			_ = s.s3.DeleteFile(ctx, bucketName, model.EntityName, name)
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetExperience, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete experience from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllExperience)
		shared.InvalidateCaches(c, s.cache, cacheCountExperience)
	}()

	return nil
}
