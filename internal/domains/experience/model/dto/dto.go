package dto

import (
	"fmt"
	"mime/multipart"
	"time"

	"ghumakad/internal/domains/experience/model"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	gModel "ghumakad/shared/model"
	"ghumakad/shared/timezone"

	"github.com/google/uuid"
)

// AvailabilityFilter narrows an experience search to experiences with enough guest
// capacity left on the requested date. Zero value means no filter.
type AvailabilityFilter struct {
	Date   time.Time
	Guests int
}

func (a *AvailabilityFilter) Active() bool {
	return !a.Date.IsZero() && a.Guests > 0
}

func (a *AvailabilityFilter) CacheSuffix() string {
	if !a.Active() {
		return constant.Empty
	}

	return fmt.Sprintf(":avail:%s:%d", a.Date.Format(constant.DateOnlyFormat), a.Guests)
}

type CreateExperienceRequest struct {
	Title        string                  `json:"title"          validate:"required,max=150"`
	Category     string                  `json:"category"       validate:"required,max=100"`
	Location     string                  `json:"location"       validate:"required,max=150"`
	State        string                  `json:"state"          validate:"omitempty,max=100"`
	Description  string                  `json:"description"    validate:"omitempty,max=2000"`
	Duration     string                  `json:"duration"       validate:"omitempty,max=50"`
	PricePerHead int64                   `json:"price_per_head" validate:"required,min=0"`
	MaxGuests    int                     `json:"max_guests"     validate:"required,min=1"`
	AboutHost    string                  `json:"about_host"     validate:"omitempty,max=2000"`
	Highlights   []string                `json:"highlights"     validate:"omitempty,dive,max=100"`
	Images       []*multipart.FileHeader `json:"-"              validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles   []multipart.File        `json:"-"`
}

func (c *CreateExperienceRequest) ToModel(host string, imageURLs []string) model.Experience {
	return model.Experience{
		ID:           uuid.NewString(),
		HostID:       host,
		Title:        c.Title,
		Category:     c.Category,
		Location:     c.Location,
		State:        c.State,
		Description:  c.Description,
		Duration:     c.Duration,
		PricePerHead: c.PricePerHead,
		MaxGuests:    c.MaxGuests,
		Images:       imageURLs,
		AboutHost:    c.AboutHost,
		Highlights:   c.Highlights,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  host,
			ModifiedBy: host,
		},
	}
}

type UpdateExperienceRequest struct {
	Title        string                  `db:"title"          json:"title"          validate:"omitempty,max=150"`
	Category     string                  `db:"category"       json:"category"       validate:"omitempty,max=100"`
	Location     string                  `db:"location"       json:"location"       validate:"omitempty,max=150"`
	State        string                  `db:"state"          json:"state"          validate:"omitempty,max=100"`
	Description  string                  `db:"description"    json:"description"    validate:"omitempty,max=2000"`
	Duration     string                  `db:"duration"       json:"duration"       validate:"omitempty,max=50"`
	PricePerHead *int64                  `db:"price_per_head" json:"price_per_head" validate:"omitempty,min=0"`
	MaxGuests    *int                    `db:"max_guests"     json:"max_guests"     validate:"omitempty,min=1"`
	AboutHost    string                  `db:"about_host"     json:"about_host"     validate:"omitempty,max=2000"`
	Images       []*multipart.FileHeader `json:"-"             validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles   []multipart.File        `json:"-"`
}

type ExperienceResponse struct {
	ID           string   `json:"id"`
	HostID       string   `json:"host_id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	State        string   `json:"state"`
	Description  string   `json:"description"`
	Duration     string   `json:"duration"`
	PricePerHead int64    `json:"price_per_head"`
	MaxGuests    int      `json:"max_guests"`
	Images       []string `json:"images"`
	AboutHost    string   `json:"about_host"`
	Highlights   []string `json:"highlights"`
	Rating       float64  `json:"rating"`
	gDto.Metadata
}

func (r *ExperienceResponse) FromModel(model model.Experience) {
	r.ID = model.ID
	r.HostID = model.HostID
	r.Title = model.Title
	r.Category = model.Category
	r.Location = model.Location
	r.State = model.State
	r.Description = model.Description
	r.Duration = model.Duration
	r.PricePerHead = model.PricePerHead
	r.MaxGuests = model.MaxGuests
	r.Images = model.Images
	r.AboutHost = model.AboutHost
	r.Highlights = model.Highlights
	r.Rating = model.Rating
	r.Metadata.FromModel(model.Metadata)
}

type GetExperiencesResponse struct {
	Experiences []ExperienceResponse `json:"experiences"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetExperiencesResponse) FromModels(models []model.Experience, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Experiences = make([]ExperienceResponse, len(models))
	for i, mod := range models {
		r.Experiences[i].FromModel(mod)
	}
}
