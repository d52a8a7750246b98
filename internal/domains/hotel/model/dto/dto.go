package dto

import (
	"fmt"
	"mime/multipart"
	"time"

	"ghumakad/internal/domains/hotel/model"
	"ghumakad/shared"
	"ghumakad/shared/constant"
	gDto "ghumakad/shared/dto"
	gModel "ghumakad/shared/model"
	"ghumakad/shared/timezone"

	"github.com/google/uuid"
)

// AvailabilityFilter narrows a hotel search to hotels with enough rooms
// left over the requested range. Zero value means no availability filter.
type AvailabilityFilter struct {
	CheckIn  time.Time
	CheckOut time.Time
	Rooms    int
}

func (a *AvailabilityFilter) Active() bool {
	return !a.CheckIn.IsZero() && !a.CheckOut.IsZero() && a.Rooms > 0
}

func (a *AvailabilityFilter) CacheSuffix() string {
	if !a.Active() {
		return constant.Empty
	}

	return fmt.Sprintf(":avail:%s:%s:%d",
		a.CheckIn.Format(constant.DateOnlyFormat), a.CheckOut.Format(constant.DateOnlyFormat), a.Rooms)
}

type CreateHotelRequest struct {
	Title          string                  `json:"title"           validate:"required,max=150"`
	Description    string                  `json:"description"     validate:"omitempty,max=2000"`
	State          string                  `json:"state"           validate:"omitempty,max=100"`
	Area           string                  `json:"area"            validate:"omitempty,max=100"`
	Location       string                  `json:"location"        validate:"required,max=150"`
	Amenities      []string                `json:"amenities"       validate:"omitempty,dive,max=50"`
	PricePerNight  int64                   `json:"price_per_night" validate:"required,min=0"`
	AvailableRooms int                     `json:"available_rooms" validate:"required,min=1"`
	Images         []*multipart.FileHeader `json:"-"               validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles     []multipart.File        `json:"-"`
}

func (c *CreateHotelRequest) ToModel(host string, imageURLs []string) model.Hotel {
	return model.Hotel{
		ID:             uuid.NewString(),
		HostID:         host,
		Title:          c.Title,
		Description:    c.Description,
		State:          c.State,
		Area:           c.Area,
		Location:       c.Location,
		Images:         imageURLs,
		Amenities:      c.Amenities,
		PricePerNight:  c.PricePerNight,
		AvailableRooms: c.AvailableRooms,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  host,
			ModifiedBy: host,
		},
	}
}

type UpdateHotelRequest struct {
	Title          string                  `db:"title"           json:"title"           validate:"omitempty,max=150"`
	Description    string                  `db:"description"     json:"description"     validate:"omitempty,max=2000"`
	State          string                  `db:"state"           json:"state"           validate:"omitempty,max=100"`
	Area           string                  `db:"area"            json:"area"            validate:"omitempty,max=100"`
	Location       string                  `db:"location"        json:"location"        validate:"omitempty,max=150"`
	PricePerNight  *int64                  `db:"price_per_night" json:"price_per_night" validate:"omitempty,min=0"`
	AvailableRooms *int                    `db:"available_rooms" json:"available_rooms" validate:"omitempty,min=1"`
	Images         []*multipart.FileHeader `json:"-"             validate:"omitempty,dive,mimetypes=image/png image/jpg image/jpeg,maxfilesize=2"`
	ImageFiles     []multipart.File        `json:"-"`
}

type HotelResponse struct {
	ID             string   `json:"id"`
	HostID         string   `json:"host_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	State          string   `json:"state"`
	Area           string   `json:"area"`
	Location       string   `json:"location"`
	Images         []string `json:"images"`
	Amenities      []string `json:"amenities"`
	PricePerNight  int64    `json:"price_per_night"`
	AvailableRooms int      `json:"available_rooms"`
	Rating         float64  `json:"rating"`
	gDto.Metadata
}

func (r *HotelResponse) FromModel(model model.Hotel) {
	r.ID = model.ID
	r.HostID = model.HostID
	r.Title = model.Title
	r.Description = model.Description
	r.State = model.State
	r.Area = model.Area
	r.Location = model.Location
	r.Images = model.Images
	r.Amenities = model.Amenities
	r.PricePerNight = model.PricePerNight
	r.AvailableRooms = model.AvailableRooms
	r.Rating = model.Rating
	r.Metadata.FromModel(model.Metadata)
}

type GetHotelsResponse struct {
	Hotels    []HotelResponse `json:"hotels"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetHotelsResponse) FromModels(models []model.Hotel, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Hotels = make([]HotelResponse, len(models))
	for i, mod := range models {
		r.Hotels[i].FromModel(mod)
	}
}
