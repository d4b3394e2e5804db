package permits

import (
	"waterpermits/internal/domain"
	"waterpermits/internal/repository"
)

type ListPermitsQuery struct {
	Search       string `form:"search" json:"search,omitempty"`
	Municipality string `form:"municipality" json:"municipality,omitempty"`
	Type         string `form:"type" json:"type,omitempty"`
	Purpose      string `form:"purpose" json:"purpose,omitempty"`
	Source       string `form:"source" json:"source,omitempty"`
	Remarks      string `form:"remarks" json:"remarks,omitempty"`
	Sort         string `form:"sort" json:"sort,omitempty"`
	Direction    string `form:"direction" json:"direction,omitempty"`
	// paging is parsed leniently in the handler; a garbage value becomes
	// zero and the repository applies its defaults
	PerPage int `form:"-" json:"per_page,omitempty"`
	Page    int `form:"-" json:"page,omitempty"`
}

func (q ListPermitsQuery) Filters() repository.PermitFilters {
	return repository.PermitFilters{
		Search:       q.Search,
		Municipality: q.Municipality,
		Type:         q.Type,
		Purpose:      q.Purpose,
		Source:       q.Source,
		Remarks:      q.Remarks,
		Sort:         q.Sort,
		Direction:    q.Direction,
		PerPage:      q.PerPage,
		Page:         q.Page,
	}
}

type ListResult struct {
	Permits *repository.PermitPage    `json:"permits"`
	Options *repository.FilterOptions `json:"options"`
	Filters ListPermitsQuery          `json:"filters"`
}

// UpdatePermitRequest is the scalar part of a permit update. Every field is
// optional; nil means "leave the column alone". The validate tags carry the
// legacy column limits.
type UpdatePermitRequest struct {
	Region       *string `form:"region" validate:"omitempty,max=50"`
	Province     *string `form:"province" validate:"omitempty,max=50"`
	Municipality *string `form:"municipality" validate:"omitempty,max=50"`
	Permit       *string `form:"permit" validate:"omitempty,max=10"`
	Grantee      *string `form:"grantee" validate:"omitempty,max=255"`
	Location     *string `form:"location"`
	Source       *string `form:"source" validate:"omitempty,max=20"`
	Type         *string `form:"type" validate:"omitempty,max=20"`
	Latitude     *string `form:"latitude" validate:"omitempty,max=25"`
	Longitude    *string `form:"longitude" validate:"omitempty,max=25"`
	Charges      *string `form:"charges" validate:"omitempty,numeric"`
	Granted      *string `form:"granted" validate:"omitempty,numeric"`
	Purpose      *string `form:"purpose" validate:"omitempty,max=30"`
	DateApp      *string `form:"date_app" validate:"omitempty,max=25"`
	Remarks      *string `form:"remarks"`
}

// columns maps the provided fields to their column names. Monetary amounts
// are normalized before they get here.
func (r UpdatePermitRequest) columns() map[string]any {
	fields := map[string]any{}
	put := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	put("region", r.Region)
	put("province", r.Province)
	put("municipality", r.Municipality)
	put("permit", r.Permit)
	put("grantee", r.Grantee)
	put("location", r.Location)
	put("source", r.Source)
	put("type", r.Type)
	put("latitude", r.Latitude)
	put("longitude", r.Longitude)
	put("charges", r.Charges)
	put("granted", r.Granted)
	put("purpose", r.Purpose)
	put("date_app", r.DateApp)
	put("remarks", r.Remarks)
	return fields
}

// PhotoView is what the detail endpoint exposes per attachment.
type PhotoView struct {
	ID           int64            `json:"id"`
	Kind         domain.PhotoKind `json:"type"`
	OriginalName string           `json:"original_name"`
	URL          string           `json:"url"`
}

type PermitDetail struct {
	Permit *domain.Permit `json:"permit"`
	Photos []PhotoView    `json:"photos"`
}
