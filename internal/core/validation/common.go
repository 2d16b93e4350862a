package validation

import "github.com/asistoya/shared-services/internal/core/apperr"

const (
	defaultPage  = 1
	defaultLimit = 20
)

func pageDefaults(page, limit *int) {
	if *page == 0 {
		*page = defaultPage
	}
	if *limit == 0 {
		*limit = defaultLimit
	}
}

type Pagination struct {
	Page      int    `json:"page" validate:"gte=1"`
	Limit     int    `json:"limit" validate:"gte=1,lte=100"`
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder" validate:"oneof=asc desc"`
}

func (p *Pagination) ApplyDefaults() {
	pageDefaults(&p.Page, &p.Limit)
	if p.SortOrder == "" {
		p.SortOrder = "asc"
	}
}

// Offset returns the number of rows to skip for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

type IDParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type CodeParams struct {
	Code string `json:"code" validate:"required"`
}

type SearchParams struct {
	Q      string `json:"q,omitempty"`
	Search string `json:"search,omitempty"`
}

// Term returns whichever search field was supplied, preferring q.
func (s SearchParams) Term() string {
	if s.Q != "" {
		return s.Q
	}
	return s.Search
}

type DateRange struct {
	StartDate string `json:"startDate" validate:"required,ymd"`
	EndDate   string `json:"endDate" validate:"required,ymd"`
}

type Coordinates struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// Phone checks a free-form phone number.
func Phone(field, value string) error {
	return checkVar(field, value, "required,phone")
}

// URL checks an absolute URL.
func URL(field, value string) error {
	return checkVar(field, value, "required,url")
}

// NonEmpty rejects an empty string.
func NonEmpty(field, value string) error {
	if value == "" {
		return apperr.Validation(field, "This field cannot be empty")
	}
	return nil
}

func checkVar(field string, value any, tag string) error {
	if err := instance().Var(value, tag); err != nil {
		if fe, ok := firstFieldError(err); ok {
			msg := message(fe)
			if fe.Tag() == "required" {
				msg = field + " is required"
			}
			return apperr.Validation(field, msg)
		}
		return err
	}
	return nil
}
