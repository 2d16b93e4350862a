package validation

type ReportDateRange struct {
	StartDate string `json:"startDate" validate:"required,ymd"`
	EndDate   string `json:"endDate" validate:"required,ymd"`
}

type ReportFilters struct {
	Grade       string   `json:"grade,omitempty"`
	Section     string   `json:"section,omitempty"`
	CourseCode  string   `json:"courseCode,omitempty"`
	StudentCode string   `json:"studentCode,omitempty"`
	Status      []string `json:"status,omitempty" validate:"omitempty,dive,oneof=present late absent excused"`
}

type GenerateReportRequest struct {
	Type          string          `json:"type" validate:"required,oneof=daily weekly monthly custom"`
	SchoolID      string          `json:"schoolId" validate:"required,uuid"`
	DateRange     ReportDateRange `json:"dateRange"`
	Filters       *ReportFilters  `json:"filters,omitempty"`
	Format        string          `json:"format" validate:"oneof=pdf excel csv"`
	IncludeCharts *bool           `json:"includeCharts"`
}

func (r *GenerateReportRequest) ApplyDefaults() {
	if r.Format == "" {
		r.Format = "pdf"
	}
	if r.IncludeCharts == nil {
		t := true
		r.IncludeCharts = &t
	}
}

type ExportDataRequest struct {
	Entity    string           `json:"entity" validate:"required,oneof=students teachers courses attendance"`
	SchoolID  string           `json:"schoolId" validate:"required,uuid"`
	Format    string           `json:"format" validate:"oneof=csv excel json"`
	DateRange *ReportDateRange `json:"dateRange,omitempty"`
}

func (r *ExportDataRequest) ApplyDefaults() {
	if r.Format == "" {
		r.Format = "csv"
	}
}
