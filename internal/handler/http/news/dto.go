package news

import (
	"time"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/report"
)

// DTO is the wire form of a news item.
type DTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Agency      string    `json:"agency"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"published_at"`
}

// DayDTO is one Jalali day of items.
type DayDTO struct {
	Day   string `json:"day"`
	Items []DTO  `json:"items"`
}

// AgencyDTO is one agency's items of a day.
type AgencyDTO struct {
	Agency string `json:"agency"`
	Count  int    `json:"count"`
	Items  []DTO  `json:"items"`
}

// DayReportDTO is the body of GET /news/days?day=.
type DayReportDTO struct {
	Day      string      `json:"day"`
	Long     string      `json:"long"`
	Total    int         `json:"total"`
	Items    []DTO       `json:"items"`
	Agencies []AgencyDTO `json:"agencies"`
}

// ToDTO converts a news item.
func ToDTO(it *entity.NewsItem) DTO {
	return DTO{
		ID:          it.ID,
		Title:       it.Title,
		URL:         it.URL,
		Agency:      it.Agency,
		Summary:     it.Summary,
		PublishedAt: it.PublishedAt,
	}
}

// ToDTOs converts items, never returning nil.
func ToDTOs(items []*entity.NewsItem) []DTO {
	out := make([]DTO, 0, len(items))
	for _, it := range items {
		out = append(out, ToDTO(it))
	}
	return out
}

func dayReportDTO(r *report.DayReport) DayReportDTO {
	agencies := make([]AgencyDTO, 0, len(r.Agencies))
	for _, g := range r.Agencies {
		agencies = append(agencies, AgencyDTO{Agency: g.Agency, Count: len(g.Items), Items: ToDTOs(g.Items)})
	}
	return DayReportDTO{
		Day:      r.Day,
		Long:     r.Long,
		Total:    len(r.Items),
		Items:    ToDTOs(r.Items),
		Agencies: agencies,
	}
}

func dayDTOs(groups []report.DayGroup) []DayDTO {
	out := make([]DayDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, DayDTO{Day: g.Day, Items: ToDTOs(g.Items)})
	}
	return out
}
