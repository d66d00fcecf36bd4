package report

import (
	"sort"
	"time"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/domain/entity"
)

// DayGroup holds the items published on one Jalali civil day.
type DayGroup struct {
	Day   string             `json:"day"`
	Items []*entity.NewsItem `json:"items"`
}

// AgencyGroup holds the items of one agency.
type AgencyGroup struct {
	Agency string             `json:"agency"`
	Items  []*entity.NewsItem `json:"items"`
}

// GroupByDay buckets items by the Jalali day of PublishedAt in loc.
// Days are ordered newest first; items keep their input order within a day.
func GroupByDay(items []*entity.NewsItem, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = defaultLocation()
	}
	index := make(map[string]int)
	var groups []DayGroup
	for _, it := range items {
		key := calendar.Key(it.PublishedAt, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Day: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	// YYYY-MM-DD はゼロ埋めなので文字列比較で日付順になる
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Day > groups[b].Day
	})
	return groups
}

// GroupByAgency buckets items by agency in first-appearance order.
func GroupByAgency(items []*entity.NewsItem) []AgencyGroup {
	index := make(map[string]int)
	var groups []AgencyGroup
	for _, it := range items {
		i, ok := index[it.Agency]
		if !ok {
			i = len(groups)
			index[it.Agency] = i
			groups = append(groups, AgencyGroup{Agency: it.Agency})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// CountByAgency counts items per agency.
func CountByAgency(items []*entity.NewsItem) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[it.Agency]++
	}
	return out
}

func defaultLocation() *time.Location {
	loc, err := calendar.LoadLocation(calendar.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
