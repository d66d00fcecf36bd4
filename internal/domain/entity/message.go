package entity

import (
	"strings"
	"time"
)

// DefaultMessageCategory is used when a daily message has no category.
const DefaultMessageCategory = "عمومی"

// DailyMessage is an editor-written note shown next to the daily report.
// Higher Priority sorts first.
type DailyMessage struct {
	ID        int64
	Title     string
	Content   string
	Category  string
	Priority  int
	CreatedAt time.Time
}

// Validate validates the DailyMessage fields.
func (m *DailyMessage) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(m.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if m.Priority < 0 {
		return &ValidationError{Field: "priority", Message: "priority must be zero or greater"}
	}
	return nil
}
