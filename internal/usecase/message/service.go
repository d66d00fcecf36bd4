// Package message manages editor-written daily messages.
package message

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/repository"
)

// DefaultPriority is used when a message is created without one.
const DefaultPriority = 1

// CreateInput represents the input parameters for creating a daily message.
type CreateInput struct {
	Title    string
	Content  string
	Category string
	Priority *int
}

// Service provides daily message use cases.
type Service struct {
	Repo     repository.MessageRepository
	Location *time.Location
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	loc, _ := calendar.LoadLocation(calendar.DefaultTimezone)
	return loc
}

// Create validates and stores a message. Category defaults to
// entity.DefaultMessageCategory and priority to DefaultPriority.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.DailyMessage, error) {
	msg := &entity.DailyMessage{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		Category:  strings.TrimSpace(in.Category),
		Priority:  DefaultPriority,
		CreatedAt: s.now(),
	}
	if msg.Category == "" {
		msg.Category = entity.DefaultMessageCategory
	}
	if in.Priority != nil {
		msg.Priority = *in.Priority
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	id, err := s.Repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	msg.ID = id
	return msg, nil
}

// List returns messages of the category, or of every category when it is
// empty, ordered by priority then newest first.
func (s *Service) List(ctx context.Context, category string, limit int) ([]*entity.DailyMessage, error) {
	msgs, err := s.Repo.List(ctx, repository.MessageFilter{
		Category: strings.TrimSpace(category),
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// Today returns the messages created since the start of the current civil
// day.
func (s *Service) Today(ctx context.Context) ([]*entity.DailyMessage, error) {
	start, _ := calendar.Today(s.now(), s.location()).Range(s.location())
	msgs, err := s.Repo.List(ctx, repository.MessageFilter{Since: &start})
	if err != nil {
		return nil, fmt.Errorf("list today's messages: %w", err)
	}
	return msgs, nil
}

// Delete removes a message.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
