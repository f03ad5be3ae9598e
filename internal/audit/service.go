package audit

import (
	"context"
	"log/slog"
)

const (
	defaultPageSize = 50
	maxPageSize     = 50
)

// Page is one slice of the timeline plus the cursor for the next one.
type Page struct {
	Events     []Event `json:"events"`
	NextCursor int64   `json:"next_cursor,omitempty"`
	HasNext    bool    `json:"has_next"`
}

// Service serves the audit timeline.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Timeline returns one page of events. It fetches one row past the page
// size to learn whether more events remain.
func (s *Service) Timeline(ctx context.Context, filter Filter, cursor int64, pageSize int) (Page, error) {
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	events, err := s.repo.List(ctx, filter, cursor, pageSize+1)
	if err != nil {
		return Page{}, err
	}
	page := Page{Events: events}
	if len(events) > pageSize {
		page.Events = events[:pageSize]
		page.HasNext = true
		page.NextCursor = page.Events[pageSize-1].ID
	}
	return page, nil
}
