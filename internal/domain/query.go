package domain

import "time"

// ChatRequest is the body of a chat call
type ChatRequest struct {
	Messages    []Turn `json:"messages" validate:"required,min=1,dive"`
	Personality string `json:"personality,omitempty"`
}

// ChatReply is the result of a chat call
type ChatReply struct {
	Message   string    `json:"message"`
	Device    Device    `json:"-"`
	Timestamp string    `json:"-"`
	CreatedAt time.Time `json:"-"`
	Logged    bool      `json:"-"`
}

// ListParams are the dashboard list query parameters. Both bounds are
// capped at MaxInt32 so the row offset cannot overflow.
type ListParams struct {
	Page   int `validate:"min=1,max=2147483647"`
	Limit  int `validate:"min=1,max=2147483647"`
	Filter ChatLogFilter
}

// Pagination describes a page of results
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

// NewPagination computes page metadata for a total count
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	p := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// LogPage is one page of conversation logs
type LogPage struct {
	Logs       []ConversationLog
	Pagination Pagination
}

// DateRange is the analytics window in display form
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// AnalyticsReport is an analytics summary with its window
type AnalyticsReport struct {
	DateRange DateRange
	Analytics *Analytics
}
