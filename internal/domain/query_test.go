package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"middle page", 2, 10, 25, 3, true, true},
		{"first page", 1, 10, 25, 3, true, false},
		{"last page", 3, 10, 25, 3, false, true},
		{"exact fit", 1, 5, 5, 1, false, false},
		{"empty", 1, 10, 0, 0, false, false},
		{"past the end", 5, 10, 25, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNextPage)
			assert.Equal(t, tt.hasPrev, p.HasPrevPage)
			assert.Equal(t, tt.hasNext, p.NextPage != nil)
			assert.Equal(t, tt.hasPrev, p.PrevPage != nil)
		})
	}

	p := domain.NewPagination(2, 10, 25)
	require.NotNil(t, p.NextPage)
	require.NotNil(t, p.PrevPage)
	assert.Equal(t, 3, *p.NextPage)
	assert.Equal(t, 1, *p.PrevPage)
}

func TestParseDateBound(t *testing.T) {
	loc, err := domain.LoadLocation("")
	require.NoError(t, err)

	start, err := domain.ParseDateBound("2025-03-10", loc, false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), start)

	end, err := domain.ParseDateBound("2025-03-10", loc, true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 999999999, loc), end)

	exact, err := domain.ParseDateBound("2025-03-10T08:00:00Z", loc, true)
	require.NoError(t, err)
	assert.True(t, exact.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))

	_, err = domain.ParseDateBound("10/03/2025", loc, false)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestFormatDisplay(t *testing.T) {
	loc, err := domain.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	ts := time.Date(2025, 1, 2, 7, 4, 5, 0, time.UTC)
	assert.Equal(t, "1/2/2025, 3:04:05 PM", domain.FormatDisplay(ts, loc))
}

func TestError_Kinds(t *testing.T) {
	cause := errors.New("connection refused")
	err := domain.WrapPersistence("failed to save chat log", cause)

	assert.True(t, errors.Is(err, domain.ErrPersistence))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to save chat log", domain.Message(err))

	nf := domain.NewNotFoundError("chat log")
	assert.True(t, errors.Is(nf, domain.ErrNotFound))
	assert.Equal(t, "chat log not found", nf.Error())
}
