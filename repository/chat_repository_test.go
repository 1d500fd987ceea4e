package repository

import (
	"testing"
	"time"

	"github.com/Saqqqi/Food-Delivery-System-sub000/models"
	"github.com/stretchr/testify/assert"
)

func TestOldestFirstReversesNewestFirstPage(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// As returned by the query: newest first.
	page := []models.ChatMessage{
		{ID: 3, Body: "third", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, Body: "second", CreatedAt: base.Add(time.Minute)},
		{ID: 1, Body: "first", CreatedAt: base},
	}

	ordered := oldestFirst(page)
	assert.Equal(t, int64(1), ordered[0].ID)
	assert.Equal(t, int64(2), ordered[1].ID)
	assert.Equal(t, int64(3), ordered[2].ID)
	assert.True(t, ordered[0].CreatedAt.Before(ordered[2].CreatedAt))
}

func TestOldestFirstShortSlices(t *testing.T) {
	assert.Empty(t, oldestFirst(nil))

	one := []models.ChatMessage{{ID: 7}}
	assert.Equal(t, int64(7), oldestFirst(one)[0].ID)
}
