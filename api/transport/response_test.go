package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rew4n/smart-task-resource-manager/domain"
)

func TestNewTaskDTO(t *testing.T) {
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	t.Run("optional fields present", func(t *testing.T) {
		dto := NewTaskDTO(domain.Task{
			ID:          4,
			Title:       "write report",
			Description: "quarterly numbers",
			DueDate:     &due,
			CreatedAt:   created,
		})

		require.NotNil(t, dto.DueDate)
		assert.Equal(t, "2024-03-15", *dto.DueDate)
		require.NotNil(t, dto.Description)
		assert.Equal(t, "quarterly numbers", *dto.Description)
		assert.Equal(t, "2024-03-01T10:30:00Z", dto.CreatedAt)
	})

	t.Run("optional fields serialize as null", func(t *testing.T) {
		dto := NewTaskDTO(domain.Task{ID: 4, Title: "bare", CreatedAt: created})

		payload, err := json.Marshal(dto)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"id": 4,
			"title": "bare",
			"description": null,
			"due_date": null,
			"done": false,
			"created_at": "2024-03-01T10:30:00Z"
		}`, string(payload))
	})
}

func TestNewTaskListResponseNeverNull(t *testing.T) {
	payload, err := json.Marshal(NewTaskListResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks": []}`, string(payload))
}
