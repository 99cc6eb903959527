package queue

import (
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJob(t *testing.T) {
	req := model.PlacementRequest{
		Items:      []model.Item{{ID: "A", Width: 1, Depth: 1, Height: 1}},
		Containers: []model.Container{{ID: "C1", Zone: "Z1", Width: 5, Depth: 5, Height: 5}},
	}

	job := NewJob(req)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, req, job.Request)
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)
	assert.Nil(t, job.Result)
}

func TestNewJob_UniqueIDs(t *testing.T) {
	a := NewJob(model.PlacementRequest{})
	b := NewJob(model.PlacementRequest{})
	require.NotEqual(t, a.ID, b.ID)
}

func TestJobKey(t *testing.T) {
	assert.Equal(t, "cargostow:job:abc", JobKey("abc"))
}

func TestFinalStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, FinalStatus(model.EngineOutput{Success: true}))
	assert.Equal(t, StatusFailed, FinalStatus(model.EngineOutput{Success: false, FailedItemIDs: []string{"A"}}))
}
