package service

import (
	"context"
	"strings"
	"testing"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelServiceCreate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want struct {
			err *errors.Error
		}
	}{
		{name: "valid", in: "feature"},
		{name: "too short", in: "ab", want: struct{ err *errors.Error }{errors.ErrValidationFailed}},
		{name: "too long", in: strings.Repeat("a", 1001), want: struct{ err *errors.Error }{errors.ErrValidationFailed}},
		{name: "duplicate", in: "bug", want: struct{ err *errors.Error }{errors.ErrLabelNameTaken}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServices(t)
			mustLabel(t, s, "bug")

			got, err := s.Labels.Create(context.Background(), models.LabelCreateRequest{Name: tt.in})
			if tt.want.err != nil {
				requireCode(t, err, tt.want.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, got.Name)
		})
	}
}

func TestLabelServiceUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServices(t)
	bug := mustLabel(t, s, "bug")
	mustLabel(t, s, "feature")
	mustStatus(t, s, "draft")

	_, err := s.Labels.Update(ctx, bug.ID, models.LabelUpdateRequest{Name: models.Some("feature")})
	requireCode(t, err, errors.ErrLabelNameTaken)

	got, err := s.Labels.Update(ctx, bug.ID, models.LabelUpdateRequest{Name: models.Some("defect")})
	require.NoError(t, err)
	assert.Equal(t, "defect", got.Name)

	task, err := s.Tasks.Create(ctx, models.TaskCreateRequest{Title: "t", Status: "draft", TaskLabelIDs: []int64{bug.ID}})
	require.NoError(t, err)

	requireCode(t, s.Labels.Delete(ctx, bug.ID), errors.ErrLabelHasTasks)

	_, err = s.Tasks.Update(ctx, task.ID, models.TaskUpdateRequest{TaskLabelIDs: models.Some([]int64{})})
	require.NoError(t, err)
	require.NoError(t, s.Labels.Delete(ctx, bug.ID))
	requireCode(t, s.Labels.Delete(ctx, bug.ID), errors.ErrLabelNotFound)
}
