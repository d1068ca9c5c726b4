package service

import (
	"context"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"
	"taskmanager/internal/mapper"

	"github.com/go-playground/validator"
)

type TaskService struct {
	store    store.Store
	validate *validator.Validate
}

func NewTaskService(st store.Store, v *validator.Validate) *TaskService {
	return &TaskService{store: st, validate: v}
}

// List returns the tasks matching every set field of filter.
func (s *TaskService) List(ctx context.Context, filter store.TaskFilter) ([]models.TaskResponse, error) {
	tasks, err := s.store.Tasks().FindAllMatching(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapper.ToTaskResponses(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.TaskResponse, error) {
	t, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errors.ErrTaskNotFound, nil, nil)
	}
	resp := mapper.ToTaskResponse(*t)
	return &resp, nil
}

func (s *TaskService) Create(ctx context.Context, req models.TaskCreateRequest) (*models.TaskResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	t := mapper.NewTask(req)
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		if err := resolveStatus(ctx, tx, &t, req.Status); err != nil {
			return err
		}
		if err := resolveAssignee(ctx, tx, &t, req.AssigneeID); err != nil {
			return err
		}
		if err := resolveLabels(ctx, tx, &t, req.TaskLabelIDs); err != nil {
			return err
		}
		return storeErr(tx.Tasks().Save(ctx, &t), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task created", "task_id", t.ID, "status", t.TaskStatusSlug)
	resp := mapper.ToTaskResponse(t)
	return &resp, nil
}

// Update applies the present fields. A sent taskLabelIds replaces the whole
// label set, and null assignee_id or taskLabelIds clears the relation.
func (s *TaskService) Update(ctx context.Context, id int64, req models.TaskUpdateRequest) (*models.TaskResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	var t *models.Task
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		var err error
		t, err = tx.Tasks().FindByID(ctx, id)
		if err != nil {
			return storeErr(err, errors.ErrTaskNotFound, nil, nil)
		}

		mapper.ApplyTaskUpdate(req, t)

		if req.Status.Present() {
			if err := resolveStatus(ctx, tx, t, req.Status.Value); err != nil {
				return err
			}
		}
		if req.AssigneeID.Set {
			var assignee *int64
			if !req.AssigneeID.Null {
				assignee = &req.AssigneeID.Value
			}
			if err := resolveAssignee(ctx, tx, t, assignee); err != nil {
				return err
			}
		}
		if req.TaskLabelIDs.Set {
			if err := resolveLabels(ctx, tx, t, req.TaskLabelIDs.Value); err != nil {
				return err
			}
		}
		return storeErr(tx.Tasks().Save(ctx, t), errors.ErrTaskNotFound, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task updated", "task_id", id)
	resp := mapper.ToTaskResponse(*t)
	return &resp, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		found, err := tx.Tasks().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrTaskNotFound
		}
		return tx.Tasks().DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("task deleted", "task_id", id)
	return nil
}

func resolveStatus(ctx context.Context, tx store.Repositories, t *models.Task, slug string) error {
	st, err := tx.TaskStatuses().FindBySlug(ctx, slug)
	if err != nil {
		return storeErr(err, errors.ErrTaskStatusNotFound, nil, nil)
	}
	t.TaskStatusID = st.ID
	t.TaskStatusSlug = st.Slug
	return nil
}

func resolveAssignee(ctx context.Context, tx store.Repositories, t *models.Task, id *int64) error {
	if id == nil {
		t.AssigneeID = nil
		return nil
	}
	found, err := tx.Users().ExistsByID(ctx, *id)
	if err != nil {
		return err
	}
	if !found {
		return errors.ErrUserNotFound
	}
	assignee := *id
	t.AssigneeID = &assignee
	return nil
}

// resolveLabels checks every id and installs the set as the task's labels.
func resolveLabels(ctx context.Context, tx store.Repositories, t *models.Task, ids []int64) error {
	set := mapper.LabelIDSet(ids)
	for _, id := range set {
		found, err := tx.Labels().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrLabelNotFound
		}
	}
	t.LabelIDs = set
	return nil
}
