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

type TaskStatusService struct {
	store    store.Store
	validate *validator.Validate
}

func NewTaskStatusService(st store.Store, v *validator.Validate) *TaskStatusService {
	return &TaskStatusService{store: st, validate: v}
}

func (s *TaskStatusService) List(ctx context.Context) ([]models.TaskStatusResponse, error) {
	statuses, err := s.store.TaskStatuses().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToTaskStatusResponses(statuses), nil
}

func (s *TaskStatusService) Get(ctx context.Context, id int64) (*models.TaskStatusResponse, error) {
	st, err := s.store.TaskStatuses().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errors.ErrTaskStatusNotFound, nil, nil)
	}
	resp := mapper.ToTaskStatusResponse(*st)
	return &resp, nil
}

// checkStatusUnique rejects a slug or name already used by another status.
func checkStatusUnique(ctx context.Context, repo store.TaskStatusRepository, slug, name string) error {
	if slug != "" {
		taken, err := repo.ExistsBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrStatusSlugTaken
		}
	}
	if name != "" {
		taken, err := repo.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrStatusNameTaken
		}
	}
	return nil
}

func (s *TaskStatusService) Create(ctx context.Context, req models.TaskStatusCreateRequest) (*models.TaskStatusResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	st := mapper.NewTaskStatus(req)
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		if err := checkStatusUnique(ctx, tx.TaskStatuses(), st.Slug, st.Name); err != nil {
			return err
		}
		return storeErr(tx.TaskStatuses().Save(ctx, &st), nil, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task status created", "task_status_id", st.ID, "slug", st.Slug)
	resp := mapper.ToTaskStatusResponse(st)
	return &resp, nil
}

func (s *TaskStatusService) Update(ctx context.Context, id int64, req models.TaskStatusUpdateRequest) (*models.TaskStatusResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	var st *models.TaskStatus
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		var err error
		st, err = tx.TaskStatuses().FindByID(ctx, id)
		if err != nil {
			return storeErr(err, errors.ErrTaskStatusNotFound, nil, nil)
		}

		var slug, name string
		if req.Slug.Present() && req.Slug.Value != st.Slug {
			slug = req.Slug.Value
		}
		if req.Name.Present() && req.Name.Value != st.Name {
			name = req.Name.Value
		}
		if err := checkStatusUnique(ctx, tx.TaskStatuses(), slug, name); err != nil {
			return err
		}

		mapper.ApplyTaskStatusUpdate(req, st)
		return storeErr(tx.TaskStatuses().Save(ctx, st), errors.ErrTaskStatusNotFound, nil, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task status updated", "task_status_id", id)
	resp := mapper.ToTaskStatusResponse(*st)
	return &resp, nil
}

// Delete refuses to remove a status that tasks still point at.
func (s *TaskStatusService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		found, err := tx.TaskStatuses().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrTaskStatusNotFound
		}

		used, err := tx.Tasks().ExistsByTaskStatusID(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return errors.ErrStatusHasTasks
		}
		return storeErr(tx.TaskStatuses().DeleteByID(ctx, id), nil, nil, errors.ErrStatusHasTasks)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("task status deleted", "task_status_id", id)
	return nil
}
