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

type LabelService struct {
	store    store.Store
	validate *validator.Validate
}

func NewLabelService(st store.Store, v *validator.Validate) *LabelService {
	return &LabelService{store: st, validate: v}
}

func (s *LabelService) List(ctx context.Context) ([]models.LabelResponse, error) {
	labels, err := s.store.Labels().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToLabelResponses(labels), nil
}

func (s *LabelService) Get(ctx context.Context, id int64) (*models.LabelResponse, error) {
	l, err := s.store.Labels().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, errors.ErrLabelNotFound, nil, nil)
	}
	resp := mapper.ToLabelResponse(*l)
	return &resp, nil
}

func (s *LabelService) Create(ctx context.Context, req models.LabelCreateRequest) (*models.LabelResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	l := mapper.NewLabel(req)
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		taken, err := tx.Labels().ExistsByName(ctx, l.Name)
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrLabelNameTaken
		}
		return storeErr(tx.Labels().Save(ctx, &l), nil, errors.ErrLabelNameTaken, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("label created", "label_id", l.ID)
	resp := mapper.ToLabelResponse(l)
	return &resp, nil
}

func (s *LabelService) Update(ctx context.Context, id int64, req models.LabelUpdateRequest) (*models.LabelResponse, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	var l *models.Label
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		var err error
		l, err = tx.Labels().FindByID(ctx, id)
		if err != nil {
			return storeErr(err, errors.ErrLabelNotFound, nil, nil)
		}

		if req.Name.Present() && req.Name.Value != l.Name {
			taken, err := tx.Labels().ExistsByName(ctx, req.Name.Value)
			if err != nil {
				return err
			}
			if taken {
				return errors.ErrLabelNameTaken
			}
		}

		mapper.ApplyLabelUpdate(req, l)
		return storeErr(tx.Labels().Save(ctx, l), errors.ErrLabelNotFound, errors.ErrLabelNameTaken, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("label updated", "label_id", id)
	resp := mapper.ToLabelResponse(*l)
	return &resp, nil
}

// Delete refuses to remove a label attached to any task.
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx store.Repositories) error {
		found, err := tx.Labels().ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.ErrLabelNotFound
		}

		used, err := tx.Tasks().ExistsByLabelID(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return errors.ErrLabelHasTasks
		}
		return storeErr(tx.Labels().DeleteByID(ctx, id), nil, nil, errors.ErrLabelHasTasks)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("label deleted", "label_id", id)
	return nil
}
