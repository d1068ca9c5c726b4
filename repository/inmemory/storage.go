// Package storage is a map-backed implementation of the store contracts. It
// enforces the same uniqueness and reference rules as the SQL schema.
package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"
)

type data struct {
	users    map[int64]models.User
	statuses map[int64]models.TaskStatus
	labels   map[int64]models.Label
	tasks    map[int64]models.Task

	lastUserID, lastStatusID, lastLabelID, lastTaskID int64
}

func newData() *data {
	return &data{
		users:    make(map[int64]models.User),
		statuses: make(map[int64]models.TaskStatus),
		labels:   make(map[int64]models.Label),
		tasks:    make(map[int64]models.Task),
	}
}

func (d *data) clone() *data {
	c := *d
	c.users = make(map[int64]models.User, len(d.users))
	for id, u := range d.users {
		c.users[id] = u
	}
	c.statuses = make(map[int64]models.TaskStatus, len(d.statuses))
	for id, s := range d.statuses {
		c.statuses[id] = s
	}
	c.labels = make(map[int64]models.Label, len(d.labels))
	for id, l := range d.labels {
		c.labels[id] = l
	}
	c.tasks = make(map[int64]models.Task, len(d.tasks))
	for id, t := range d.tasks {
		c.tasks[id] = copyTask(t)
	}
	return &c
}

func copyTask(t models.Task) models.Task {
	if t.Index != nil {
		i := *t.Index
		t.Index = &i
	}
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		t.AssigneeID = &a
	}
	t.LabelIDs = slices.Clone(t.LabelIDs)
	if t.LabelIDs == nil {
		t.LabelIDs = []int64{}
	}
	return t
}

type Storage struct {
	mu   sync.RWMutex
	data *data
	repos
}

var _ store.Store = (*Storage)(nil)

func NewStorage() *Storage {
	s := &Storage{data: newData()}
	s.repos = repos{s: s}
	return s
}

func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) Close() error { return nil }

// WithinTx runs fn under the write lock. The state is restored from a snapshot
// when fn fails or panics. Repositories outside tx must not be used from fn.
func (s *Storage) WithinTx(ctx context.Context, fn func(tx store.Repositories) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			logger.FromContext(ctx).Error("rolled back transaction after panic", "panic", p)
			panic(p)
		}
	}()

	if err := fn(repos{s: s, inTx: true}); err != nil {
		s.data = snapshot
		logger.FromContext(ctx).Debug("rolled back transaction", "error", err)
		return err
	}
	return nil
}

type repos struct {
	s    *Storage
	inTx bool
}

func (r repos) Users() store.UserRepository               { return &userRepo{r} }
func (r repos) TaskStatuses() store.TaskStatusRepository { return &taskStatusRepo{r} }
func (r repos) Labels() store.LabelRepository             { return &labelRepo{r} }
func (r repos) Tasks() store.TaskRepository               { return &taskRepo{r} }

// read and write take the lock unless a transaction already holds it.
func (r repos) read() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.RLock()
	return r.s.mu.RUnlock
}

func (r repos) write() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r repos) d() *data { return r.s.data }

func now() time.Time { return time.Now().UTC() }

// sortedValues returns the map values ordered by id.
func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(m))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
