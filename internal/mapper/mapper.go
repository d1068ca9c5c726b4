// Package mapper converts between entities and their request/response shapes.
// Relation fields (task status, assignee, labels) are resolved by the services
// and never touched here.
package mapper

import (
	"slices"

	"taskmanager/internal/domain/models"
	"taskmanager/internal/domain/store"
)

func ToUserResponse(u models.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []models.User) []models.UserResponse {
	out := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// NewUser copies the plain fields; the password is hashed by the caller.
func NewUser(req models.UserCreateRequest) models.User {
	u := models.User{Email: req.Email}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	return u
}

// ApplyUserUpdate overwrites only the fields present in req. Password is
// left to the caller since it needs hashing.
func ApplyUserUpdate(req models.UserUpdateRequest, u *models.User) {
	if req.Email.Present() {
		u.Email = req.Email.Value
	}
	if req.FirstName.Present() {
		u.FirstName = req.FirstName.Value
	}
	if req.LastName.Present() {
		u.LastName = req.LastName.Value
	}
}

func ToTaskStatusResponse(s models.TaskStatus) models.TaskStatusResponse {
	return models.TaskStatusResponse{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		CreatedAt: s.CreatedAt,
	}
}

func ToTaskStatusResponses(statuses []models.TaskStatus) []models.TaskStatusResponse {
	out := make([]models.TaskStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, ToTaskStatusResponse(s))
	}
	return out
}

func NewTaskStatus(req models.TaskStatusCreateRequest) models.TaskStatus {
	return models.TaskStatus{
		Name: req.Name,
		Slug: req.Slug,
	}
}

func ApplyTaskStatusUpdate(req models.TaskStatusUpdateRequest, s *models.TaskStatus) {
	if req.Name.Present() {
		s.Name = req.Name.Value
	}
	if req.Slug.Present() {
		s.Slug = req.Slug.Value
	}
}

func ToLabelResponse(l models.Label) models.LabelResponse {
	return models.LabelResponse{
		ID:        l.ID,
		Name:      l.Name,
		CreatedAt: l.CreatedAt,
	}
}

func ToLabelResponses(labels []models.Label) []models.LabelResponse {
	out := make([]models.LabelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, ToLabelResponse(l))
	}
	return out
}

func NewLabel(req models.LabelCreateRequest) models.Label {
	return models.Label{Name: req.Name}
}

func ApplyLabelUpdate(req models.LabelUpdateRequest, l *models.Label) {
	if req.Name.Present() {
		l.Name = req.Name.Value
	}
}

// ToTaskResponse exposes the status by slug and the labels as a sorted id set.
func ToTaskResponse(t models.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:           t.ID,
		Index:        t.Index,
		CreatedAt:    t.CreatedAt,
		AssigneeID:   t.AssigneeID,
		Title:        t.Title,
		Content:      t.Content,
		Status:       t.TaskStatusSlug,
		TaskLabelIDs: LabelIDSet(t.LabelIDs),
	}
}

func ToTaskResponses(tasks []models.Task) []models.TaskResponse {
	out := make([]models.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskResponse(t))
	}
	return out
}

// NewTask ignores status, assignee and labels.
func NewTask(req models.TaskCreateRequest) models.Task {
	return models.Task{
		Index:   req.Index,
		Title:   req.Title,
		Content: req.Content,
	}
}

// ApplyTaskUpdate handles the scalar fields. Explicit nulls clear index and content.
func ApplyTaskUpdate(req models.TaskUpdateRequest, t *models.Task) {
	if req.Index.Set {
		if req.Index.Null {
			t.Index = nil
		} else {
			idx := req.Index.Value
			t.Index = &idx
		}
	}
	if req.Title.Present() {
		t.Title = req.Title.Value
	}
	if req.Content.Set {
		t.Content = req.Content.Value
	}
}

// LabelIDSet returns the ids sorted and without duplicates. It never returns nil
// so the JSON output is always an array.
func LabelIDSet(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// ToTaskFilter turns the list query string into a storage filter.
func ToTaskFilter(q models.TaskFilterQuery) store.TaskFilter {
	return store.TaskFilter{
		TitleCont:  q.TitleCont,
		AssigneeID: q.AssigneeID,
		StatusSlug: q.Status,
		LabelID:    q.LabelID,
	}
}
