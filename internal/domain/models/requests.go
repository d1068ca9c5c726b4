package models

import "time"

type UserCreateRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  string  `json:"password" validate:"required,min=3"`
}

// Names may be omitted, but when sent they must not be empty.
func (r UserCreateRequest) optionalRules() []optionalRule {
	return []optionalRule{
		{field: "firstName", present: r.FirstName != nil, value: deref(r.FirstName), tag: "min=1"},
		{field: "lastName", present: r.LastName != nil, value: deref(r.LastName), tag: "min=1"},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type UserUpdateRequest struct {
	Email     Optional[string] `json:"email,omitzero"`
	FirstName Optional[string] `json:"firstName,omitzero"`
	LastName  Optional[string] `json:"lastName,omitzero"`
	Password  Optional[string] `json:"password,omitzero"`
}

func (r UserUpdateRequest) optionalRules() []optionalRule {
	return []optionalRule{
		{field: "email", present: r.Email.Present(), value: r.Email.Value, tag: "required,email"},
		{field: "firstName", present: r.FirstName.Present(), value: r.FirstName.Value, tag: "min=1"},
		{field: "lastName", present: r.LastName.Present(), value: r.LastName.Value, tag: "min=1"},
		{field: "password", present: r.Password.Present(), value: r.Password.Value, tag: "min=3"},
	}
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type TaskStatusCreateRequest struct {
	Name string `json:"name" validate:"required,notblank"`
	Slug string `json:"slug" validate:"required,notblank"`
}

type TaskStatusUpdateRequest struct {
	Name Optional[string] `json:"name,omitzero"`
	Slug Optional[string] `json:"slug,omitzero"`
}

func (r TaskStatusUpdateRequest) optionalRules() []optionalRule {
	return []optionalRule{
		{field: "name", present: r.Name.Present(), value: r.Name.Value, tag: "notblank"},
		{field: "slug", present: r.Slug.Present(), value: r.Slug.Value, tag: "notblank"},
	}
}

type TaskStatusResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type LabelCreateRequest struct {
	Name string `json:"name" validate:"required,notblank,min=3,max=1000"`
}

type LabelUpdateRequest struct {
	Name Optional[string] `json:"name,omitzero"`
}

func (r LabelUpdateRequest) optionalRules() []optionalRule {
	return []optionalRule{
		{field: "name", present: r.Name.Present(), value: r.Name.Value, tag: "notblank,min=3,max=1000"},
	}
}

type LabelResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// indexRange keeps task indexes within a 32-bit column.
const indexRange = "min=-2147483648,max=2147483647"

type TaskCreateRequest struct {
	Index        *int    `json:"index" validate:"omitempty,min=-2147483648,max=2147483647"`
	AssigneeID   *int64  `json:"assignee_id" validate:"omitempty,gt=0"`
	Title        string  `json:"title" validate:"required,notblank"`
	Content      string  `json:"content"`
	Status       string  `json:"status" validate:"required,notblank"`
	TaskLabelIDs []int64 `json:"taskLabelIds"`
}

// TaskUpdateRequest: a present taskLabelIds (even empty) replaces the label set,
// an explicit null assignee_id unassigns the task.
type TaskUpdateRequest struct {
	Index        Optional[int]     `json:"index,omitzero"`
	AssigneeID   Optional[int64]   `json:"assignee_id,omitzero"`
	Title        Optional[string]  `json:"title,omitzero"`
	Content      Optional[string]  `json:"content,omitzero"`
	Status       Optional[string]  `json:"status,omitzero"`
	TaskLabelIDs Optional[[]int64] `json:"taskLabelIds,omitzero"`
}

func (r TaskUpdateRequest) optionalRules() []optionalRule {
	return []optionalRule{
		{field: "index", present: r.Index.Present(), value: r.Index.Value, tag: indexRange},
		{field: "assignee_id", present: r.AssigneeID.Present(), value: r.AssigneeID.Value, tag: "gt=0"},
		{field: "title", present: r.Title.Present(), value: r.Title.Value, tag: "notblank"},
		{field: "status", present: r.Status.Present(), value: r.Status.Value, tag: "notblank"},
	}
}

type TaskResponse struct {
	ID           int64     `json:"id"`
	Index        *int      `json:"index"`
	CreatedAt    time.Time `json:"createdAt"`
	AssigneeID   *int64    `json:"assignee_id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Status       string    `json:"status"`
	TaskLabelIDs []int64   `json:"taskLabelIds"`
}

// TaskFilterQuery is bound from the task list query string.
type TaskFilterQuery struct {
	TitleCont  string `form:"titleCont"`
	AssigneeID *int64 `form:"assigneeId"`
	Status     string `form:"status"`
	LabelID    *int64 `form:"labelId"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
