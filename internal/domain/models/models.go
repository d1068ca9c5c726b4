package models

import "time"

type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TaskStatus struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Label struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Task references its status, assignee and labels by id. TaskStatusSlug is
// filled by the repository on read and by the service after resolving a status.
type Task struct {
	ID             int64
	Index          *int
	Title          string
	Content        string
	TaskStatusID   int64
	TaskStatusSlug string
	AssigneeID     *int64
	LabelIDs       []int64
	CreatedAt      time.Time
}

// Credentials is what the login flow needs to know about an account.
type Credentials struct {
	UserID       int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
