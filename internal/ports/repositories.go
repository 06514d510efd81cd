package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
)

// CreateUserParams captures the fields persisted for a new identity.
// PasswordHash is empty for accounts created through federated sign-in.
type CreateUserParams struct {
	Name               string
	Email              string
	PasswordHash       string
	Role               string
	GoogleAccessToken  string
	GoogleRefreshToken string
	CreatedAtUTC       time.Time
}

// UserRepository defines persistence operations for user identities.
// UpdateGoogleTokens writes access and refresh token in one statement so a
// concurrent reader never observes a half-written pair; an empty refresh token
// leaves the stored refresh token unchanged.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateGoogleTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, updatedAt time.Time) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// CreateTaskParams captures atomic task-creation inputs.
type CreateTaskParams struct {
	UserID          uuid.UUID
	Title           string
	Description     string
	Status          string
	DueDate         *time.Time
	CalendarEventID string
	CreatedAtUTC    time.Time
}

// TaskUpdate carries partial task mutations; nil fields are left untouched.
type TaskUpdate struct {
	Title           *string
	Description     *string
	Status          *string
	DueDate         *time.Time
	CalendarEventID *string
}

// TaskPage is one page of a task listing plus the unpaged total.
type TaskPage struct {
	Tasks []domain.Task
	Total int64
	Page  int
	Limit int
}

// TaskRepository manages user-owned task records. Ownership checks are not
// applied here; the application layer's policy guard decides access before
// any repository mutation runs.
type TaskRepository interface {
	Create(ctx context.Context, params CreateTaskParams) (domain.Task, error)
	GetByID(ctx context.Context, taskID uuid.UUID) (domain.Task, error)
	ListAll(ctx context.Context, page, limit int) (TaskPage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (TaskPage, error)
	Update(ctx context.Context, taskID uuid.UUID, update TaskUpdate, updatedAt time.Time) (domain.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}
