package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/domain"
)

type Config struct {
	DefaultRole   string
	TokenTTL      time.Duration
	OAuthStateTTL time.Duration
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the outward shape of a user; password hash and delegated tokens
// never leave the service.
type UserView struct {
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	CalendarLinked bool      `json:"calendar_linked"`
	CreatedAt      time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	User      UserView `json:"user"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskView is the outward shape of a task.
type TaskView struct {
	TaskID          uuid.UUID  `json:"task_id"`
	UserID          uuid.UUID  `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	DueDate         *time.Time `json:"due_date"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type TaskListResponse struct {
	Tasks []TaskView `json:"tasks"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// TaskInsights is the heuristic analysis produced for a single task.
type TaskInsights struct {
	TaskID               uuid.UUID `json:"task_id"`
	EstimatedEffort      string    `json:"estimated_effort"`
	SimilarTaskPatterns  []string  `json:"similar_task_patterns"`
	CompletionPrediction string    `json:"completion_prediction"`
	AnalyzedAt           time.Time `json:"analyzed_at"`
}

type GoogleLoginStart struct {
	AuthorizeURL string `json:"authorize_url"`
	State        string `json:"state"`
}

// ToTaskView converts a domain task to its transport shape.
func ToTaskView(t domain.Task) TaskView {
	return TaskView{
		TaskID:          t.TaskID,
		UserID:          t.UserID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		DueDate:         t.DueDate,
		CalendarEventID: t.CalendarEventID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toUserView(u domain.User) UserView {
	return UserView{
		UserID:         u.UserID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		CalendarLinked: u.GoogleLinked(),
		CreatedAt:      u.CreatedAt,
	}
}
