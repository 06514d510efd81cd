package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
)

type userModel struct {
	UserID             uuid.UUID `gorm:"column:user_id;primaryKey"`
	Name               string    `gorm:"column:name"`
	Email              string    `gorm:"column:email"`
	PasswordHash       string    `gorm:"column:password_hash"`
	Role               string    `gorm:"column:role"`
	GoogleAccessToken  string    `gorm:"column:google_access_token"`
	GoogleRefreshToken string    `gorm:"column:google_refresh_token"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type taskModel struct {
	TaskID          uuid.UUID  `gorm:"column:task_id;primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id"`
	Title           string     `gorm:"column:title"`
	Description     string     `gorm:"column:description"`
	Status          string     `gorm:"column:status"`
	DueDate         *time.Time `gorm:"column:due_date"`
	CalendarEventID string     `gorm:"column:calendar_event_id"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (taskModel) TableName() string { return "tasks" }

func toDomainUser(m userModel) domain.User {
	return domain.User{
		UserID:             m.UserID,
		Name:               m.Name,
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		Role:               m.Role,
		GoogleAccessToken:  m.GoogleAccessToken,
		GoogleRefreshToken: m.GoogleRefreshToken,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDomainTask(m taskModel) domain.Task {
	return domain.Task{
		TaskID:          m.TaskID,
		UserID:          m.UserID,
		Title:           m.Title,
		Description:     m.Description,
		Status:          m.Status,
		DueDate:         m.DueDate,
		CalendarEventID: m.CalendarEventID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
