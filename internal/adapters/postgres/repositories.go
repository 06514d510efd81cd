package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskpilot/taskpilot/internal/ports"
)

// Repositories bundles the Postgres-backed implementations of the
// persistence ports over a single shared connection pool.
type Repositories struct {
	Users ports.UserRepository
	Tasks ports.TaskRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users: &UserRepository{db: db},
		Tasks: &TaskRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
