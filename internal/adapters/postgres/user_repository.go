package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/ports"
)

// UserRepository is the Postgres implementation of ports.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	m := userModel{
		UserID:             uuid.New(),
		Name:               params.Name,
		Email:              params.Email,
		PasswordHash:       params.PasswordHash,
		Role:               params.Role,
		GoogleAccessToken:  params.GoogleAccessToken,
		GoogleRefreshToken: params.GoogleRefreshToken,
		CreatedAt:          params.CreatedAtUTC,
		UpdatedAt:          params.CreatedAtUTC,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("query user by email: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("query user by id: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, toDomainUser(m))
	}
	return users, nil
}

// UpdateGoogleTokens writes the token pair in a single UPDATE. An empty
// refresh token skips that column, so a rotation response without a new
// refresh token never clobbers the stored one.
func (r *UserRepository) UpdateGoogleTokens(ctx context.Context, userID uuid.UUID, accessToken, refreshToken string, updatedAt time.Time) error {
	values := map[string]any{
		"google_access_token": accessToken,
		"updated_at":          updatedAt,
	}
	if refreshToken != "" {
		values["google_refresh_token"] = refreshToken
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("user_id = ?", userID).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update google tokens: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userModel{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
