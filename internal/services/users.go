package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxNameLength = 255

// UserService keeps the identity registry in step with authenticated sessions.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Ensure records the actor, updating the role if the session reports a new one.
func (s *UserService) Ensure(ctx context.Context, actor models.Actor) (models.User, error) {
	if actor.ID == "" || !actor.Role.Valid() {
		return models.User{}, types.Validation("role", "parent|provider", "actor must have an id and a known role")
	}
	user := models.User{UserID: actor.ID, Name: strings.TrimSpace(actor.Name), Role: actor.Role}

	updates := []string{"role", "updated_at"}
	if user.Name != "" {
		updates = append(updates, "name")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&user).Error
	if err != nil {
		return models.User{}, fmt.Errorf("ensure user: %w", err)
	}
	return s.Get(ctx, actor.ID)
}

// Get returns a registered user.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, types.NotFound("user %s not found", id)
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// SetName changes the actor's display name. Existing connections keep the
// name captured when they were created.
func (s *UserService) SetName(ctx context.Context, actor models.Actor, name string) (models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return models.User{}, types.Validation("name", "1..255 characters", "name must be 1 to %d characters", maxNameLength)
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", actor.ID).
		Update("name", name)
	if result.Error != nil {
		return models.User{}, fmt.Errorf("set user name: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.User{}, types.NotFound("user %s not found", actor.ID)
	}
	return s.Get(ctx, actor.ID)
}

// Names returns display names for ids, falling back to the id itself.
func (s *UserService) Names(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("lookup user names: %w", err)
	}
	for _, id := range ids {
		names[id] = id
	}
	for _, u := range users {
		names[u.UserID] = u.DisplayName()
	}
	return names, nil
}
