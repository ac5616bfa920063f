package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	auth   *AuthService
	images *ImageService
	conn   *ConnectionService
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, auth *AuthService, images *ImageService, conn *ConnectionService, logger *zap.Logger) *UserService {
	return &UserService{db: db, auth: auth, images: images, conn: conn, logger: logger.Named("user")}
}

// Register creates a user after password validation. Duplicate email or
// username is reported on the offending field.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	localPart, _, _ := strings.Cut(email, "@")

	if problems := validatePassword(req.Password,
		passwordAttribute{"username", req.Username},
		passwordAttribute{"first name", req.FirstName},
		passwordAttribute{"last name", req.LastName},
		passwordAttribute{"email address", localPart},
	); len(problems) > 0 {
		return nil, &types.ValidationError{Fields: map[string][]string{"password": problems}}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Omit("Recipes").Create(user).Error; err != nil {
		if v, ok := database.AsConstraintViolation(err); ok {
			switch {
			case v.Matches(models.UniqueUserEmail):
				return nil, types.FieldError("email", "A user with that email already exists.")
			case v.Matches(models.UniqueUserUsername):
				return nil, types.FieldError("username", "A user with that username already exists.")
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Get loads a user with is_subscribed computed for viewer.
func (s *UserService) Get(ctx context.Context, id uint, viewer *uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(models.UserFlags(viewer)).
		Where("users.id = ?", id).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, viewer *uint, offset, limit int) ([]models.User, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(models.UserFlags(viewer)).
		Order("users.id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, count, nil
}

func (s *UserService) SetPassword(ctx context.Context, userID uint, req *types.SetPasswordRequest) error {
	user, err := s.Get(ctx, userID, nil)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user, req.CurrentPassword) {
		return types.FieldError("current_password", "Invalid password.")
	}

	localPart, _, _ := strings.Cut(user.Email, "@")
	if problems := validatePassword(req.NewPassword,
		passwordAttribute{"username", user.Username},
		passwordAttribute{"first name", user.FirstName},
		passwordAttribute{"last name", user.LastName},
		passwordAttribute{"email address", localPart},
	); len(problems) > 0 {
		return &types.ValidationError{Fields: map[string][]string{"new_password": problems}}
	}

	hash, err := s.auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetAvatar stores a new avatar and removes the previous one.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, dataURI string) (*models.User, error) {
	user, err := s.Get(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	key, err := s.images.Save(ctx, AvatarPrefix, "avatar", dataURI)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", key).Error; err != nil {
		s.images.Delete(ctx, key)
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	s.images.Delete(ctx, user.Avatar)

	user.Avatar = key
	return user, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.Get(ctx, userID, nil)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", "").Error; err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	s.images.Delete(ctx, user.Avatar)
	return nil
}

// Subscriptions lists the authors viewer follows, each with recipes_count
// and its recipes newest first.
func (s *UserService) Subscriptions(ctx context.Context, viewer uint, offset, limit int) ([]models.User, int64, error) {
	followed := models.SubscribedExpr(&viewer)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where(followed).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var users []models.User
	err := s.authorsWithRecipes(ctx, &viewer).
		Where(followed).
		Order("users.id").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return users, count, nil
}

// Subscribe makes viewer follow target and returns the target as listed in
// subscriptions.
func (s *UserService) Subscribe(ctx context.Context, viewer, target uint) (*models.User, error) {
	if _, err := s.Get(ctx, target, nil); err != nil {
		return nil, err
	}
	if err := s.conn.Link(ctx, &models.Subscription{SubscriberID: viewer, TargetID: target}); err != nil {
		return nil, err
	}

	var user models.User
	err := s.authorsWithRecipes(ctx, &viewer).Where("users.id = ?", target).Take(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribed author: %w", err)
	}
	return &user, nil
}

func (s *UserService) Unsubscribe(ctx context.Context, viewer, target uint) error {
	if _, err := s.Get(ctx, target, nil); err != nil {
		return err
	}
	return s.conn.Unlink(ctx, &models.Subscription{}, map[string]interface{}{
		"subscriber_id": viewer,
		"target_id":     target,
	})
}

func (s *UserService) authorsWithRecipes(ctx context.Context, viewer *uint) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Scopes(models.Annotate("users", models.IsSubscribed(viewer), models.RecipesCount())).
		Preload("Recipes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipes.created_at DESC, recipes.id DESC")
		})
}
