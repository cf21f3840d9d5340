package repository

import (
	"context"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"gorm.io/gorm"
)

type userRepository struct {
	db      *gorm.DB
	metrics *observability.StoreMetrics
	log     *observability.RepoLogger
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("create", "users")()

	if user.ID == "" {
		user.ID = newID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translate(err)
		if err != ErrDuplicate {
			r.log.LogError(ctx, "create", err, nil)
		}
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_id", "users")()

	if err := checkID(id); err != nil {
		return nil, err
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_email", "users")()

	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Summaries(ctx context.Context, ids []string) (map[string]*models.UserSummary, error) {
	defer r.metrics.TrackQuery("summaries", "users")()

	out := make(map[string]*models.UserSummary, len(ids))
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if checkID(id) == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	defer r.metrics.TrackQuery("delete", "users")()

	if err := checkID(id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		r.log.LogError(ctx, "delete", err, map[string]any{"user_id": id})
		return translate(err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}
