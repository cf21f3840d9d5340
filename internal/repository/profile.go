package repository

import (
	"context"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"gorm.io/gorm"
)

// profileColumns are the columns written by Update.
var profileColumns = []string{
	"company", "website", "location", "bio", "status", "github_username", "skills", "social",
}

type profileRepository struct {
	db      *gorm.DB
	metrics *observability.StoreMetrics
	log     *observability.RepoLogger
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	defer r.metrics.TrackQuery("get_by_user", "profiles")()

	if err := checkID(userID); err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	profile.Normalize()
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	defer r.metrics.TrackQuery("list", "profiles")()

	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Order("date desc").Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	for _, p := range profiles {
		p.Normalize()
	}
	return profiles, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer r.metrics.TrackQuery("create", "profiles")()

	if err := checkID(profile.UserID); err != nil {
		return err
	}
	if profile.ID == "" {
		profile.ID = newID()
	}
	profile.Normalize()

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		err = translate(err)
		if err != ErrDuplicate {
			r.log.LogError(ctx, "create", err, map[string]any{"user_id": profile.UserID})
		}
		return err
	}
	r.log.LogCreate(ctx, map[string]any{"profile_id": profile.ID, "user_id": profile.UserID})
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer r.metrics.TrackQuery("update", "profiles")()

	if err := checkID(profile.ID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(profile).Select(profileColumns).Updates(profile)
	if res.Error != nil {
		r.log.LogError(ctx, "update", res.Error, map[string]any{"profile_id": profile.ID})
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.log.LogUpdate(ctx, map[string]any{"profile_id": profile.ID})
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	defer r.metrics.TrackQuery("delete", "profiles")()

	if err := checkID(userID); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
		r.log.LogError(ctx, "delete", err, map[string]any{"user_id": userID})
		return translate(err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": userID})
	return nil
}

func (r *profileRepository) AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	if exp.ID == "" {
		exp.ID = newID()
	}
	return r.mutateLists(ctx, "add_experience", userID, func(p *models.Profile) {
		p.Experience = models.PrependExperience(p.Experience, exp)
	})
}

func (r *profileRepository) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return r.mutateLists(ctx, "remove_experience", userID, func(p *models.Profile) {
		p.Experience = models.RemoveExperience(p.Experience, expID)
	})
}

func (r *profileRepository) AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	if edu.ID == "" {
		edu.ID = newID()
	}
	return r.mutateLists(ctx, "add_education", userID, func(p *models.Profile) {
		p.Education = models.PrependEducation(p.Education, edu)
	})
}

func (r *profileRepository) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return r.mutateLists(ctx, "remove_education", userID, func(p *models.Profile) {
		p.Education = models.RemoveEducation(p.Education, eduID)
	})
}

// mutateLists applies fn to the caller's profile inside one transaction.
func (r *profileRepository) mutateLists(ctx context.Context, op, userID string, fn func(p *models.Profile)) (*models.Profile, error) {
	defer r.metrics.TrackQuery(op, "profiles")()

	if err := checkID(userID); err != nil {
		return nil, err
	}

	var profile models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return err
		}
		profile.Normalize()
		fn(&profile)
		return tx.Model(&profile).Select("experience", "education").Updates(&profile).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"profile_id": profile.ID, "change": op})
	return &profile, nil
}
