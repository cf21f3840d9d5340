package repository

import (
	"context"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"gorm.io/gorm"
)

type postRepository struct {
	db      *gorm.DB
	metrics *observability.StoreMetrics
	log     *observability.RepoLogger
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer r.metrics.TrackQuery("create", "posts")()

	if post.ID == "" {
		post.ID = newID()
	}
	post.Normalize()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.LogError(ctx, "create", err, map[string]any{"user_id": post.UserID})
		return translate(err)
	}
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	defer r.metrics.TrackQuery("list", "posts")()

	var posts []*models.Post
	if err := r.db.WithContext(ctx).Order("date desc").Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	for _, p := range posts {
		p.Normalize()
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer r.metrics.TrackQuery("get_by_id", "posts")()

	if err := checkID(id); err != nil {
		return nil, err
	}
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	post.Normalize()
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	defer r.metrics.TrackQuery("delete", "posts")()

	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		r.log.LogError(ctx, "delete", res.Error, map[string]any{"post_id": id})
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.log.LogDelete(ctx, map[string]any{"post_id": id})
	return nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) ([]models.Like, error) {
	post, err := r.mutate(ctx, "add_like", postID, func(p *models.Post) error {
		if p.LikedBy(userID) {
			return ErrConflict
		}
		p.Likes = append([]models.Like{{ID: newID(), UserID: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) ([]models.Like, error) {
	post, err := r.mutate(ctx, "remove_like", postID, func(p *models.Post) error {
		if !p.LikedBy(userID) {
			return ErrConflict
		}
		p.Likes = models.WithoutLikeBy(p.Likes, userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (r *postRepository) AddComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error) {
	if comment.ID == "" {
		comment.ID = newID()
	}
	post, err := r.mutate(ctx, "add_comment", postID, func(p *models.Post) error {
		p.Comments = append([]models.Comment{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (r *postRepository) RemoveComment(ctx context.Context, postID, commentID string) ([]models.Comment, error) {
	post, err := r.mutate(ctx, "remove_comment", postID, func(p *models.Post) error {
		p.Comments = models.WithoutComment(p.Comments, commentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// mutate loads the post under a row lock, applies fn and writes both lists back.
func (r *postRepository) mutate(ctx context.Context, op, postID string, fn func(p *models.Post) error) (*models.Post, error) {
	defer r.metrics.TrackQuery(op, "posts")()

	if err := checkID(postID); err != nil {
		return nil, err
	}

	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&post, "id = ?", postID).Error; err != nil {
			return err
		}
		post.Normalize()
		if err := fn(&post); err != nil {
			return err
		}
		return tx.Model(&post).Select("likes", "comments").Updates(&post).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"post_id": post.ID, "change": op})
	return &post, nil
}
