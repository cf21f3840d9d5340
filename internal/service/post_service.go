package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

const (
	MsgPostNotFound     = "Post not found"
	MsgNotAuthorized    = "User not authorized"
	MsgPostRemoved      = "Post removed"
	MsgAlreadyLiked     = "Post already liked"
	MsgNotLiked         = "Post has not yet been liked"
	MsgCommentNotExists = "Comment does not exist"
)

type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

// CreatePost stores text under the author's current name and avatar.
func (s *PostService) CreatePost(ctx context.Context, userID, text string) (*models.Post, error) {
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID: author.ID,
		Text:   strings.TrimSpace(text),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// ListPosts returns the feed, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, postErr(err)
	}
	return post, nil
}

// DeletePost removes a post written by userID.
func (s *PostService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError(MsgNotAuthorized)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return postErr(err)
	}
	return nil
}

func (s *PostService) Like(ctx context.Context, userID, postID string) ([]models.Like, error) {
	likes, err := s.posts.AddLike(ctx, postID, userID)
	if errors.Is(err, repository.ErrConflict) {
		return nil, models.NewConflictError(MsgAlreadyLiked)
	}
	if err != nil {
		return nil, postErr(err)
	}
	return likes, nil
}

func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]models.Like, error) {
	likes, err := s.posts.RemoveLike(ctx, postID, userID)
	if errors.Is(err, repository.ErrConflict) {
		return nil, models.NewConflictError(MsgNotLiked)
	}
	if err != nil {
		return nil, postErr(err)
	}
	return likes, nil
}

// AddComment prepends a comment carrying the commenter's name and avatar.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) ([]models.Comment, error) {
	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	comments, err := s.posts.AddComment(ctx, postID, models.Comment{
		UserID: author.ID,
		Text:   strings.TrimSpace(text),
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   time.Now().UTC(),
	})
	if err != nil {
		return nil, postErr(err)
	}
	return comments, nil
}

// DeleteComment removes the addressed comment if userID wrote it.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]models.Comment, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return nil, models.NewNotFoundError(MsgCommentNotExists)
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError(MsgNotAuthorized)
	}

	comments, err := s.posts.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return nil, postErr(err)
	}
	return comments, nil
}

func (s *PostService) author(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isMissing(err) {
			return nil, models.NewNotFoundError(MsgUserNotFound)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func postErr(err error) error {
	if isMissing(err) {
		return models.NewNotFoundError(MsgPostNotFound)
	}
	return models.NewInternalError(err)
}
