package models

import "time"

// Post is a feed entry. Name and Avatar are copied from the author when the
// post is created and never refreshed.
type Post struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	UserID   string    `gorm:"index;not null;type:varchar(36)" json:"user"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `gorm:"serializer:json;type:text" json:"likes"`
	Comments []Comment `gorm:"serializer:json;type:text" json:"comments"`
	Date     time.Time `gorm:"index" json:"date"`
}

// Like records that a user liked a post.
type Like struct {
	ID     string `json:"_id"`
	UserID string `json:"user"`
}

// Comment is a reply on a post with the commenter's snapshot.
type Comment struct {
	ID     string    `json:"_id"`
	UserID string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// LikedBy reports whether userID already liked p.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with id, or nil.
func (p *Post) FindComment(id string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}
	}
	return nil
}

// WithoutLikeBy returns likes minus the entry owned by userID.
func WithoutLikeBy(likes []Like, userID string) []Like {
	out := make([]Like, 0, len(likes))
	for _, l := range likes {
		if l.UserID != userID {
			out = append(out, l)
		}
	}
	return out
}

// WithoutComment returns comments minus the entry with id.
func WithoutComment(comments []Comment, id string) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// Normalize replaces nil lists so they serialize as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}
