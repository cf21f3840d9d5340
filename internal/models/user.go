// Package models defines the domain types shared by every store driver.
package models

import "time"

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID       string    `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `json:"date"`
}

// UserSummary is the slice of a user joined into profile responses.
type UserSummary struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Summary returns the public name and avatar of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
