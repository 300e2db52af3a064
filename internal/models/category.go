package models

import "github.com/google/uuid"

type Category struct {
	ID   uuid.UUID
	Name string
}

// Category with its post count, used by the sidebar
type CategoryCount struct {
	Category
	PostCount int
}

// Latest posts of one category, used by the homepage
type CategoryPosts struct {
	Category Category
	Posts    []Post
}
