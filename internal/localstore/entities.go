package localstore

import "time"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// stored as submitted, the local store is not a security boundary
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

type Blog struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	AuthorID   string     `json:"authorId"`
	AuthorName string     `json:"authorName"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type Comment struct {
	ID        string     `json:"id"`
	BlogID    string     `json:"blogId"`
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
