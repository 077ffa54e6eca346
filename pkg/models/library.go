package models

import "time"

// LibraryItem tracks one manga in one user's library. At most one row
// exists per (userId, mangaId); the library_items table enforces this.
type LibraryItem struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	MangaID     int64     `json:"mangaId"`
	CategoryID  *int64    `json:"categoryId,omitempty"`
	UnreadCount int       `json:"unreadCount"`
	CreatedAt   time.Time `json:"createdAt"`

	Manga *Manga `json:"manga,omitempty"`
}
