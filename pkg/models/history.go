package models

import "time"

// HistoryEntry records a user's last-read page for one chapter. At most one
// row exists per (userId, mangaId, chapterId); a repeat read updates
// lastPage and readAt in place.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MangaID   int64     `json:"mangaId"`
	ChapterID int64     `json:"chapterId"`
	LastPage  int       `json:"lastPage"` // 1-based page index
	ReadAt    time.Time `json:"readAt"`

	Manga   *Manga   `json:"manga,omitempty"`
	Chapter *Chapter `json:"chapter,omitempty"`
}
