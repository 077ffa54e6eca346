package models

import "time"

// Manga is a catalog entry. The catalog is global and read-only from the
// API's perspective; rows are created by the seed routine or import tooling.
type Manga struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"coverUrl"`
	Author      string    `json:"author,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	Status      string    `json:"status"` // "Ongoing", "Completed", "Hiatus"
	Genres      []string  `json:"genres"`
	Source      string    `json:"source"` // origin label, e.g. "Local", "Mangadex"
	Rating      string    `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MangaWithChapters is the detail-view shape: a manga plus its chapters in
// the order the reader presents them.
type MangaWithChapters struct {
	Manga
	Chapters []Chapter `json:"chapters"`
}
