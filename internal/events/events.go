package events

import "time"

const (
	TypeLibraryUpdate = "library.update"
	TypeLibraryDelete = "library.delete"
	TypeHistoryUpdate = "history.update"
)

// LibraryEvent is broadcast after a library write succeeds.
type LibraryEvent struct {
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	ItemID      int64     `json:"item_id"`
	MangaID     int64     `json:"manga_id,omitempty"`
	UnreadCount int       `json:"unread_count,omitempty"`
	At          time.Time `json:"at"`
}

// HistoryEvent is broadcast after a reading-progress write succeeds.
type HistoryEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	MangaID   int64     `json:"manga_id"`
	ChapterID int64     `json:"chapter_id"`
	LastPage  int       `json:"last_page"`
	At        time.Time `json:"at"`
}
