package models

import "time"

type Chapter struct {
	ID            int64      `json:"id"`
	MangaID       int64      `json:"mangaId"`
	Title         string     `json:"title,omitempty"`
	ChapterNumber string     `json:"chapterNumber"` // text to support "10.5"
	Volume        string     `json:"volume,omitempty"`
	PublishDate   *time.Time `json:"publishDate,omitempty"`
	URL           string     `json:"url,omitempty"`
	PageCount     int        `json:"pageCount"`
	CreatedAt     time.Time  `json:"createdAt"`
}
