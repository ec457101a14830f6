package domain

import "time"

const DocumentDefaultLanguage = "english"

// Document is a corpus row mirrored into every search backend. ID is the
// primary key MygramDB reports for hits, so it doubles as the join key when
// comparing result lists across engines.
type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category,omitempty"`
	Language    string    `json:"language,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}
