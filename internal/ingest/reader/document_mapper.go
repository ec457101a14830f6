package reader

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mygramdb/mygram-go/internal/domain"
)

// DocumentMapper converts CSV records into corpus documents. It expects the
// columns id, title, content, category, language, and published_at; id and
// title are required, the rest may be blank.
type DocumentMapper struct {
	dateFormats []string
}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{
		dateFormats: []string{
			time.RFC3339,
			"2006-01-02 15:04:05",
			"2006-01-02",
		},
	}
}

func (m *DocumentMapper) Map(record map[string]string) (domain.Document, error) {
	rawID := record["id"]
	if rawID == "" {
		return domain.Document{}, fmt.Errorf("record has no id")
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse id %q: %w", rawID, err)
	}

	title := record["title"]
	if title == "" {
		return domain.Document{}, fmt.Errorf("record %d has no title", id)
	}

	doc := domain.Document{
		ID:       id,
		Title:    title,
		Content:  record["content"],
		Category: record["category"],
		Language: record["language"],
	}
	if doc.Language == "" {
		doc.Language = domain.DocumentDefaultLanguage
	}

	if raw := record["published_at"]; raw != "" {
		ts, err := m.parseDate(raw)
		if err != nil {
			return domain.Document{}, fmt.Errorf("record %d: %w", id, err)
		}
		doc.PublishedAt = ts
	}

	return doc, nil
}

func (m *DocumentMapper) parseDate(raw string) (time.Time, error) {
	for _, layout := range m.dateFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
