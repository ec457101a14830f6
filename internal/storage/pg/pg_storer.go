package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mygramdb/mygram-go/internal/domain"
)

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {

	return &Storer{db: pool.conn}, nil
}

func (s *Storer) Save(ctx context.Context, doc domain.Document) (int64, error) {
	if doc.Language == "" {
		doc.Language = domain.DocumentDefaultLanguage
	}
	if doc.PublishedAt.IsZero() {
		doc.PublishedAt = time.Now()
	}

	cmd := `
        INSERT INTO documents (id, title, content, category, language, published_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE
            SET title = EXCLUDED.title,
                content = EXCLUDED.content,
                category = EXCLUDED.category,
                language = EXCLUDED.language,
                published_at = EXCLUDED.published_at
        RETURNING id;
    `
	var id int64
	err := s.db.QueryRow(
		ctx,
		cmd,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.Category,
		doc.Language,
		doc.PublishedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	return id, nil
}

func (s *Storer) SaveBulk(ctx context.Context, docs []domain.Document) error {
	rows := make([][]interface{}, len(docs))
	now := time.Now()

	for i, d := range docs {
		if d.Language == "" {
			d.Language = domain.DocumentDefaultLanguage
		}
		if d.PublishedAt.IsZero() {
			d.PublishedAt = now
		}

		rows[i] = []interface{}{
			d.ID,
			d.Title,
			d.Content,
			d.Category,
			d.Language,
			d.PublishedAt,
		}
	}

	_, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"documents"},
		[]string{"id", "title", "content", "category", "language", "published_at"},
		pgx.CopyFromRows(rows),
	)

	if err != nil {
		return fmt.Errorf("failed to bulk insert documents: %w", err)
	}
	return nil
}
