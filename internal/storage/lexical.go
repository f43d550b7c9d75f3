package storage

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/docfusion/docfusion/internal/index"
)

// LexicalStore implements index.LexicalIndex over the lexical_chunks
// table and its FTS5 mirror. BM25 ranks (negative, lower is better) are
// mapped to positive higher-is-better scores before they leave this
// package.
type LexicalStore struct {
	store *Store
}

var _ index.LexicalIndex = (*LexicalStore)(nil)

func (l *LexicalStore) CreateCollection(ctx context.Context, name string) error {
	return l.store.createCollection(ctx, name)
}

// Add upserts records by (collection, chunk_id) inside one transaction.
// Keywords are stored space-joined so FTS tokenizes them individually.
func (l *LexicalStore) Add(ctx context.Context, collection string, records []index.LexicalRecord) error {
	if err := l.store.requireCollection(ctx, collection); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO lexical_chunks (collection, chunk_id, content, keywords, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, chunk_id) DO UPDATE SET
			content = excluded.content,
			keywords = excluded.keywords,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	for _, rec := range records {
		meta, err := marshalMetadata(rec.Metadata)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query,
			collection, rec.ChunkID, rec.Text,
			strings.Join(rec.Keywords, " "), meta, now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert lexical chunk %s: %w", rec.ChunkID, err)
		}
	}

	return tx.Commit()
}

// Search runs an FTS5 match over chunk text and keywords. An empty or
// fully-sanitized query returns no hits rather than an error.
func (l *LexicalStore) Search(ctx context.Context, collection string, query string, limit int) ([]index.LexicalHit, error) {
	if err := l.store.requireCollection(ctx, collection); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []index.LexicalHit{}, nil
	}

	sanitized := sanitizeFTSQuery(query)
	if sanitized == "" {
		return []index.LexicalHit{}, nil
	}

	rows, err := l.store.db.QueryContext(ctx, `
		SELECT c.chunk_id, c.content, c.metadata, bm25(lexical_fts) AS score
		FROM lexical_fts
		INNER JOIN lexical_chunks c ON lexical_fts.rowid = c.id
		WHERE lexical_fts MATCH ?
		AND c.collection = ?
		ORDER BY score
		LIMIT ?
	`, sanitized, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits := make([]index.LexicalHit, 0, limit)
	for rows.Next() {
		var chunkID, content, metaJSON string
		var bm25 float64
		if err := rows.Scan(&chunkID, &content, &metaJSON, &bm25); err != nil {
			return nil, err
		}

		meta, err := unmarshalMetadata(metaJSON)
		if err != nil {
			return nil, err
		}

		hits = append(hits, index.LexicalHit{
			ChunkID:  chunkID,
			Text:     content,
			Metadata: meta,
			// BM25 ranks are negative with more negative being better;
			// map into a positive score that grows with match strength.
			Score: math.Abs(bm25) / (50.0 + math.Abs(bm25)),
		})
	}

	return hits, rows.Err()
}

func (l *LexicalStore) DeleteCollection(ctx context.Context, name string) error {
	_, err := l.store.db.ExecContext(ctx, "DELETE FROM lexical_chunks WHERE collection = ?", name)
	return err
}

func (l *LexicalStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := l.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lexical_chunks WHERE collection = ?", collection).Scan(&n)
	return n, err
}

// parenPattern gives parentheses their own tokens before splitting.
var parenPattern = strings.NewReplacer("(", " ( ", ")", " ) ")

// sanitizeFTSQuery sanitizes a search query for FTS5 to prevent
// injection. Bare terms are quoted, which neutralizes AND/NOT/NEAR and
// column filters; OR and grouping parentheses pass through so that
// expanded queries like `(ai OR artificial intelligence)` keep their
// meaning.
func sanitizeFTSQuery(query string) string {
	fields := strings.Fields(parenPattern.Replace(query))

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "(", ")", "OR":
			out = append(out, f)
		default:
			t := strings.Trim(f, `"*:^-`)
			if t == "" {
				continue
			}
			out = append(out, `"`+t+`"`)
		}
	}

	return strings.Join(out, " ")
}
