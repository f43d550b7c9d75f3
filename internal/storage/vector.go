package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/docfusion/docfusion/internal/index"
)

// VectorStore implements index.VectorIndex over the vector_chunks table.
// Queries scan the collection's embeddings and rank by cosine distance
// in Go, which keeps both SQLite drivers extension-free.
type VectorStore struct {
	store *Store
}

var _ index.VectorIndex = (*VectorStore)(nil)

func (v *VectorStore) CreateCollection(ctx context.Context, name string) error {
	return v.store.createCollection(ctx, name)
}

// Add upserts records by (collection, chunk_id) inside one transaction.
func (v *VectorStore) Add(ctx context.Context, collection string, records []index.VectorRecord) error {
	if err := v.store.requireCollection(ctx, collection); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO vector_chunks (collection, chunk_id, content, metadata, vector, dimension, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, chunk_id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			vector = excluded.vector,
			dimension = excluded.dimension,
			updated_at = excluded.updated_at
	`
	now := time.Now()
	for _, rec := range records {
		meta, err := marshalMetadata(rec.Metadata)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query,
			collection, rec.ChunkID, rec.Text, meta,
			serializeVector(rec.Vector), len(rec.Vector), now, now)
		if err != nil {
			return fmt.Errorf("failed to upsert vector chunk %s: %w", rec.ChunkID, err)
		}
	}

	return tx.Commit()
}

// Query scans the collection and returns the topK nearest chunks by
// cosine distance (1 - cosine similarity, lower is better). Rows whose
// stored dimension does not match the query vector are skipped.
func (v *VectorStore) Query(ctx context.Context, collection string, vector []float32, topK int) ([]index.VectorHit, error) {
	if err := v.store.requireCollection(ctx, collection); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []index.VectorHit{}, nil
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT chunk_id, content, metadata, vector
		FROM vector_chunks
		WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hits, err := scanVectorHits(rows, vector)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (v *VectorStore) DeleteCollection(ctx context.Context, name string) error {
	_, err := v.store.db.ExecContext(ctx, "DELETE FROM vector_chunks WHERE collection = ?", name)
	return err
}

func (v *VectorStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vector_chunks WHERE collection = ?", collection).Scan(&n)
	return n, err
}

// scanVectorHits computes cosine distances for every candidate row.
func scanVectorHits(rows *sql.Rows, queryVector []float32) ([]index.VectorHit, error) {
	hits := make([]index.VectorHit, 0, 256)

	for rows.Next() {
		var chunkID, content, metaJSON string
		var blob []byte
		if err := rows.Scan(&chunkID, &content, &metaJSON, &blob); err != nil {
			return nil, err
		}

		candidate := deserializeVector(blob)
		if len(candidate) != len(queryVector) {
			continue // dimension mismatch, skip
		}

		meta, err := unmarshalMetadata(metaJSON)
		if err != nil {
			return nil, err
		}

		hits = append(hits, index.VectorHit{
			ChunkID:  chunkID,
			Text:     content,
			Metadata: meta,
			Distance: 1.0 - cosineSimilarity(queryVector, candidate),
		})
	}

	return hits, rows.Err()
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SerializeVector is an exported helper for testing
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for testing
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}

// CosineSimilarity is an exported helper for testing
func CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}
