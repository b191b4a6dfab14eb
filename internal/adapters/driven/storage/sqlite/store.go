package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsage/docsage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docsage/data/docsage.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docsage", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "docsage.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// EmbeddingStore returns an EmbeddingStore interface backed by this store.
func (s *Store) EmbeddingStore() driven.EmbeddingStore {
	return &embeddingStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_uri, title, content_hash, status, ingested_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_uri = excluded.source_uri,
			title = excluded.title,
			content_hash = excluded.content_hash,
			status = excluded.status,
			ingested_at = excluded.ingested_at,
			error = excluded.error
	`, doc.ID, doc.SourceURI, doc.Title, doc.ContentHash, string(doc.Status),
		formatNullableTime(doc.IngestedAt), nullString(doc.Error))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_uri, title, content_hash, status, ingested_at, error
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// GetDocumentBySourceURI retrieves a document by its source URI.
func (s *documentStore) GetDocumentBySourceURI(ctx context.Context, sourceURI string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source_uri, title, content_hash, status, ingested_at, error
		FROM documents WHERE source_uri = ?
	`, sourceURI)
	return scanDocument(row)
}

// ListDocuments returns all documents ordered by source URI.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source_uri, title, content_hash, status, ingested_at, error
		FROM documents ORDER BY source_uri
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var status string
		var ingestedAt, errMsg sql.NullString
		if err := rows.Scan(&doc.ID, &doc.SourceURI, &doc.Title, &doc.ContentHash,
			&status, &ingestedAt, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc.Status = domain.DocumentStatus(status)
		doc.IngestedAt = parseNullableTime(ingestedAt)
		doc.Error = errMsg.String
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ReplaceChunks atomically replaces all chunks for a document.
func (s *documentStore) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing prior chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, sequence_index, content, span_start, span_end, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, documentID, chunk.SequenceIndex,
			chunk.Text, chunk.Span.Start, chunk.Span.End, chunk.ContentHash); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a document ordered by sequence.
func (s *documentStore) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, sequence_index, content, span_start, span_end, content_hash
		FROM chunks WHERE document_id = ? ORDER BY sequence_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SequenceIndex,
			&chunk.Text, &chunk.Span.Start, &chunk.Span.End, &chunk.ContentHash); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, sequence_index, content, span_start, span_end, content_hash
		FROM chunks WHERE id = ?
	`, id)

	var chunk domain.Chunk
	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.SequenceIndex,
		&chunk.Text, &chunk.Span.Start, &chunk.Span.End, &chunk.ContentHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	return &chunk, nil
}

// DeleteDocument removes a document and its chunks. Embedding records
// are content-addressed and survive.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	// Chunks go with the document via ON DELETE CASCADE.
	return nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var ingestedAt, errMsg sql.NullString

	if err := row.Scan(&doc.ID, &doc.SourceURI, &doc.Title, &doc.ContentHash,
		&status, &ingestedAt, &errMsg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	doc.IngestedAt = parseNullableTime(ingestedAt)
	doc.Error = errMsg.String

	return &doc, nil
}

// ==================== Embedding Store ====================

// embeddingStore implements driven.EmbeddingStore.
type embeddingStore struct {
	store *Store
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

// GetEmbedding retrieves a record by content hash.
func (s *embeddingStore) GetEmbedding(ctx context.Context, contentHash string) (*domain.EmbeddingRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT content_hash, vector, model_version, created_at
		FROM embeddings WHERE content_hash = ?
	`, contentHash)

	var rec domain.EmbeddingRecord
	var blob []byte
	var createdAt string
	if err := row.Scan(&rec.ContentHash, &blob, &rec.ModelVersion, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning embedding: %w", err)
	}

	rec.Vector = bytesToFloat32Slice(blob)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}

	return &rec, nil
}

// SaveEmbedding stores a record, replacing any prior record for the
// same hash.
func (s *embeddingStore) SaveEmbedding(ctx context.Context, rec *domain.EmbeddingRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO embeddings (content_hash, vector, model_version, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(content_hash) DO UPDATE SET
			vector = excluded.vector,
			model_version = excluded.model_version,
			created_at = excluded.created_at
	`, rec.ContentHash, float32SliceToBytes(rec.Vector), rec.ModelVersion,
		rec.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving embedding: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
