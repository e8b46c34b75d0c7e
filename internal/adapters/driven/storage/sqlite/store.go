package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
)

// DefaultIdempotencyRetention matches the memory store's retention window.
const DefaultIdempotencyRetention = 24 * time.Hour

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db        *sql.DB
	path      string
	retention time.Duration
	now       func() time.Time
}

// Option configures the store.
type Option func(*Store)

// WithIdempotencyRetention overrides the idempotency record retention.
func WithIdempotencyRetention(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.resumatch/data/resumatch.db.
func NewStore(dataDir string, opts ...Option) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".resumatch", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "resumatch.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:        db,
		path:      dbPath,
		retention: DefaultIdempotencyRetention,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	// Run migrations
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

// ResumeStore returns a ResumeStore interface backed by this store.
func (s *Store) ResumeStore() driven.ResumeStore {
	return &resumeStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// IdempotencyStore returns an IdempotencyStore interface backed by this store.
func (s *Store) IdempotencyStore() driven.IdempotencyStore {
	return &idempotencyStore{store: s}
}

// QueryCache returns a QueryCache interface backed by this store.
func (s *Store) QueryCache() driven.QueryCache {
	return &queryCache{store: s}
}

// ReindexInto loads every stored chunk embedding into the given vector
// index and returns the number of vectors loaded. Chunks without an
// embedding are skipped.
func (s *Store) ReindexInto(ctx context.Context, index driven.VectorIndex) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resume_id, embedding
		FROM resume_chunks
		ORDER BY resume_id, position
	`)
	if err != nil {
		return 0, fmt.Errorf("querying chunk embeddings: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var chunkID, resumeID string
		var blob []byte
		if err := rows.Scan(&chunkID, &resumeID, &blob); err != nil {
			return loaded, fmt.Errorf("scanning chunk embedding: %w", err)
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) == 0 {
			continue
		}
		if err := index.Upsert(ctx, resumeID, chunkID, embedding); err != nil {
			return loaded, fmt.Errorf("indexing chunk %s: %w", chunkID, err)
		}
		loaded++
	}

	if err := rows.Err(); err != nil {
		return loaded, fmt.Errorf("iterating chunk embeddings: %w", err)
	}
	return loaded, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
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

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Resume Store ====================

// resumeStore implements driven.ResumeStore.
type resumeStore struct {
	store *Store
}

var _ driven.ResumeStore = (*resumeStore)(nil)

// SaveResume stores or updates a resume.
func (s *resumeStore) SaveResume(ctx context.Context, resume *domain.Resume) error {
	var processedAt any
	if resume.ProcessedAt != nil {
		processedAt = resume.ProcessedAt.UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO resumes (id, owner_id, filename, status, content_hash, uploaded_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			filename = excluded.filename,
			status = excluded.status,
			content_hash = excluded.content_hash,
			uploaded_at = excluded.uploaded_at,
			processed_at = excluded.processed_at
	`, resume.ID, resume.OwnerID, resume.Filename, string(resume.Status),
		resume.ContentHash, resume.UploadedAt.UTC(), processedAt)

	if err != nil {
		return fmt.Errorf("saving resume: %w", err)
	}
	return nil
}

// GetResume retrieves a resume by ID.
func (s *resumeStore) GetResume(ctx context.Context, id string) (*domain.Resume, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, filename, status, content_hash, uploaded_at, processed_at
		FROM resumes WHERE id = ?
	`, id)

	return scanResume(row)
}

// ListResumes returns all resumes, optionally filtered by status.
func (s *resumeStore) ListResumes(ctx context.Context, status domain.ResumeStatus) ([]domain.Resume, error) {
	query := `
		SELECT id, owner_id, filename, status, content_hash, uploaded_at, processed_at
		FROM resumes
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY uploaded_at, id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying resumes: %w", err)
	}
	defer rows.Close()

	var resumes []domain.Resume //nolint:prealloc // size unknown from query
	for rows.Next() {
		resume, err := scanResumeRows(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *resume)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resumes: %w", err)
	}
	return resumes, nil
}

// SaveChunks stores the full chunk set for a resume, replacing any
// previous chunks.
func (s *resumeStore) SaveChunks(ctx context.Context, resumeID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM resume_chunks WHERE resume_id = ?", resumeID,
	); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resume_chunks (id, resume_id, position, page, start_offset, end_offset, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for position, chunk := range chunks {
		embeddingBlob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, resumeID, position,
			chunk.Page, chunk.StartOffset, chunk.EndOffset, chunk.Text, embeddingBlob); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetChunks retrieves all chunks for a resume in insertion order.
func (s *resumeStore) GetChunks(ctx context.Context, resumeID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, resume_id, page, start_offset, end_offset, content, embedding
		FROM resume_chunks WHERE resume_id = ?
		ORDER BY position
	`, resumeID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunkRows(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *resumeStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, resume_id, page, start_offset, end_offset, content, embedding
		FROM resume_chunks WHERE id = ?
	`, id)

	return scanChunk(row)
}

// DeleteResume removes a resume and cascades to its chunks.
func (s *resumeStore) DeleteResume(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM resumes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	return nil
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// SaveJob stores a job.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.Job) error {
	requirementsJSON, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("marshalling requirements: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (id, owner_id, title, description, requirements, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			description = excluded.description,
			requirements = excluded.requirements,
			created_at = excluded.created_at
	`, job.ID, job.OwnerID, job.Title, job.Description,
		string(requirementsJSON), job.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, requirements, created_at
		FROM jobs WHERE id = ?
	`, id)

	var job domain.Job
	var requirementsJSON string
	var createdAt sql.NullTime
	if err := row.Scan(&job.ID, &job.OwnerID, &job.Title, &job.Description,
		&requirementsJSON, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if err := json.Unmarshal([]byte(requirementsJSON), &job.Requirements); err != nil {
		return nil, fmt.Errorf("unmarshaling requirements: %w", err)
	}
	if createdAt.Valid {
		job.CreatedAt = createdAt.Time
	}
	return &job, nil
}

// ListJobs returns all jobs.
func (s *jobStore) ListJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, requirements, created_at
		FROM jobs ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job //nolint:prealloc // size unknown from query
	for rows.Next() {
		var job domain.Job
		var requirementsJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&job.ID, &job.OwnerID, &job.Title, &job.Description,
			&requirementsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		if err := json.Unmarshal([]byte(requirementsJSON), &job.Requirements); err != nil {
			return nil, fmt.Errorf("unmarshaling requirements: %w", err)
		}
		if createdAt.Valid {
			job.CreatedAt = createdAt.Time
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// ==================== Scan Helpers ====================

func scanResume(row *sql.Row) (*domain.Resume, error) {
	var resume domain.Resume
	var status string
	var uploadedAt, processedAt sql.NullTime

	if err := row.Scan(&resume.ID, &resume.OwnerID, &resume.Filename, &status,
		&resume.ContentHash, &uploadedAt, &processedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning resume: %w", err)
	}

	resume.Status = domain.ResumeStatus(status)
	if uploadedAt.Valid {
		resume.UploadedAt = uploadedAt.Time
	}
	if processedAt.Valid {
		t := processedAt.Time
		resume.ProcessedAt = &t
	}
	return &resume, nil
}

func scanResumeRows(rows *sql.Rows) (*domain.Resume, error) {
	var resume domain.Resume
	var status string
	var uploadedAt, processedAt sql.NullTime

	if err := rows.Scan(&resume.ID, &resume.OwnerID, &resume.Filename, &status,
		&resume.ContentHash, &uploadedAt, &processedAt); err != nil {
		return nil, fmt.Errorf("scanning resume: %w", err)
	}

	resume.Status = domain.ResumeStatus(status)
	if uploadedAt.Valid {
		resume.UploadedAt = uploadedAt.Time
	}
	if processedAt.Valid {
		t := processedAt.Time
		resume.ProcessedAt = &t
	}
	return &resume, nil
}

func scanChunk(row *sql.Row) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte

	if err := row.Scan(&chunk.ID, &chunk.ResumeID, &chunk.Page, &chunk.StartOffset,
		&chunk.EndOffset, &chunk.Text, &embeddingBlob); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &chunk, nil
}

func scanChunkRows(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &chunk.ResumeID, &chunk.Page, &chunk.StartOffset,
		&chunk.EndOffset, &chunk.Text, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &chunk, nil
}

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
