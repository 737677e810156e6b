package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
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

	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified database path.
// If dbPath is empty, defaults to ~/.docquery/docquery.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".docquery", "docquery.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

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
		db:   db,
		path: dbPath,
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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ParagraphStore returns a ParagraphStore interface backed by this store.
func (s *Store) ParagraphStore() driven.ParagraphStore {
	return &paragraphStore{store: s}
}

// QueryLogStore returns a QueryLogStore interface backed by this store.
func (s *Store) QueryLogStore() driven.QueryLogStore {
	return &queryLogStore{store: s}
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

// SaveDocument stores a document. The (original_name, original_type,
// extraction_method) tuple must not already exist.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" || doc.OriginalName == "" {
		return domain.ErrInvalidInput
	}

	existing, err := s.FindDocument(ctx, doc.Key())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("document %q (%s, %s): %w",
			doc.OriginalName, doc.OriginalType, doc.ExtractionMethod, domain.ErrDuplicateDocument)
	}

	if doc.ExtractedAt.IsZero() {
		doc.ExtractedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents
			(id, original_name, original_type, extraction_method,
			 generated_file, generated_type, extraction_time_ms, extracted_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.OriginalName, doc.OriginalType, doc.ExtractionMethod,
		doc.GeneratedFile, doc.GeneratedType, doc.ExtractionTime.Milliseconds(),
		doc.ExtractedAt, doc.Notes)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, original_name, original_type, extraction_method,
		       generated_file, generated_type, extraction_time_ms, extracted_at, notes
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// FindDocument retrieves a document by its natural key.
func (s *documentStore) FindDocument(ctx context.Context, key domain.DocumentKey) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, original_name, original_type, extraction_method,
		       generated_file, generated_type, extraction_time_ms, extracted_at, notes
		FROM documents
		WHERE original_name = ? AND original_type = ? AND extraction_method = ?
	`, key.OriginalName, key.OriginalType, key.ExtractionMethod)

	return scanDocument(row)
}

// DeleteDocument removes a document and its paragraphs.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns all documents ordered by extraction time.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, original_name, original_type, extraction_method,
		       generated_file, generated_type, extraction_time_ms, extracted_at, notes
		FROM documents
		ORDER BY extracted_at, original_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ==================== Paragraph Store ====================

// paragraphStore implements driven.ParagraphStore.
type paragraphStore struct {
	store *Store
}

var _ driven.ParagraphStore = (*paragraphStore)(nil)

// SaveParagraphs stores paragraphs for a document.
func (s *paragraphStore) SaveParagraphs(ctx context.Context, paragraphs []domain.Paragraph) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO paragraphs
			(id, document_id, ordinal, text, length, language, titles,
			 strategy, extraction_method, extraction_type, embedding, embedding_model)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range paragraphs {
		p := &paragraphs[i]
		if !p.HasEmbedding() && (len(p.Embedding) > 0 || p.EmbeddingModel != "") {
			return fmt.Errorf("paragraph %s: embedding and model must be set together: %w",
				p.ID, domain.ErrInvalidInput)
		}

		titlesJSON, err := marshalTitles(p.Titles)
		if err != nil {
			return fmt.Errorf("marshalling titles: %w", err)
		}

		var embeddingBlob []byte
		var model sql.NullString
		if p.HasEmbedding() {
			embeddingBlob = float32SliceToBytes(p.Embedding)
			model = sql.NullString{String: p.EmbeddingModel, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, p.ID, p.DocumentID, p.Ordinal, p.Text,
			p.Length, p.Language, titlesJSON, string(p.Strategy),
			p.ExtractionMethod, p.ExtractionType, embeddingBlob, model); err != nil {
			return fmt.Errorf("saving paragraph: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteParagraphs removes all paragraphs for a (document, strategy) pair.
func (s *paragraphStore) DeleteParagraphs(ctx context.Context, documentID string, strategy domain.Strategy) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM paragraphs WHERE document_id = ? AND strategy = ?",
		documentID, string(strategy))
	if err != nil {
		return fmt.Errorf("deleting paragraphs: %w", err)
	}
	return nil
}

// WithoutEmbedding returns paragraphs with no stored vector in insertion order.
func (s *paragraphStore) WithoutEmbedding(ctx context.Context) ([]domain.Paragraph, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, ordinal, text, length, language, titles,
		       strategy, extraction_method, extraction_type, embedding, embedding_model
		FROM paragraphs
		WHERE embedding IS NULL
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pending paragraphs: %w", err)
	}
	defer rows.Close()

	var paragraphs []domain.Paragraph //nolint:prealloc // size unknown from query
	for rows.Next() {
		p, err := scanParagraph(rows)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating paragraphs: %w", err)
	}

	return paragraphs, nil
}

// SetEmbedding stores a vector and its model for one paragraph.
func (s *paragraphStore) SetEmbedding(ctx context.Context, id string, vector []float32, model string) error {
	if len(vector) == 0 || model == "" {
		return fmt.Errorf("embedding and model must both be provided: %w", domain.ErrInvalidInput)
	}

	res, err := s.store.db.ExecContext(ctx,
		"UPDATE paragraphs SET embedding = ?, embedding_model = ? WHERE id = ?",
		float32SliceToBytes(vector), model, id)
	if err != nil {
		return fmt.Errorf("setting embedding: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Query returns embedded paragraphs matching the filter, joined with
// their document name.
func (s *paragraphStore) Query(ctx context.Context, filter domain.ParagraphFilter) ([]domain.QueryHit, error) {
	conds := []string{"p.embedding IS NOT NULL"}
	var args []any

	if filter.ExtractionMethod != "" {
		conds = append(conds, "p.extraction_method = ?")
		args = append(args, filter.ExtractionMethod)
	}
	if filter.ExtractionType != "" {
		conds = append(conds, "p.extraction_type = ?")
		args = append(args, filter.ExtractionType)
	}
	if filter.Strategy != "" {
		conds = append(conds, "p.strategy = ?")
		args = append(args, string(filter.Strategy))
	}
	if filter.Language != "" {
		conds = append(conds, "p.language = ?")
		args = append(args, filter.Language)
	}
	if filter.EmbeddingModel != "" {
		conds = append(conds, "p.embedding_model = ?")
		args = append(args, filter.EmbeddingModel)
	}
	if filter.DocumentID != "" {
		conds = append(conds, "p.document_id = ?")
		args = append(args, filter.DocumentID)
	}

	query := `
		SELECT p.id, p.document_id, p.ordinal, p.text, p.length, p.language, p.titles,
		       p.strategy, p.extraction_method, p.extraction_type, p.embedding, p.embedding_model,
		       d.original_name
		FROM paragraphs p
		JOIN documents d ON d.id = p.document_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY d.original_name, p.strategy, p.ordinal
	`

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying paragraphs: %w", err)
	}
	defer rows.Close()

	var hits []domain.QueryHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit domain.QueryHit
		var titlesJSON sql.NullString
		var embeddingBlob []byte
		var model sql.NullString

		if err := rows.Scan(&hit.ID, &hit.DocumentID, &hit.Ordinal, &hit.Text,
			&hit.Length, &hit.Language, &titlesJSON, &hit.Strategy,
			&hit.ExtractionMethod, &hit.ExtractionType, &embeddingBlob, &model,
			&hit.DocumentName); err != nil {
			return nil, fmt.Errorf("scanning paragraph: %w", err)
		}

		hit.Embedding = bytesToFloat32Slice(embeddingBlob)
		hit.EmbeddingModel = model.String
		if titlesJSON.Valid {
			if err := json.Unmarshal([]byte(titlesJSON.String), &hit.Titles); err != nil {
				return nil, fmt.Errorf("unmarshalling titles: %w", err)
			}
		}

		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating paragraphs: %w", err)
	}

	return hits, nil
}

// ==================== Query Log Store ====================

// queryLogStore implements driven.QueryLogStore.
type queryLogStore struct {
	store *Store
}

var _ driven.QueryLogStore = (*queryLogStore)(nil)

// SaveQueryLog stores a query log and its fragments atomically.
func (s *queryLogStore) SaveQueryLog(ctx context.Context, log *domain.QueryLog, fragments []domain.FragmentUsed) error {
	if log.ID == "" || log.Question == "" {
		return domain.ErrInvalidInput
	}

	filterJSON, err := json.Marshal(log.Filter)
	if err != nil {
		return fmt.Errorf("marshalling filter: %w", err)
	}

	if log.AskedAt.IsZero() {
		log.AskedAt = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO query_logs
			(id, question, embedding_model, answer_model, answer, threshold,
			 top_k, candidates, rank_time_ms, answer_time_ms, filter, asked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.Question, log.EmbeddingModel, log.AnswerModel, log.Answer,
		log.Threshold, log.TopK, log.Candidates,
		log.RankTime.Milliseconds(), log.AnswerTime.Milliseconds(),
		string(filterJSON), log.AskedAt)
	if err != nil {
		return fmt.Errorf("saving query log: %w", err)
	}

	for _, f := range fragments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO fragments_used (query_id, document_id, ordinal, distance)
			VALUES (?, ?, ?, ?)
		`, log.ID, f.DocumentID, f.Ordinal, f.Distance); err != nil {
			return fmt.Errorf("saving fragment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
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

// marshalTitles serialises the title list, mapping empty to SQL NULL.
func marshalTitles(titles []string) (sql.NullString, error) {
	if len(titles) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(titles)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var extractionMS int64

	if err := row.Scan(&doc.ID, &doc.OriginalName, &doc.OriginalType,
		&doc.ExtractionMethod, &doc.GeneratedFile, &doc.GeneratedType,
		&extractionMS, &doc.ExtractedAt, &doc.Notes); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ExtractionTime = time.Duration(extractionMS) * time.Millisecond
	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var extractionMS int64

	if err := rows.Scan(&doc.ID, &doc.OriginalName, &doc.OriginalType,
		&doc.ExtractionMethod, &doc.GeneratedFile, &doc.GeneratedType,
		&extractionMS, &doc.ExtractedAt, &doc.Notes); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ExtractionTime = time.Duration(extractionMS) * time.Millisecond
	return &doc, nil
}

// scanParagraph scans a paragraph from *sql.Rows.
func scanParagraph(rows *sql.Rows) (*domain.Paragraph, error) {
	var p domain.Paragraph
	var titlesJSON sql.NullString
	var embeddingBlob []byte
	var model sql.NullString

	if err := rows.Scan(&p.ID, &p.DocumentID, &p.Ordinal, &p.Text,
		&p.Length, &p.Language, &titlesJSON, &p.Strategy,
		&p.ExtractionMethod, &p.ExtractionType, &embeddingBlob, &model); err != nil {
		return nil, fmt.Errorf("scanning paragraph: %w", err)
	}

	p.Embedding = bytesToFloat32Slice(embeddingBlob)
	p.EmbeddingModel = model.String
	if titlesJSON.Valid {
		if err := json.Unmarshal([]byte(titlesJSON.String), &p.Titles); err != nil {
			return nil, fmt.Errorf("unmarshalling titles: %w", err)
		}
	}

	return &p, nil
}
