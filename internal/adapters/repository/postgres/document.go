package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type sqlDocumentRepository struct {
	db SQLQuerier
}

// NewSqlDocumentRepository creates sqlDocumentRepository that implements port.DocumentRepository
func NewSqlDocumentRepository(db SQLQuerier) port.DocumentRepository {
	return &sqlDocumentRepository{
		db: db,
	}
}

// Create inserts a new document
func (s *sqlDocumentRepository) Create(ctx context.Context, collection string, id string, data map[string]any) error {
	payload, err := marshalData(data)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`

	_, err = s.db.ExecContext(ctx, query, collection, id, payload)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("document %s/%s : %w", collection, id, domain.ErrAlreadyExists)
			}
		}
		return err
	}
	return nil
}

// FindAll lists the documents of a collection in insertion order
func (s *sqlDocumentRepository) FindAll(ctx context.Context, collection string) ([]domain.Document, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY seq ASC`

	return s.query(ctx, query, collection)
}

// FindByID finds a document by id
func (s *sqlDocumentRepository) FindByID(ctx context.Context, collection string, id string) (*domain.Document, error) {
	query := `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`

	var docDB dbDocument
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(
		&docDB.Collection,
		&docDB.ID,
		&docDB.Data,
		&docDB.CreatedAt,
		&docDB.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	return docDB.ToDomain()
}

// FindByField lists the documents whose top level string field equals value
func (s *sqlDocumentRepository) FindByField(ctx context.Context, collection string, field string, value string) ([]domain.Document, error) {
	query := `
		SELECT collection, id, data, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND data ->> $2 = $3
		ORDER BY seq ASC`

	return s.query(ctx, query, collection, field, value)
}

// Update merges set into the document then drops the remove keys
func (s *sqlDocumentRepository) Update(ctx context.Context, collection string, id string, set map[string]any, remove []string) error {
	payload, err := marshalData(set)
	if err != nil {
		return err
	}
	if remove == nil {
		remove = []string{}
	}

	query := `
		UPDATE documents
		SET data = (data || $3::jsonb) - $4::text[], updated_at = NOW()
		WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id, payload, pq.Array(remove))
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

// Delete removes a document
func (s *sqlDocumentRepository) Delete(ctx context.Context, collection string, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return err
	}

	return expectOneRow(result)
}

func (s *sqlDocumentRepository) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	documents := make([]domain.Document, 0)
	for rows.Next() {
		var docDB dbDocument
		if err := rows.Scan(&docDB.Collection, &docDB.ID, &docDB.Data, &docDB.CreatedAt, &docDB.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning document: %w", err)
		}
		doc, err := docDB.ToDomain()
		if err != nil {
			return nil, err
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return documents, nil
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// marshalData returns a string, lib/pq would send a []byte as bytea
func marshalData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("error encoding document: %w", err)
	}
	return string(payload), nil
}

// dbDocument represents a document row
type dbDocument struct {
	Collection string    `db:"collection"`
	ID         string    `db:"id"`
	Data       []byte    `db:"data"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToDomain converts to domain.Document
func (d *dbDocument) ToDomain() (*domain.Document, error) {
	data := map[string]any{}
	if err := json.Unmarshal(d.Data, &data); err != nil {
		return nil, fmt.Errorf("error decoding document %s/%s: %w", d.Collection, d.ID, err)
	}
	return &domain.Document{
		ID:         d.ID,
		Collection: d.Collection,
		Data:       data,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}
