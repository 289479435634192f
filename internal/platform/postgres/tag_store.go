package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// PostgresTagStore implements store.TagStore.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.TagStore = (*PostgresTagStore)(nil)

// NewPostgresTagStore creates a PostgresTagStore. If logger is nil the
// process default is used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTagStore{
		db:     db,
		logger: logger.With("component", "tag_store"),
	}
}

// WithTx returns a TagStore bound to the given transaction.
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{db: tx, logger: s.logger}
}

const insertTagSQL = `
	INSERT INTO tags (id, name, color, family_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Create persists a new tag.
func (s *PostgresTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	if err := tag.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, insertTagSQL,
		tag.ID, tag.Name, nullableString(tag.Color), tag.FamilyID, tag.CreatedAt, tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateTag
		}
		if isForeignKeyViolation(err) {
			return store.ErrFamilyNotFound
		}
		return fmt.Errorf("inserting tag: %w", err)
	}
	return nil
}

// CreateBatch persists several tags, typically a new family's default set.
func (s *PostgresTagStore) CreateBatch(ctx context.Context, tags []*domain.Tag) error {
	for _, tag := range tags {
		if err := s.Create(ctx, tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag.Name, err)
		}
	}
	return nil
}

// GetByID retrieves a tag by ID.
func (s *PostgresTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	query := `SELECT id, name, color, family_id, created_at, updated_at FROM tags WHERE id = $1`

	var tag domain.Tag
	var color sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&tag.ID, &tag.Name, &color, &tag.FamilyID, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTagNotFound
		}
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	tag.Color = color.String
	return &tag, nil
}

// GetByIDsForFamily returns the subset of ids that are real tags of the
// given family. Unknown or foreign tag IDs drop out of the result silently.
func (s *PostgresTagStore) GetByIDsForFamily(ctx context.Context, familyID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error) {
	if len(ids) == 0 {
		return []*domain.Tag{}, nil
	}

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, familyID)
	placeholders := make([]string, 0, len(ids))
	for i, id := range ids {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, name, color, family_id, created_at, updated_at
		FROM tags
		WHERE family_id = $1 AND id IN (%s)
		ORDER BY name`, strings.Join(placeholders, ", "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tags by id: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

// ListByFamily returns the family's tags ordered by name.
func (s *PostgresTagStore) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*domain.Tag, error) {
	query := `
		SELECT id, name, color, family_id, created_at, updated_at
		FROM tags
		WHERE family_id = $1
		ORDER BY name`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()
	return scanTags(rows)
}

// Update saves changes to an existing tag.
func (s *PostgresTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	if err := tag.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `UPDATE tags SET name = $2, color = $3, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, tag.ID, tag.Name, nullableString(tag.Color))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateTag
		}
		return fmt.Errorf("updating tag: %w", err)
	}
	return requireRowAffected(result, store.ErrTagNotFound)
}

// Delete removes a tag. Its task associations go with it through
// ON DELETE CASCADE.
func (s *PostgresTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return requireRowAffected(result, store.ErrTagNotFound)
}

func scanTags(rows *sql.Rows) ([]*domain.Tag, error) {
	tags := []*domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		var color sql.NullString
		if err := rows.Scan(&tag.ID, &tag.Name, &color, &tag.FamilyID, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tag.Color = color.String
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}
