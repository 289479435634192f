package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// PostgresFamilyStore implements store.FamilyStore.
type PostgresFamilyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.FamilyStore = (*PostgresFamilyStore)(nil)

// NewPostgresFamilyStore creates a PostgresFamilyStore. If logger is nil the
// process default is used.
func NewPostgresFamilyStore(db store.DBTX, logger *slog.Logger) *PostgresFamilyStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFamilyStore{
		db:     db,
		logger: logger.With("component", "family_store"),
	}
}

// WithTx returns a FamilyStore bound to the given transaction.
func (s *PostgresFamilyStore) WithTx(tx *sql.Tx) store.FamilyStore {
	return &PostgresFamilyStore{db: tx, logger: s.logger}
}

// Create persists a new family.
func (s *PostgresFamilyStore) Create(ctx context.Context, family *domain.Family) error {
	if err := family.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO families (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, family.ID, family.Name, family.CreatedAt, family.UpdatedAt); err != nil {
		return fmt.Errorf("inserting family: %w", err)
	}

	s.logger.DebugContext(ctx, "family created", "family_id", family.ID)
	return nil
}

// GetByID retrieves a family by ID.
func (s *PostgresFamilyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Family, error) {
	query := `SELECT id, name, created_at, updated_at FROM families WHERE id = $1`

	var family domain.Family
	err := s.db.QueryRowContext(ctx, query, id).Scan(&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFamilyNotFound
		}
		return nil, fmt.Errorf("scanning family: %w", err)
	}
	return &family, nil
}

// Update saves changes to an existing family.
func (s *PostgresFamilyStore) Update(ctx context.Context, family *domain.Family) error {
	if err := family.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `UPDATE families SET name = $2, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, family.ID, family.Name)
	if err != nil {
		return fmt.Errorf("updating family: %w", err)
	}
	return requireRowAffected(result, store.ErrFamilyNotFound)
}

// Delete removes a family. Memberships, tasks, and tags go with it through
// ON DELETE CASCADE.
func (s *PostgresFamilyStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting family: %w", err)
	}
	return requireRowAffected(result, store.ErrFamilyNotFound)
}

// ListByUser returns all families the user belongs to.
func (s *PostgresFamilyStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Family, error) {
	query := `
		SELECT f.id, f.name, f.created_at, f.updated_at
		FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE m.user_id = $1
		ORDER BY f.created_at`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying families: %w", err)
	}
	defer rows.Close()

	families := []*domain.Family{}
	for rows.Next() {
		var family domain.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning family: %w", err)
		}
		families = append(families, &family)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating families: %w", err)
	}
	return families, nil
}

// AddMember persists a membership row.
func (s *PostgresFamilyStore) AddMember(ctx context.Context, member *domain.FamilyMember) error {
	if err := member.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO family_members (id, user_id, family_id, role, is_admin, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		member.ID, member.UserID, member.FamilyID, member.Role, member.IsAdmin, member.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateMember
		}
		if isForeignKeyViolation(err) {
			return store.ErrFamilyNotFound
		}
		return fmt.Errorf("inserting family member: %w", err)
	}

	s.logger.DebugContext(ctx, "member added", "family_id", member.FamilyID, "user_id", member.UserID)
	return nil
}

// GetMember retrieves the membership linking a user to a family.
func (s *PostgresFamilyStore) GetMember(ctx context.Context, familyID, userID uuid.UUID) (*domain.FamilyMember, error) {
	query := `
		SELECT id, user_id, family_id, role, is_admin, joined_at
		FROM family_members
		WHERE family_id = $1 AND user_id = $2`
	return s.scanMember(s.db.QueryRowContext(ctx, query, familyID, userID))
}

// GetMemberByID retrieves a membership row by its own ID.
func (s *PostgresFamilyStore) GetMemberByID(ctx context.Context, memberID uuid.UUID) (*domain.FamilyMember, error) {
	query := `
		SELECT id, user_id, family_id, role, is_admin, joined_at
		FROM family_members
		WHERE id = $1`
	return s.scanMember(s.db.QueryRowContext(ctx, query, memberID))
}

// ListMembers returns the family's memberships with user details joined in.
func (s *PostgresFamilyStore) ListMembers(ctx context.Context, familyID uuid.UUID) ([]*domain.FamilyMember, error) {
	query := `
		SELECT m.id, m.user_id, m.family_id, m.role, m.is_admin, m.joined_at,
		       u.id, u.email, u.first_name, u.last_name, u.avatar_url, u.is_active, u.created_at, u.updated_at
		FROM family_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.family_id = $1
		ORDER BY m.joined_at`
	rows, err := s.db.QueryContext(ctx, query, familyID)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	members := []*domain.FamilyMember{}
	for rows.Next() {
		var member domain.FamilyMember
		var user domain.User
		var avatarURL sql.NullString
		err := rows.Scan(
			&member.ID, &member.UserID, &member.FamilyID, &member.Role, &member.IsAdmin, &member.JoinedAt,
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &avatarURL, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		user.AvatarURL = avatarURL.String
		member.User = &user
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a membership row by its ID.
func (s *PostgresFamilyStore) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM family_members WHERE id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("deleting family member: %w", err)
	}
	return requireRowAffected(result, store.ErrMemberNotFound)
}

// IsMember reports whether the user belongs to the family.
func (s *PostgresFamilyStore) IsMember(ctx context.Context, familyID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM family_members WHERE family_id = $1 AND user_id = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, familyID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}
	return exists, nil
}

// IsAdmin reports whether the user is an admin of the family.
func (s *PostgresFamilyStore) IsAdmin(ctx context.Context, familyID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM family_members WHERE family_id = $1 AND user_id = $2 AND is_admin)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, familyID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking admin status: %w", err)
	}
	return exists, nil
}

func (s *PostgresFamilyStore) scanMember(row *sql.Row) (*domain.FamilyMember, error) {
	var member domain.FamilyMember
	err := row.Scan(&member.ID, &member.UserID, &member.FamilyID, &member.Role, &member.IsAdmin, &member.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemberNotFound
		}
		return nil, fmt.Errorf("scanning member: %w", err)
	}
	return &member, nil
}
