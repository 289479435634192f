package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// adminRole is the role given to a family's creator.
const adminRole = "parent"

// FamilyService manages families and their memberships.
type FamilyService struct {
	db       *sql.DB
	families store.FamilyStore
	users    store.UserStore
	tags     store.TagStore
	logger   *slog.Logger

	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewFamilyService creates a FamilyService. If logger is nil the process
// default is used.
func NewFamilyService(
	db *sql.DB,
	families store.FamilyStore,
	users store.UserStore,
	tags store.TagStore,
	logger *slog.Logger,
) *FamilyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FamilyService{
		db:       db,
		families: families,
		users:    users,
		tags:     tags,
		logger:   logger.With("component", "family_service"),
		runTx:    store.RunInTransaction,
	}
}

// CreateFamily creates a family, makes the creator its first admin, and
// seeds the default tag set. The three writes share one transaction so a
// failure leaves nothing behind.
func (s *FamilyService) CreateFamily(ctx context.Context, creatorID uuid.UUID, name string) (*domain.Family, error) {
	family, err := domain.NewFamily(name)
	if err != nil {
		return nil, err
	}

	member, err := domain.NewFamilyMember(creatorID, family.ID, adminRole, true)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		families := s.families.WithTx(tx)
		if err := families.Create(ctx, family); err != nil {
			return err
		}
		if err := families.AddMember(ctx, member); err != nil {
			return err
		}
		return s.tags.WithTx(tx).CreateBatch(ctx, domain.DefaultTags(family.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "family created", "family_id", family.ID, "creator_id", creatorID)
	return family, nil
}

// GetFamily returns the family if the user belongs to it.
func (s *FamilyService) GetFamily(ctx context.Context, userID, familyID uuid.UUID) (*domain.Family, error) {
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, familyID, userID); err != nil {
		return nil, err
	}
	return family, nil
}

// ListFamilies returns the families the user belongs to.
func (s *FamilyService) ListFamilies(ctx context.Context, userID uuid.UUID) ([]*domain.Family, error) {
	return s.families.ListByUser(ctx, userID)
}

// UpdateFamily renames the family. Admin only.
func (s *FamilyService) UpdateFamily(ctx context.Context, userID, familyID uuid.UUID, name string) (*domain.Family, error) {
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireAdmin(ctx, familyID, userID); err != nil {
		return nil, err
	}

	family.Name = name
	if err := family.Validate(); err != nil {
		return nil, err
	}
	if err := s.families.Update(ctx, family); err != nil {
		return nil, err
	}
	return family, nil
}

// DeleteFamily removes the family and everything scoped to it. Admin only.
func (s *FamilyService) DeleteFamily(ctx context.Context, userID, familyID uuid.UUID) error {
	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		return err
	}
	if err := s.RequireAdmin(ctx, familyID, userID); err != nil {
		return err
	}

	if err := s.families.Delete(ctx, familyID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "family deleted", "family_id", familyID, "deleted_by", userID)
	return nil
}

// AddMemberByEmail adds a registered user to the family. Admin only.
func (s *FamilyService) AddMemberByEmail(ctx context.Context, adminID, familyID uuid.UUID, email, role string, isAdmin bool) (*domain.FamilyMember, error) {
	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		return nil, err
	}
	if err := s.RequireAdmin(ctx, familyID, adminID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	member, err := domain.NewFamilyMember(user.ID, familyID, role, isAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.families.AddMember(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicateMember) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	member.User = user
	s.logger.InfoContext(ctx, "member added", "family_id", familyID, "user_id", user.ID, "added_by", adminID)
	return member, nil
}

// ListMembers returns the family's memberships with user details. Members
// only.
func (s *FamilyService) ListMembers(ctx context.Context, userID, familyID uuid.UUID) ([]*domain.FamilyMember, error) {
	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		return nil, err
	}
	if err := s.RequireMember(ctx, familyID, userID); err != nil {
		return nil, err
	}
	return s.families.ListMembers(ctx, familyID)
}

// RemoveMember removes a membership from the family. Admin only, and admins
// cannot remove themselves.
func (s *FamilyService) RemoveMember(ctx context.Context, adminID, familyID, memberID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, familyID, adminID); err != nil {
		return err
	}

	member, err := s.families.GetMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.FamilyID != familyID {
		return store.ErrMemberNotFound
	}
	if member.UserID == adminID {
		return ErrSelfRemoval
	}

	if err := s.families.RemoveMember(ctx, memberID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "member removed", "family_id", familyID, "member_id", memberID, "removed_by", adminID)
	return nil
}

// RequireMember returns ErrNotFamilyMember unless the user belongs to the
// family.
func (s *FamilyService) RequireMember(ctx context.Context, familyID, userID uuid.UUID) error {
	ok, err := s.families.IsMember(ctx, familyID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFamilyMember
	}
	return nil
}

// RequireAdmin returns ErrNotFamilyMember for non-members and
// ErrNotFamilyAdmin for members without admin rights.
func (s *FamilyService) RequireAdmin(ctx context.Context, familyID, userID uuid.UUID) error {
	if err := s.RequireMember(ctx, familyID, userID); err != nil {
		return err
	}
	ok, err := s.families.IsAdmin(ctx, familyID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFamilyAdmin
	}
	return nil
}
