// Package service implements the application's business operations on top
// of the store interfaces: family membership authority, task management,
// and routine task resets.
package service

import "errors"

// Errors returned by the services in this package.
var (
	// ErrNotFamilyMember is returned when the acting user does not belong
	// to the family an operation targets.
	ErrNotFamilyMember = errors.New("user is not a member of this family")

	// ErrNotFamilyAdmin is returned when an operation requires family admin
	// rights the acting user lacks.
	ErrNotFamilyAdmin = errors.New("user is not an admin of this family")

	// ErrAlreadyMember is returned when adding a user who already belongs
	// to the family.
	ErrAlreadyMember = errors.New("user is already a member of this family")

	// ErrSelfRemoval is returned when an admin tries to remove their own
	// membership.
	ErrSelfRemoval = errors.New("cannot remove yourself from the family")

	// ErrSubtaskDepth is returned when creating a subtask under a task that
	// is itself a subtask.
	ErrSubtaskDepth = errors.New("subtasks cannot have subtasks")
)
