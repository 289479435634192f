package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/famsync/famsync-api/internal/domain"
	"github.com/famsync/famsync-api/internal/store"
)

// passTx runs the function without a real transaction.
func passTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}

// fakeFamilyStore is an in-memory store.FamilyStore.
type fakeFamilyStore struct {
	mu       sync.Mutex
	families map[uuid.UUID]*domain.Family
	members  map[uuid.UUID]*domain.FamilyMember
}

func newFakeFamilyStore() *fakeFamilyStore {
	return &fakeFamilyStore{
		families: make(map[uuid.UUID]*domain.Family),
		members:  make(map[uuid.UUID]*domain.FamilyMember),
	}
}

func (f *fakeFamilyStore) Create(ctx context.Context, family *domain.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *family
	f.families[family.ID] = &copied
	return nil
}

func (f *fakeFamilyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fam, ok := f.families[id]; ok {
		copied := *fam
		return &copied, nil
	}
	return nil, store.ErrFamilyNotFound
}

func (f *fakeFamilyStore) Update(ctx context.Context, family *domain.Family) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.families[family.ID]; !ok {
		return store.ErrFamilyNotFound
	}
	copied := *family
	f.families[family.ID] = &copied
	return nil
}

func (f *fakeFamilyStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.families[id]; !ok {
		return store.ErrFamilyNotFound
	}
	delete(f.families, id)
	for mid, m := range f.members {
		if m.FamilyID == id {
			delete(f.members, mid)
		}
	}
	return nil
}

func (f *fakeFamilyStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Family, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	families := []*domain.Family{}
	for _, m := range f.members {
		if m.UserID == userID {
			if fam, ok := f.families[m.FamilyID]; ok {
				copied := *fam
				families = append(families, &copied)
			}
		}
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].CreatedAt.Before(families[j].CreatedAt)
	})
	return families, nil
}

func (f *fakeFamilyStore) AddMember(ctx context.Context, member *domain.FamilyMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.UserID == member.UserID && m.FamilyID == member.FamilyID {
			return store.ErrDuplicateMember
		}
	}
	copied := *member
	f.members[member.ID] = &copied
	return nil
}

func (f *fakeFamilyStore) GetMember(ctx context.Context, familyID, userID uuid.UUID) (*domain.FamilyMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.FamilyID == familyID && m.UserID == userID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, store.ErrMemberNotFound
}

func (f *fakeFamilyStore) GetMemberByID(ctx context.Context, memberID uuid.UUID) (*domain.FamilyMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[memberID]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, store.ErrMemberNotFound
}

func (f *fakeFamilyStore) ListMembers(ctx context.Context, familyID uuid.UUID) ([]*domain.FamilyMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := []*domain.FamilyMember{}
	for _, m := range f.members {
		if m.FamilyID == familyID {
			copied := *m
			members = append(members, &copied)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

func (f *fakeFamilyStore) RemoveMember(ctx context.Context, memberID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[memberID]; !ok {
		return store.ErrMemberNotFound
	}
	delete(f.members, memberID)
	return nil
}

func (f *fakeFamilyStore) IsMember(ctx context.Context, familyID, userID uuid.UUID) (bool, error) {
	_, err := f.GetMember(ctx, familyID, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeFamilyStore) IsAdmin(ctx context.Context, familyID, userID uuid.UUID) (bool, error) {
	m, err := f.GetMember(ctx, familyID, userID)
	if err != nil {
		return false, nil
	}
	return m.IsAdmin, nil
}

func (f *fakeFamilyStore) WithTx(tx *sql.Tx) store.FamilyStore { return f }

// fakeUserStore is a minimal in-memory store.UserStore.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

// fakeTagStore is an in-memory store.TagStore.
type fakeTagStore struct {
	mu   sync.Mutex
	tags map[uuid.UUID]*domain.Tag
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{tags: make(map[uuid.UUID]*domain.Tag)}
}

func (f *fakeTagStore) Create(ctx context.Context, tag *domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tags {
		if t.FamilyID == tag.FamilyID && t.Name == tag.Name {
			return store.ErrDuplicateTag
		}
	}
	copied := *tag
	f.tags[tag.ID] = &copied
	return nil
}

func (f *fakeTagStore) CreateBatch(ctx context.Context, tags []*domain.Tag) error {
	for _, tag := range tags {
		if err := f.Create(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTagStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tags[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, store.ErrTagNotFound
}

func (f *fakeTagStore) GetByIDsForFamily(ctx context.Context, familyID uuid.UUID, ids []uuid.UUID) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := []*domain.Tag{}
	for _, id := range ids {
		if t, ok := f.tags[id]; ok && t.FamilyID == familyID {
			copied := *t
			tags = append(tags, &copied)
		}
	}
	return tags, nil
}

func (f *fakeTagStore) ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := []*domain.Tag{}
	for _, t := range f.tags {
		if t.FamilyID == familyID {
			copied := *t
			tags = append(tags, &copied)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

func (f *fakeTagStore) Update(ctx context.Context, tag *domain.Tag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[tag.ID]; !ok {
		return store.ErrTagNotFound
	}
	copied := *tag
	f.tags[tag.ID] = &copied
	return nil
}

func (f *fakeTagStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(f.tags, id)
	return nil
}

func (f *fakeTagStore) WithTx(tx *sql.Tx) store.TagStore { return f }

// fakeTaskStore is an in-memory store.TaskStore.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	// failCreateTitle makes Create fail for a task with this title, for
	// exercising batch error paths.
	failCreateTitle string
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateTitle != "" && task.Title == f.failCreateTitle {
		return store.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) CreateBatch(ctx context.Context, tasks []*domain.Task) error {
	for _, task := range tasks {
		if err := f.Create(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *t
	copied.Subtasks = f.childrenLocked(id)
	return &copied, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	for tid, t := range f.tasks {
		if t.ParentID != nil && *t.ParentID == id {
			delete(f.tasks, tid)
		}
	}
	return nil
}

func (f *fakeTaskStore) List(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := []*domain.Task{}
	for _, t := range f.tasks {
		if t.FamilyID != familyID || !matchesFilter(t, filter) {
			continue
		}
		copied := *t
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (f *fakeTaskStore) Count(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.tasks {
		if t.FamilyID == familyID && matchesFilter(t, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) ListRoots(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := []*domain.Task{}
	for _, t := range f.tasks {
		if t.FamilyID != familyID || t.ParentID != nil || !matchesFilter(t, filter) {
			continue
		}
		copied := *t
		copied.Subtasks = f.childrenLocked(t.ID)
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (f *fakeTaskStore) CountRoots(ctx context.Context, familyID uuid.UUID, filter store.TaskFilter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.tasks {
		if t.FamilyID == familyID && t.ParentID == nil && matchesFilter(t, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) ResetCompletedRoutines(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tasks {
		if t.IsRoutine && t.Status == domain.TaskStatusCompleted {
			t.Status = domain.TaskStatusPending
			n++
		}
	}
	return n, nil
}

func (f *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return f }

func (f *fakeTaskStore) childrenLocked(parentID uuid.UUID) []*domain.Task {
	children := []*domain.Task{}
	for _, t := range f.tasks {
		if t.ParentID != nil && *t.ParentID == parentID {
			copied := *t
			children = append(children, &copied)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children
}

func matchesFilter(t *domain.Task, filter store.TaskFilter) bool {
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && t.Priority != *filter.Priority {
		return false
	}
	if filter.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *filter.AssigneeID) {
		return false
	}
	if filter.IsRoutine != nil && t.IsRoutine != *filter.IsRoutine {
		return false
	}
	if filter.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*filter.DueBefore)) {
		return false
	}
	if filter.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*filter.DueAfter)) {
		return false
	}
	if len(filter.TagIDs) > 0 {
		found := false
		for _, want := range filter.TagIDs {
			for _, tag := range t.Tags {
				if tag.ID == want {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}
