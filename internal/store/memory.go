package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"streakTrackerAPI/internal/streak"
	"streakTrackerAPI/internal/task"
	"streakTrackerAPI/internal/user"
)

// MemoryStore is an in-process Store used by tests and local runs without
// Postgres. Every record handed out is a copy.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*user.User
	streaks map[uuid.UUID]*streak.Streak
	tasks   map[uuid.UUID]*task.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uuid.UUID]*user.User),
		streaks: make(map[uuid.UUID]*streak.Streak),
		tasks:   make(map[uuid.UUID]*task.Task),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) CreateUser(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	c := *u
	m.users[c.ID] = &c
	return nil
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateUser(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range m.users {
		if id != u.ID && existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	c := *u
	m.users[c.ID] = &c
	return nil
}

func (m *MemoryStore) ListStreaks(ctx context.Context, userID uuid.UUID) ([]*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*streak.Streak{}
	for _, st := range m.streaks {
		if st.UserID == userID {
			out = append(out, st.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) GetStreak(ctx context.Context, userID, id uuid.UUID) (*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.streaks[id]
	if !ok || st.UserID != userID {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *MemoryStore) CreateStreak(ctx context.Context, st *streak.Streak) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.streaks[st.ID] = st.Clone()
	return nil
}

func (m *MemoryStore) UpdateStreak(ctx context.Context, userID, id uuid.UUID, fn func(*streak.Streak) error) (*streak.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.streaks[id]
	if !ok || current.UserID != userID {
		return nil, ErrNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	m.streaks[id] = next
	return next.Clone(), nil
}

func (m *MemoryStore) DeleteStreak(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.streaks[id]
	if !ok || st.UserID != userID {
		return ErrNotFound
	}
	delete(m.streaks, id)
	return nil
}

func (m *MemoryStore) ListTasks(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*task.Task{}
	for _, t := range m.tasks {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CreateTask(ctx context.Context, t *task.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *t
	m.tasks[c.ID] = &c
	return nil
}

func (m *MemoryStore) UpdateTask(ctx context.Context, userID, id uuid.UUID, fn func(*task.Task) error) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tasks[id]
	if !ok || current.UserID != userID {
		return nil, ErrNotFound
	}

	next := *current
	if err := fn(&next); err != nil {
		return nil, err
	}
	m.tasks[id] = &next
	c := next
	return &c, nil
}

func (m *MemoryStore) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}
