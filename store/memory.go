package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"replyMateAPI/internal/submission"
	"replyMateAPI/internal/subscription"
	"replyMateAPI/internal/user"
)

// Memory is an in-process implementation of the store interfaces. It keeps
// the same per-key update semantics as the Postgres implementation and is
// what the tests run against.
type Memory struct {
	Subscriptions *MemorySubscriptions
	Submissions   *MemorySubmissions
	Users         *MemoryUsers
}

func NewMemory() *Memory {
	return &Memory{
		Subscriptions: &MemorySubscriptions{subs: make(map[string]subscription.Subscription)},
		Submissions:   &MemorySubmissions{},
		Users:         &MemoryUsers{users: make(map[string]user.User)},
	}
}

type MemorySubscriptions struct {
	mu   sync.Mutex
	subs map[string]subscription.Subscription
}

func (m *MemorySubscriptions) Get(ctx context.Context, userID string) (subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[userID]
	if !ok {
		return subscription.Subscription{}, ErrNotFound
	}
	return sub, nil
}

func (m *MemorySubscriptions) Put(ctx context.Context, sub subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs[sub.UserID] = sub
	return nil
}

func (m *MemorySubscriptions) SetStatus(ctx context.Context, userID string, status subscription.Status) (subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[userID]
	if !ok {
		return subscription.Subscription{}, ErrNotFound
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()
	m.subs[userID] = sub
	return sub, nil
}

type MemorySubmissions struct {
	mu   sync.Mutex
	subs []submission.Submission
}

func (m *MemorySubmissions) Insert(ctx context.Context, sub submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = append(m.subs, sub)
	return nil
}

func (m *MemorySubmissions) Get(ctx context.Context, id string) (submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return submission.Submission{}, ErrNotFound
}

func (m *MemorySubmissions) ListByUser(ctx context.Context, userID string) ([]submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []submission.Submission
	for _, sub := range m.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemorySubmissions) ListAll(ctx context.Context) ([]submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]submission.Submission, len(m.subs))
	copy(out, m.subs)
	sortNewestFirst(out)
	return out, nil
}

func (m *MemorySubmissions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subs {
		if sub.ID == id {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemorySubmissions) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, sub := range m.subs {
		if sub.UserID == userID && !sub.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]user.User
}

// Seed loads the given users, replacing any existing entries with the same id.
func (m *MemoryUsers) Seed(users ...user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range users {
		m.users[u.ID] = u
	}
}

func (m *MemoryUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryUsers) List(ctx context.Context) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func sortNewestFirst(subs []submission.Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
}
