package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/domain/models"
	"user-auth/internal/auth-service/core/myerrors"
	"user-auth/internal/config"
)

// fakeUserRepo enforces the same uniqueness rules as the real tables.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User

	createErr error
	getErr    error
	listErr   error
	deleteErr error

	// staleSetBlocked makes SetBlocked behave as if another request won the race.
	staleSetBlocked bool
	deleted         []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, myerrors.ErrDuplicate
		}
	}
	f.nextID++
	user.UserId = f.nextID
	f.users[user.UserId] = user
	return user.UserId, nil
}

func (f *fakeUserRepo) find(match func(models.User) bool) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return models.User{}, f.getErr
	}
	for _, u := range f.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, myerrors.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	return f.find(func(u models.User) bool { return u.UserId == id })
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) list(match func(models.User) bool) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.User{}
	for _, u := range f.users {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserId < out[j].UserId })
	return out, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	return f.list(func(models.User) bool { return true })
}

func (f *fakeUserRepo) ListBlocked(_ context.Context) ([]models.User, error) {
	return f.list(func(u models.User) bool { return u.IsBlocked })
}

func (f *fakeUserRepo) SetBlocked(_ context.Context, email string, blocked bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleSetBlocked {
		return false, nil
	}
	for id, u := range f.users {
		if u.Email == email && u.IsBlocked != blocked {
			u.IsBlocked = blocked
			f.users[id] = u
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return myerrors.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []messagebrokerdto.UserEvent
	ctxErr []error
	err    error
	delay  time.Duration
}

func (p *fakePublisher) Publish(ctx context.Context, event messagebrokerdto.UserEvent) error {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.ctxErr = append(p.ctxErr, ctx.Err())
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("store down")

func testConfig() *config.Config {
	return &config.Config{
		App: &config.Appconfig{
			PublicJwtSecret: "test-secret",
			AccessTokenTTL:  5 * time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	}
}
