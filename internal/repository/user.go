package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/laka02/quickcart/internal/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Add(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id string, hash []byte) error
}

type memoryUserRepository struct {
	users []*domain.User
	mutex sync.RWMutex
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, domain.ErrUserNotFound
}

func (r *memoryUserRepository) Add(ctx context.Context, user *domain.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()
	r.users = append(r.users, user)
	return nil
}

func (r *memoryUserRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, user := range r.users {
		if user.ID == id {
			user.PasswordHash = hash
			return nil
		}
	}

	return domain.ErrUserNotFound
}
