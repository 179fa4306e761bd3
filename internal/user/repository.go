package user

import (
	"errors"
	"sync"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("email already exists")
	ErrInsufficientCredits = errors.New("insufficient credits")
)

type Repository interface {
	GetByID(id int) (User, error)
	GetByEmail(email string) (User, error)
	Create(user User) (User, error)
	// UpdateProfile merges the patch into the account's profile columns.
	UpdateProfile(id int, patch ProfilePatch) error
	// AddCredits increases the credit balance by amount.
	AddCredits(id int, amount int) error
	// DebitCredits decreases the balance by amount; fails with
	// ErrInsufficientCredits when the balance would go negative.
	DebitCredits(id int, amount int) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	nextID int
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, user := range seed {
		repo.users = append(repo.users, user)
		if user.ID > maxID {
			maxID = user.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) GetByID(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) UpdateProfile(id int, patch ProfilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID != id {
			continue
		}
		if patch.DisplayName != nil {
			user.DisplayName = patch.DisplayName
		}
		if patch.IsStoreOwner != nil {
			user.IsStoreOwner = patch.IsStoreOwner
		}
		if patch.Credits != nil {
			user.Credits = patch.Credits
		}
		r.users[i] = user
		return nil
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AddCredits(id int, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID != id {
			continue
		}
		balance := 0
		if user.Credits != nil {
			balance = *user.Credits
		}
		balance += amount
		r.users[i].Credits = &balance
		return nil
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DebitCredits(id int, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID != id {
			continue
		}
		balance := 0
		if user.Credits != nil {
			balance = *user.Credits
		}
		if balance < amount {
			return ErrInsufficientCredits
		}
		balance -= amount
		r.users[i].Credits = &balance
		return nil
	}
	return ErrNotFound
}
