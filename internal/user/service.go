package user

import "golang.org/x/crypto/bcrypt"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Register(user User) (User, error) {
	if _, err := s.repo.GetByEmail(user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user.Password = string(hashed)
	if user.IsStoreOwner == nil {
		owner := false
		user.IsStoreOwner = &owner
	}
	if user.Credits == nil {
		credits := 0
		user.Credits = &credits
	}
	return s.repo.Create(user)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns the healed profile for the account. When the stored
// record is incomplete, the backfill patch is persisted before returning so
// the record self-heals on first read.
func (s *Service) GetProfile(id int) (Profile, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return Profile{}, err
	}

	profile, patch := HealProfile(u)
	if !patch.IsEmpty() {
		if err := s.repo.UpdateProfile(id, patch); err != nil {
			return Profile{}, err
		}
	}
	return profile, nil
}

// UpdateProfile applies a partial profile update and returns the new view.
func (s *Service) UpdateProfile(id int, patch ProfilePatch) (Profile, error) {
	if !patch.IsEmpty() {
		if err := s.repo.UpdateProfile(id, patch); err != nil {
			return Profile{}, err
		}
	}
	return s.GetProfile(id)
}

// BecomeStoreOwner flags the account as a store owner.
func (s *Service) BecomeStoreOwner(id int) (Profile, error) {
	owner := true
	return s.UpdateProfile(id, ProfilePatch{IsStoreOwner: &owner})
}

func (s *Service) AddCredits(id, amount int) error {
	return s.repo.AddCredits(id, amount)
}

func (s *Service) DebitCredits(id, amount int) error {
	if amount == 0 {
		return nil
	}
	return s.repo.DebitCredits(id, amount)
}
