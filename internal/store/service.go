package store

import (
	"errors"

	"github.com/precoreal/storefront-backend/internal/user"
)

var ErrNotStoreOwner = errors.New("account is not a store owner")

// Profiles is the slice of the account service the store package needs:
// profile lookup for the owner check and the credit debit at post time.
type Profiles interface {
	GetProfile(id int) (user.Profile, error)
	DebitCredits(id, amount int) error
}

type Service struct {
	repo     Repository
	profiles Profiles
}

func NewService(repo Repository, profiles Profiles) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// PostAd publishes an ad for the account. The account must be a store owner
// and, for paid tiers, hold enough credits; the debit happens before the
// insert so a failed balance check never leaves a published ad behind.
func (s *Service) PostAd(ownerID int, ad Ad) (Ad, error) {
	profile, err := s.profiles.GetProfile(ownerID)
	if err != nil {
		return Ad{}, err
	}
	if !profile.IsStoreOwner {
		return Ad{}, ErrNotStoreOwner
	}

	if err := s.profiles.DebitCredits(ownerID, ad.AdType.CreditCost()); err != nil {
		return Ad{}, err
	}

	ad.StoreOwnerID = ownerID
	ad.StoreOwnerName = profile.DisplayName
	return s.repo.Create(ad)
}

func (s *Service) GetAd(id string) (Ad, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByStore(storeOwnerID int) ([]Ad, error) {
	return s.repo.ListByStore(storeOwnerID)
}

// Storefront resolves the public store page header from the owner's profile.
func (s *Service) Storefront(storeOwnerID int) (Storefront, error) {
	profile, err := s.profiles.GetProfile(storeOwnerID)
	if err != nil {
		return Storefront{}, err
	}
	if !profile.IsStoreOwner {
		return Storefront{}, ErrNotStoreOwner
	}
	return Storefront{StoreID: profile.UserID, StoreName: profile.DisplayName}, nil
}
