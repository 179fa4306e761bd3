package store

// AdType selects the visibility tier of an ad and drives its credit cost.
type AdType string

const (
	AdTypeStandard  AdType = "standard"
	AdTypeOffer     AdType = "offer"
	AdTypePromotion AdType = "promotion"
)

// CreditCost returns the number of credits debited from the owner when the
// ad is posted. Unknown types cost nothing.
func (t AdType) CreditCost() int {
	switch t {
	case AdTypeOffer:
		return 1
	case AdTypePromotion:
		return 2
	default:
		return 0
	}
}

// Valid reports whether the type is one of the supported tiers.
func (t AdType) Valid() bool {
	switch t {
	case AdTypeStandard, AdTypeOffer, AdTypePromotion:
		return true
	}
	return false
}

// Ad is a product advertisement posted by a store owner. The owner's display
// name is denormalized onto the record so store pages render without a join.
type Ad struct {
	ID             string  `json:"id"`
	StoreOwnerID   int     `json:"storeOwnerId"`
	StoreOwnerName string  `json:"storeOwnerName"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Category       string  `json:"category"`
	ImageURL       string  `json:"imageUrl"`
	AdType         AdType  `json:"adType"`
	CreatedAt      int64   `json:"createdAt"`
}

// Storefront is the public store page header: the owner's profile fields a
// visitor is allowed to see.
type Storefront struct {
	StoreID   int    `json:"storeId"`
	StoreName string `json:"storeName"`
}

// AllowedCategories contains the supported ad categories used across the app.
var AllowedCategories = []string{
	"Eletrônicos",
	"Informática",
	"Celulares",
	"Eletrodomésticos",
	"Casa e Decoração",
	"Moda",
	"Esporte e Lazer",
	"Outros",
}
