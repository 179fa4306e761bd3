package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertAdQuery = `
		INSERT INTO store_ads (id, store_owner_id, store_owner_name, name, description, price, category, image_url, ad_type, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	getAdByIDQuery = `
		SELECT id, store_owner_id, store_owner_name, name, description, price, category, image_url, ad_type, created_at
		FROM store_ads
		WHERE id = $1
	`
	listAdsByStoreQuery = `
		SELECT id, store_owner_id, store_owner_name, name, description, price, category, image_url, ad_type, created_at
		FROM store_ads
		WHERE store_owner_id = $1
		ORDER BY created_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ad Ad) (Ad, error) {
	if ad.ID == "" {
		ad.ID = uuid.NewString()
	}
	if ad.CreatedAt == 0 {
		ad.CreatedAt = time.Now().UnixMilli()
	}

	_, err := r.db.Exec(
		insertAdQuery,
		ad.ID,
		ad.StoreOwnerID,
		ad.StoreOwnerName,
		ad.Name,
		ad.Description,
		ad.Price,
		ad.Category,
		ad.ImageURL,
		string(ad.AdType),
		ad.CreatedAt,
	)
	if err != nil {
		return Ad{}, err
	}
	return ad, nil
}

func (r *PostgresRepository) GetByID(id string) (Ad, error) {
	row := r.db.QueryRow(getAdByIDQuery, id)

	ad, err := scanAd(row)
	if err == sql.ErrNoRows {
		return Ad{}, ErrNotFound
	}
	return ad, err
}

func (r *PostgresRepository) ListByStore(storeOwnerID int) ([]Ad, error) {
	rows, err := r.db.Query(listAdsByStoreQuery, storeOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ad, 0)
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAd(row rowScanner) (Ad, error) {
	ad := Ad{}
	var adType string
	if err := row.Scan(
		&ad.ID,
		&ad.StoreOwnerID,
		&ad.StoreOwnerName,
		&ad.Name,
		&ad.Description,
		&ad.Price,
		&ad.Category,
		&ad.ImageURL,
		&adType,
		&ad.CreatedAt,
	); err != nil {
		return Ad{}, err
	}
	ad.AdType = AdType(adType)
	return ad, nil
}
