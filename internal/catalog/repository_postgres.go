package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db    *sql.DB
	clock clock
}

const (
	insertProductQuery = `
		INSERT INTO catalog_products (id, name, description, source_url, image_url, price, availability, seller_name, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	getProductByIDQuery = `
		SELECT id, name, description, source_url, image_url, price, availability, seller_name, category, attributes, created_at
		FROM catalog_products
		WHERE id = $1
	`
	listProductsQuery = `
		SELECT id, name, description, source_url, image_url, price, availability, seller_name, category, attributes, created_at
		FROM catalog_products
		ORDER BY created_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(input ProductInput) (Product, error) {
	if input.Name == "" {
		return Product{}, ErrMissingName
	}
	if input.Description == "" {
		input.Description = input.Name
	}

	p := Product{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		SourceURL:    input.SourceURL,
		ImageURL:     input.ImageURL,
		Price:        input.Price,
		Availability: input.Availability,
		SellerName:   input.SellerName,
		CreatedAt:    r.clock.next(),
	}

	_, err := r.db.Exec(insertProductQuery,
		p.ID,
		p.Name,
		p.Description,
		p.SourceURL,
		p.ImageURL,
		p.Price,
		p.Availability,
		p.SellerName,
		p.CreatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// Update builds a SET clause from the non-nil patch fields only, so absent
// fields can never be nulled out by a merge.
func (r *PostgresRepository) Update(id string, patch Patch) error {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.SourceURL != nil {
		add("source_url", *patch.SourceURL)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Availability != nil {
		add("availability", *patch.Availability)
	}
	if patch.SellerName != nil {
		add("seller_name", *patch.SellerName)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Attributes != nil {
		raw, err := json.Marshal(patch.Attributes)
		if err != nil {
			return err
		}
		add("attributes", string(raw))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE catalog_products SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) List(limit int) ([]Product, error) {
	query := listProductsQuery
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		sourceURL    sql.NullString
		price        sql.NullString
		availability sql.NullString
		sellerName   sql.NullString
		category     sql.NullString
		attributes   sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&sourceURL,
		&p.ImageURL,
		&price,
		&availability,
		&sellerName,
		&category,
		&attributes,
		&p.CreatedAt,
	); err != nil {
		return Product{}, err
	}

	if sourceURL.Valid {
		p.SourceURL = &sourceURL.String
	}
	if price.Valid {
		p.Price = &price.String
	}
	if availability.Valid {
		p.Availability = &availability.String
	}
	if sellerName.Valid {
		p.SellerName = &sellerName.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if attributes.Valid && attributes.String != "" {
		attrs := map[string]any{}
		if err := json.Unmarshal([]byte(attributes.String), &attrs); err == nil {
			p.Attributes = attrs
		}
	}

	return p, nil
}
