package user

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery = `
		SELECT id, email, password, display_name, is_store_owner, credits, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	getUserByEmailQuery = `
		SELECT id, email, password, display_name, is_store_owner, credits, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (email, password, display_name, is_store_owner, credits, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	addCreditsQuery = `
		UPDATE users SET credits = COALESCE(credits, 0) + $1 WHERE id = $2
	`
	debitCreditsQuery = `
		UPDATE users SET credits = COALESCE(credits, 0) - $1
		WHERE id = $2 AND COALESCE(credits, 0) >= $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Create(user User) (User, error) {
	var id int
	err := r.db.QueryRow(
		insertUserQuery,
		user.Email,
		user.Password,
		user.DisplayName,
		user.IsStoreOwner,
		user.Credits,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	user.ID = id
	return user, nil
}

func (r *PostgresRepository) UpdateProfile(id int, patch ProfilePatch) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.DisplayName != nil {
		add("display_name", *patch.DisplayName)
	}
	if patch.IsStoreOwner != nil {
		add("is_store_owner", *patch.IsStoreOwner)
	}
	if patch.Credits != nil {
		add("credits", *patch.Credits)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

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

func (r *PostgresRepository) AddCredits(id int, amount int) error {
	result, err := r.db.Exec(addCreditsQuery, amount, id)
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

// DebitCredits relies on the conditional UPDATE for the balance check; there
// is no read-modify-write, so concurrent debits cannot overdraw.
func (r *PostgresRepository) DebitCredits(id int, amount int) error {
	result, err := r.db.Exec(debitCreditsQuery, amount, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientCredits
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	u := User{}
	var (
		displayName  sql.NullString
		isStoreOwner sql.NullBool
		credits      sql.NullInt64
		createdAt    sql.NullString
		updatedAt    sql.NullString
	)

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Password,
		&displayName,
		&isStoreOwner,
		&credits,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if displayName.Valid {
		u.DisplayName = &displayName.String
	}
	if isStoreOwner.Valid {
		u.IsStoreOwner = &isStoreOwner.Bool
	}
	if credits.Valid {
		v := int(credits.Int64)
		u.Credits = &v
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		u.UpdatedAt = updatedAt.String
	}
	return u, nil
}
