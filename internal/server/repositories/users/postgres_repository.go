package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Constraint names from the users migration.
const (
	constraintEmail = "users_email_key"
	constraintPhone = "users_phone_key"
)

// PostgresRepository stores users in PostgreSQL. Uniqueness is enforced by
// the unique indexes on lower(email) and phone; the dependent profile is
// removed by the profiles.user_id foreign key (ON DELETE CASCADE).
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, phone, membership_tier, password_hash, password_salt, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	var tier string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &tier, &u.PasswordHash, &u.PasswordSalt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.MembershipTier = models.MembershipTier(tier)
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, phone, membership_tier, password_hash, password_salt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	rec := user.Clone()
	err := r.db.QueryRowContext(ctx, query,
		rec.Name, rec.Email, rec.Phone, string(rec.MembershipTier), rec.PasswordHash, rec.PasswordSalt).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return nil, mapWriteError(err, rec)
	}

	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE ($1::text IS NULL OR name = $1)
		   AND ($2::text IS NULL OR lower(email) = lower($2))
		   AND ($3::text IS NULL OR phone = $3)
		   AND ($4::text IS NULL OR membership_tier = $4)
		 ORDER BY seq
		 `

	var tier *string
	if filter.MembershipTier != nil {
		t := string(*filter.MembershipTier)
		tier = &t
	}

	rows, err := r.db.QueryContext(ctx, query, nullable(filter.Name), nullable(filter.Email), nullable(filter.Phone), nullable(tier))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	var updated *models.User

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

		cur, err := scanUser(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
			}
			return fmt.Errorf("db error: %w", err)
		}

		next := cur.Clone()
		if err := fn(next); err != nil {
			return err
		}
		next.ID = cur.ID
		next.CreatedAt = cur.CreatedAt

		update :=
			`UPDATE users
			 SET name = $2, email = $3, phone = $4, membership_tier = $5,
			     password_hash = $6, password_salt = $7, updated_at = now()
			 WHERE id = $1
			 RETURNING updated_at
			 `

		err = tx.QueryRowContext(ctx, update, id,
			next.Name, next.Email, next.Phone, string(next.MembershipTier), next.PasswordHash, next.PasswordSalt).
			Scan(&next.UpdatedAt)
		if err != nil {
			return mapWriteError(err, next)
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user %s", common.ErrorNotFound, id)
	}

	return nil
}

func mapWriteError(err error, u *models.User) error {
	if name, ok := dbx.UniqueViolation(err); ok {
		switch name {
		case constraintEmail:
			return fmt.Errorf("%w: email %s already in use", common.ErrorConflict, u.Email)
		case constraintPhone:
			return fmt.Errorf("%w: phone %s already in use", common.ErrorConflict, u.Phone)
		default:
			return fmt.Errorf("%w: %s", common.ErrorConflict, name)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// nullable turns a nil *string into an untyped nil so the driver sends NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
