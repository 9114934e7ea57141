package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

// Constraint names from the profiles migration.
const (
	constraintUserID   = "profiles_user_id_key"
	constraintUsername = "profiles_username_key"
	constraintUserFK   = "profiles_user_id_fkey"
)

// PostgresRepository stores profiles in PostgreSQL. The user reference is a
// foreign key with ON DELETE CASCADE, so removing a user removes its profile
// in the same statement.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `id, user_id, username, display_name, avatar_url, bio, style_tags, created_at, updated_at`

func scanProfile(row interface{ Scan(dest ...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	var displayName, avatarURL, bio sql.NullString
	var tags []byte

	err := row.Scan(&p.ID, &p.UserID, &p.Username, &displayName, &avatarURL, &bio, &tags, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.DisplayName = fromNull(displayName)
	p.AvatarURL = fromNull(avatarURL)
	p.Bio = fromNull(bio)

	p.StyleTags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.StyleTags); err != nil {
			return nil, fmt.Errorf("decode style_tags: %w", err)
		}
	}

	return p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode style_tags: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {

	query :=
		`INSERT INTO profiles (user_id, username, display_name, avatar_url, bio, style_tags)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		 RETURNING id, created_at, updated_at
		 `

	rec := profile.Clone()
	tags, err := encodeTags(rec.StyleTags)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Username, nullable(rec.DisplayName), nullable(rec.AvatarURL), nullable(rec.Bio), tags).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return nil, mapWriteError(err, rec)
	}

	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile for user %s", common.ErrorNotFound, userID)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	query :=
		`SELECT ` + profileColumns + ` FROM profiles
		 WHERE ($1::uuid IS NULL OR user_id = $1)
		   AND ($2::text IS NULL OR lower(username) = lower($2))
		 ORDER BY seq
		 `

	rows, err := r.db.QueryContext(ctx, query, nullable(filter.UserID), nullable(filter.Username))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, fn func(p *models.Profile) error) (*models.Profile, error) {
	var updated *models.Profile

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`

		cur, err := scanProfile(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
			}
			return fmt.Errorf("db error: %w", err)
		}

		next := cur.Clone()
		if err := fn(next); err != nil {
			return err
		}
		if next.UserID != cur.UserID {
			return fmt.Errorf("%w: user_id of a profile cannot change", common.ErrorValidation)
		}
		next.ID = cur.ID
		next.CreatedAt = cur.CreatedAt

		tags, err := encodeTags(next.StyleTags)
		if err != nil {
			return err
		}

		update :=
			`UPDATE profiles
			 SET username = $2, display_name = $3, avatar_url = $4, bio = $5,
			     style_tags = $6::jsonb, updated_at = now()
			 WHERE id = $1
			 RETURNING updated_at
			 `

		err = tx.QueryRowContext(ctx, update, id,
			next.Username, nullable(next.DisplayName), nullable(next.AvatarURL), nullable(next.Bio), tags).
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: profile %s", common.ErrorNotFound, id)
	}

	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func mapWriteError(err error, p *models.Profile) error {
	if name, ok := dbx.UniqueViolation(err); ok {
		switch name {
		case constraintUserID:
			return fmt.Errorf("%w: user %s already has a profile", common.ErrorConflict, p.UserID)
		case constraintUsername:
			return fmt.Errorf("%w: username %s already taken", common.ErrorConflict, p.Username)
		default:
			return fmt.Errorf("%w: %s", common.ErrorConflict, name)
		}
	}
	if name, ok := dbx.ForeignKeyViolation(err); ok && name == constraintUserFK {
		return fmt.Errorf("%w: user %s", common.ErrorNotFound, p.UserID)
	}
	return fmt.Errorf("db error: %w", err)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
