package database

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
)

// ProfileRepo implements domain.ProfileRepo on SQLite
type ProfileRepo struct {
	log zerolog.Logger
	db  *DB
}

var _ domain.ProfileRepo = (*ProfileRepo)(nil)

// NewProfileRepo creates a new profile repository
func NewProfileRepo(log zerolog.Logger, db *DB) *ProfileRepo {
	return &ProfileRepo{
		log: log.With().Str("repo", "profile").Logger(),
		db:  db,
	}
}

// Upsert inserts or replaces a profile by login
func (r *ProfileRepo) Upsert(ctx context.Context, profile domain.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "error marshalling profile")
	}

	query, args, err := r.db.squirrel.
		Replace("github_profile").
		Columns("login", "payload", "cached_at").
		Values(strings.ToLower(profile.Login), string(payload), time.Now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Str("login", profile.Login).Msg("Upsert")

	r.db.lock.Lock()
	defer r.db.lock.Unlock()
	if _, err := r.db.handler.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}
	return nil
}

// Find returns the cached profile of login, or domain.ErrNotFound
func (r *ProfileRepo) Find(ctx context.Context, login string) (*domain.Profile, error) {
	query, args, err := r.db.squirrel.
		Select("payload").
		From("github_profile").
		Where(sq.Eq{"login": strings.ToLower(login)}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Find")

	var payload string
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "error executing query")
	}

	p := &domain.Profile{}
	if err := json.Unmarshal([]byte(payload), p); err != nil {
		return nil, errors.Wrapf(domain.ErrSerialization, "corrupt cached profile: %v", err)
	}
	return p, nil
}
