package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/aniview/internal/domain"
	"github.com/varoOP/aniview/internal/live"
)

var animeColumns = []string{
	"id", "anilist_id", "mal_id", "title", "format", "status",
	"season_period", "season_year", "genres", "nsfw", "payload", "cached_at",
}

// AnimeRepo implements domain.AnimeRepo on SQLite
type AnimeRepo struct {
	log zerolog.Logger
	db  *DB

	feedMu     sync.Mutex
	feed       *live.Value[[]domain.Anime]
	feedLoaded bool
}

var _ domain.AnimeRepo = (*AnimeRepo)(nil)

// NewAnimeRepo creates a new anime repository
func NewAnimeRepo(log zerolog.Logger, db *DB) *AnimeRepo {
	return &AnimeRepo{
		log:  log.With().Str("repo", "anime").Logger(),
		db:   db,
		feed: live.New[[]domain.Anime](),
	}
}

// Upsert inserts or replaces an anime by id
func (r *AnimeRepo) Upsert(ctx context.Context, anime domain.Anime) error {
	query, args, err := r.upsertQuery(anime)
	if err != nil {
		return err
	}

	r.log.Trace().Str("query", query).Int("id", anime.ID).Msg("Upsert")

	r.db.lock.Lock()
	_, err = r.db.handler.ExecContext(ctx, query, args...)
	r.db.lock.Unlock()
	if err != nil {
		return errors.Wrap(err, "error executing query")
	}

	r.publish(ctx)
	return nil
}

// UpsertAll inserts or replaces every anime in a single transaction
func (r *AnimeRepo) UpsertAll(ctx context.Context, anime []domain.Anime) error {
	if len(anime) == 0 {
		return nil
	}

	r.db.lock.Lock()
	err := r.upsertAll(ctx, anime)
	r.db.lock.Unlock()
	if err != nil {
		return err
	}

	r.log.Debug().Int("count", len(anime)).Msg("UpsertAll")
	r.publish(ctx)
	return nil
}

func (r *AnimeRepo) upsertAll(ctx context.Context, anime []domain.Anime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range anime {
		query, args, err := r.upsertQuery(a)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "error upserting anime %d", a.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "error committing transaction")
	}
	return nil
}

func (r *AnimeRepo) upsertQuery(anime domain.Anime) (string, []any, error) {
	payload, err := json.Marshal(anime)
	if err != nil {
		return "", nil, errors.Wrap(err, "error marshalling anime")
	}

	query, args, err := r.db.squirrel.
		Replace("anime").
		Columns(animeColumns...).
		Values(
			anime.ID,
			anime.AniListID,
			anime.MalID,
			anime.Title(),
			int(anime.Format),
			int(anime.Status),
			int(anime.SeasonPeriod),
			anime.SeasonYear,
			encodeGenres(anime.Genres),
			anime.NSFW,
			string(payload),
			time.Now().UTC().Format(time.RFC3339),
		).
		ToSql()
	if err != nil {
		return "", nil, errors.Wrap(err, "error building query")
	}
	return query, args, nil
}

// Delete removes a single anime
func (r *AnimeRepo) Delete(ctx context.Context, id int) error {
	return r.delete(ctx, r.db.squirrel.Delete("anime").Where(sq.Eq{"id": id}))
}

// DeleteAll removes every cached anime
func (r *AnimeRepo) DeleteAll(ctx context.Context) error {
	return r.delete(ctx, r.db.squirrel.Delete("anime"))
}

func (r *AnimeRepo) delete(ctx context.Context, queryBuilder sq.DeleteBuilder) error {
	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return errors.Wrap(err, "error building delete query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("Delete")

	r.db.lock.Lock()
	_, err = r.db.handler.ExecContext(ctx, query, args...)
	r.db.lock.Unlock()
	if err != nil {
		return errors.Wrap(err, "error executing delete query")
	}

	r.publish(ctx)
	return nil
}

// FindByID returns the cached anime with the given id, or domain.ErrNotFound
func (r *AnimeRepo) FindByID(ctx context.Context, id int) (*domain.Anime, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

// FindByAniListID returns the cached anime with the given AniList id
func (r *AnimeRepo) FindByAniListID(ctx context.Context, aniListID int) (*domain.Anime, error) {
	return r.findOne(ctx, sq.Eq{"anilist_id": aniListID})
}

// FindByYear returns the first cached anime of a season year
func (r *AnimeRepo) FindByYear(ctx context.Context, year int) (*domain.Anime, error) {
	return r.findOne(ctx, sq.Eq{"season_year": year})
}

func (r *AnimeRepo) findOne(ctx context.Context, where sq.Sqlizer) (*domain.Anime, error) {
	list, err := r.query(ctx, r.selectPayload().Where(where).OrderBy("id").Limit(1))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return &list[0], nil
}

// Search returns cached anime matching criteria, ordered by id
func (r *AnimeRepo) Search(ctx context.Context, criteria *domain.FilterCriteria) ([]domain.Anime, error) {
	return r.query(ctx, r.selectPayload().Where(criteriaWhere(criteria)).OrderBy("id"))
}

// List returns every cached anime, ordered by id
func (r *AnimeRepo) List(ctx context.Context) ([]domain.Anime, error) {
	return r.query(ctx, r.selectPayload().OrderBy("id"))
}

// Random returns up to count cached anime in random order
func (r *AnimeRepo) Random(ctx context.Context, count int, nsfw bool) ([]domain.Anime, error) {
	queryBuilder := r.selectPayload().OrderBy("RANDOM()").Limit(uint64(max(count, 1)))
	if !nsfw {
		queryBuilder = queryBuilder.Where(sq.Eq{"nsfw": false})
	}
	return r.query(ctx, queryBuilder)
}

// Count returns the number of cached anime
func (r *AnimeRepo) Count(ctx context.Context) (int, error) {
	query, args, err := r.db.squirrel.Select("COUNT(*)").From("anime").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "error building query")
	}

	var count int
	if err := r.db.handler.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error executing query")
	}
	return count, nil
}

// Feed returns the reactive list of every cached anime. It is loaded on first
// use and republished after each write.
func (r *AnimeRepo) Feed(ctx context.Context) (*live.Value[[]domain.Anime], error) {
	r.feedMu.Lock()
	loaded := r.feedLoaded
	r.feedMu.Unlock()

	if !loaded {
		list, err := r.List(ctx)
		if err != nil {
			return nil, err
		}
		r.feedMu.Lock()
		r.feedLoaded = true
		r.feedMu.Unlock()
		r.feed.Set(list)
	}
	return r.feed, nil
}

func (r *AnimeRepo) publish(ctx context.Context) {
	r.feedMu.Lock()
	loaded := r.feedLoaded
	r.feedMu.Unlock()
	if !loaded {
		return
	}

	list, err := r.List(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to refresh anime feed")
		return
	}
	r.feed.Set(list)
}

func (r *AnimeRepo) selectPayload() sq.SelectBuilder {
	return r.db.squirrel.Select("payload").From("anime")
}

func (r *AnimeRepo) query(ctx context.Context, queryBuilder sq.SelectBuilder) ([]domain.Anime, error) {
	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "error building query")
	}

	r.log.Trace().Str("query", query).Interface("args", args).Msg("query")

	rows, err := r.db.handler.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	var result []domain.Anime
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}

		var a domain.Anime
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, errors.Wrapf(domain.ErrSerialization, "corrupt cached payload: %v", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}

	return result, nil
}

func criteriaWhere(criteria *domain.FilterCriteria) sq.And {
	where := sq.And{}
	if criteria.IsZero() {
		return where
	}

	if t := strings.TrimSpace(criteria.Title); t != "" {
		where = append(where, sq.Like{"title": "%" + t + "%"})
	}
	if criteria.AniListID != nil {
		where = append(where, sq.Eq{"anilist_id": *criteria.AniListID})
	}
	if criteria.MalID != nil {
		where = append(where, sq.Eq{"mal_id": *criteria.MalID})
	}
	if len(criteria.Formats) > 0 {
		formats := make([]int, 0, len(criteria.Formats))
		for _, f := range criteria.Formats {
			formats = append(formats, int(f))
		}
		where = append(where, sq.Eq{"format": formats})
	}
	if criteria.Status != nil {
		where = append(where, sq.Eq{"status": int(*criteria.Status)})
	}
	if criteria.Year != nil {
		where = append(where, sq.Eq{"season_year": *criteria.Year})
	}
	if criteria.Season != nil {
		where = append(where, sq.Eq{"season_period": int(*criteria.Season)})
	}
	for _, g := range criteria.Genres {
		where = append(where, sq.Like{"genres": "%|" + g + "|%"})
	}
	if criteria.NSFW != nil {
		where = append(where, sq.Eq{"nsfw": *criteria.NSFW})
	}

	return where
}

func encodeGenres(genres []string) string {
	if len(genres) == 0 {
		return ""
	}
	return "|" + strings.Join(genres, "|") + "|"
}

// isNoRows reports whether err means an empty single-row result
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
