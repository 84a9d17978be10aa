package database

const schema = `
-- Cached anime, one row per catalog id. payload holds the full JSON record,
-- the other columns exist for lookups and offline filtering.
CREATE TABLE anime (
	id INTEGER PRIMARY KEY,
	anilist_id INTEGER NOT NULL DEFAULT 0,
	mal_id INTEGER NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	format INTEGER NOT NULL DEFAULT 0,
	status INTEGER NOT NULL DEFAULT 0,
	season_period INTEGER NOT NULL DEFAULT 0,
	season_year INTEGER NOT NULL DEFAULT 0,
	genres TEXT NOT NULL DEFAULT '',
	nsfw BOOLEAN NOT NULL DEFAULT 0,
	payload TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_anime_anilist_id ON anime(anilist_id);
CREATE INDEX idx_anime_mal_id ON anime(mal_id);
CREATE INDEX idx_anime_title ON anime(title);
CREATE INDEX idx_anime_season_year ON anime(season_year);
CREATE INDEX idx_anime_cached_at ON anime(cached_at);

-- GitHub profile shown in the about-me panel
CREATE TABLE github_profile (
	login TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL
);
`

// migrations contains incremental schema changes
// Each migration is applied in order based on the current user_version
// migrations[0] is empty because version 0 uses the base schema
var migrations = []string{
	"",
	`CREATE TABLE IF NOT EXISTS github_profile (
	login TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	cached_at TIMESTAMP NOT NULL
);`,
}
