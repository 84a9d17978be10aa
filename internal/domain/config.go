package domain

import "time"

type Config struct {
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APIToken          string        `mapstructure:"api_token"`
	GitHubAPIURL      string        `mapstructure:"github_api_url"`
	GitHubProfileURL  string        `mapstructure:"github_profile_url"`
	GitHubToken       string        `mapstructure:"github_token"`
	GitHubUser        string        `mapstructure:"github_user"`
	DBDir             string        `mapstructure:"db_dir"`
	ProbeURL          string        `mapstructure:"probe_url"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	RetryMax          int           `mapstructure:"retry_max"`
	WriteThrough      bool          `mapstructure:"write_through"`
	RandomCount       int           `mapstructure:"random_count"`
	NSFW              bool          `mapstructure:"nsfw"`
	DiscordWebhookURL string        `mapstructure:"discord_webhook_url"`
	LogLevel          string        `mapstructure:"log_level"`
}
