package domain

import "time"

// Profile is the GitHub user shown in the about-me panel
type Profile struct {
	Login        string    `json:"login"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	AvatarURL    string    `json:"avatarUrl"`
	URL          string    `json:"url"`
	WebsiteURL   string    `json:"websiteUrl"`
	Followers    int       `json:"followers"`
	Following    int       `json:"following"`
	Repositories int       `json:"repositories"`
	CreatedAt    time.Time `json:"createdAt"`
}
