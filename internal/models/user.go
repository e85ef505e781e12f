package models

import "time"

// User is a Telegram user of the bot.
type User struct {
	ID             int64      `db:"id"`
	Username       *string    `db:"username"`
	FirstName      *string    `db:"first_name"`
	LastName       *string    `db:"last_name"`
	CreatedAt      time.Time  `db:"created_at"`
	LastCheck      *time.Time `db:"last_check"`
	CheckEnabled   bool       `db:"check_enabled"`
	NotifyInterval int        `db:"notify_interval"` // in min
}

// Profile is the authenticated backend account returned by /api/auth/me.
type Profile struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
	Authority       string `json:"authority"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Authority == "ADMIN"
}
