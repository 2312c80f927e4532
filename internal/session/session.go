// Package session maps Discord login data onto the sessions used by the
// web handlers.
package session

import (
	"strconv"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
)

type Status string

const (
	StatusLoading         Status = "loading"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

// discordEpoch is the first millisecond of 2015, the base of Discord snowflakes.
const discordEpoch = 1420070400000

type DiscordUser struct {
	ID            string
	Username      string
	Discriminator string
	Avatar        string
	Banner        string
	AccentColor   *int
	Verified      bool
	Email         string
	CreatedAt     time.Time
}

type Session struct {
	Status  Status
	Discord *DiscordUser
}

func Loading() Session {
	return Session{Status: StatusLoading}
}

func Anonymous() Session {
	return Session{Status: StatusUnauthenticated}
}

func Authenticated(u DiscordUser) Session {
	return Session{Status: StatusAuthenticated, Discord: &u}
}

// DiscordID returns the id of the logged in Discord user or "".
func (s Session) DiscordID() string {
	if s.Discord == nil {
		return ""
	}
	return s.Discord.ID
}

// RawUser is the body of Discord's GET /users/@me.
type RawUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Banner        string `json:"banner"`
	AccentColor   *int   `json:"accent_color"`
	Verified      bool   `json:"verified"`
	Email         string `json:"email"`
}

// FromUser converts the raw Discord payload into a DiscordUser.
func FromUser(raw RawUser) DiscordUser {
	return DiscordUser{
		ID:            raw.ID,
		Username:      raw.Username,
		Discriminator: raw.Discriminator,
		Avatar:        raw.Avatar,
		Banner:        raw.Banner,
		AccentColor:   raw.AccentColor,
		Verified:      raw.Verified,
		Email:         raw.Email,
		CreatedAt:     snowflakeTime(raw.ID),
	}
}

// Identity takes the snapshot stored with a submitted application.
func (u DiscordUser) Identity() application.DiscordIdentity {
	return application.DiscordIdentity{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		Verified:  u.Verified,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func snowflakeTime(id string) time.Time {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(n>>22) + discordEpoch).UTC()
}
