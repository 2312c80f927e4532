// Package archive is the admin view over decided applications: access
// control, fetching, free text filtering and the data the archive page
// template renders.
package archive

import (
	"strings"

	"github.com/ProsperityMC/whitelist-form/internal/application"
)

// searchable lists the text fields a query is matched against. Age, the
// rules flag and the status are not searched.
var searchable = []func(a *application.Application) string{
	func(a *application.Application) string { return a.Username },
	func(a *application.Application) string { return a.CharacterName },
	func(a *application.Application) string { return a.Discord.Username },
	func(a *application.Application) string { return a.Discord.ID },
	func(a *application.Application) string { return a.Birthplace },
	func(a *application.Application) string { return a.Occupation },
	func(a *application.Application) string { return a.Qualities },
	func(a *application.Application) string { return a.Experience },
	func(a *application.Application) string { return a.Description },
	func(a *application.Application) string { return a.Character },
	func(a *application.Application) string { return a.Motivation },
	func(a *application.Application) string { return a.Weaknesses },
	func(a *application.Application) string { return a.Education },
	func(a *application.Application) string { return a.StatusReason },
}

// Filter returns the applications with at least one searchable field
// containing query, ignoring case. A blank query returns apps unchanged.
// The relative order of apps is kept.
func Filter(apps []application.Application, query string) []application.Application {
	if strings.TrimSpace(query) == "" {
		return apps
	}
	q := strings.ToLower(query)
	out := make([]application.Application, 0, len(apps))
	for i := range apps {
		if Matches(&apps[i], q) {
			out = append(out, apps[i])
		}
	}
	return out
}

// Matches reports whether any searchable field of a contains the lower
// cased query q.
func Matches(a *application.Application, q string) bool {
	for _, field := range searchable {
		if v := field(a); v != "" && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
