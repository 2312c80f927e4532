package main

import (
	"html/template"

	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/ProsperityMC/whitelist-form/internal/session"
)

const adminButtonHTML = template.HTML(`<a href="/admin/applications" class="button admin-button"><svg class="icon" fill="none" stroke="currentColor" viewBox="0 0 24 24"><path stroke-linecap="round" stroke-linejoin="round" stroke-width="2" d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/></svg>Admin Panel</a>`)

// AdminButton renders the link to the review queue for admins and nothing
// for everyone else.
func AdminButton(forms *form.Config, sess session.Session) template.HTML {
	if sess.Discord == nil || !forms.IsAdmin(sess.Discord.ID) {
		return ""
	}
	return adminButtonHTML
}
