package archive

import (
	"fmt"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/session"
)

// Card is one archived application prepared for the page template.
type Card struct {
	application.Application

	Approved       bool
	Badge          string
	Processed      string
	AvatarURL      string
	AccountCreated string
	AgeText        string
	CharacterText  string
	ExperienceText string
}

func NewCard(app application.Application) Card {
	c := Card{
		Application:    app,
		Approved:       app.Status == application.StatusApproved,
		Badge:          "DENEGADO",
		Processed:      ProcessedDate(app.UpdatedAt),
		AvatarURL:      session.AvatarURL(app.Discord.ID, app.Discord.Avatar),
		AgeText:        fmt.Sprintf("%d años", app.Age),
		CharacterText:  OrPlaceholder(app.CharacterName, "No especificado"),
		ExperienceText: OrPlaceholder(app.Experience, "No especificada"),
	}
	if c.Approved {
		c.Badge = "APROBADO"
	}
	if !app.Discord.CreatedAt.IsZero() {
		c.AccountCreated = ProcessedDate(app.Discord.CreatedAt)
	}
	return c
}
