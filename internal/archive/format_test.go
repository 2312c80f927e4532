package archive

import (
	"testing"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/stretchr/testify/require"
)

func TestProcessedDate(t *testing.T) {
	require.Equal(t, "14 oct 2026, 15:04", ProcessedDate(time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)))
	require.Equal(t, "1 ene 2024, 09:00", ProcessedDate(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
}

func TestResultCount(t *testing.T) {
	require.Equal(t, "0 resultados encontrados", ResultCount(0))
	require.Equal(t, "1 resultado encontrado", ResultCount(1))
	require.Equal(t, "12 resultados encontrados", ResultCount(12))
}

func TestNewCard(t *testing.T) {
	require := require.New(t)
	c := NewCard(application.Application{
		Answers: application.Answers{Age: 19},
		Discord: application.DiscordIdentity{ID: "1"},
		Status:  application.StatusDenied,
	})
	require.False(c.Approved)
	require.Equal("DENEGADO", c.Badge)
	require.Equal("19 años", c.AgeText)
	require.Equal("No especificado", c.CharacterText)
	require.Equal("No especificada", c.ExperienceText)
	require.Empty(c.AccountCreated)

	c = NewCard(application.Application{
		Answers: application.Answers{CharacterName: "Tony", Experience: "2 years"},
		Status:  application.StatusApproved,
	})
	require.True(c.Approved)
	require.Equal("APROBADO", c.Badge)
	require.Equal("Tony", c.CharacterText)
	require.Equal("2 years", c.ExperienceText)
}
