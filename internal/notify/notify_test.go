package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	failures int
	opened   []string
	sent     []*discordgo.MessageEmbed
}

func (f *fakeSender) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.opened = append(f.opened, recipientID)
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("rate limited")
	}
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.sent = append(f.sent, embed)
	return &discordgo.Message{ChannelID: channelID}, nil
}

var bot = form.DiscordBot{ServerName: "Sigma RP", ServerIcon: "https://example.com/icon.png", FooterText: "Sigma RP Staff"}

func TestEmbed(t *testing.T) {
	require := require.New(t)
	at := time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)

	e := Embed(bot, application.Application{
		Discord:   application.DiscordIdentity{Username: "bob"},
		Status:    application.StatusApproved,
		UpdatedAt: at,
	})
	require.Equal("Solicitud aprobada", e.Title)
	require.Equal(colorApproved, e.Color)
	require.Contains(e.Description, "bob")
	require.Contains(e.Description, "Sigma RP")
	require.Empty(e.Fields)
	require.Equal("Sigma RP Staff", e.Footer.Text)
	require.Equal("https://example.com/icon.png", e.Thumbnail.URL)
	require.Equal("2026-10-14T15:04:00Z", e.Timestamp)

	e = Embed(form.DiscordBot{ServerName: "Sigma RP"}, application.Application{
		Status:       application.StatusDenied,
		StatusReason: "incomplete backstory",
	})
	require.Equal("Solicitud denegada", e.Title)
	require.Equal(colorDenied, e.Color)
	require.Len(e.Fields, 1)
	require.Equal("incomplete backstory", e.Fields[0].Value)
	require.Nil(e.Footer)
	require.Nil(e.Thumbnail)
}

func TestDiscordDecided(t *testing.T) {
	require := require.New(t)
	s := &fakeSender{failures: 1}
	d := NewDiscord(s, bot)
	d.delay = time.Millisecond

	err := d.Decided(context.Background(), application.Application{
		Discord: application.DiscordIdentity{ID: "42"},
		Status:  application.StatusApproved,
	})
	require.NoError(err)
	require.Equal([]string{"42", "42"}, s.opened)
	require.Len(s.sent, 1)
}

func TestDiscordDecidedGivesUp(t *testing.T) {
	s := &fakeSender{failures: 10}
	d := NewDiscord(s, bot)
	d.delay = time.Millisecond

	err := d.Decided(context.Background(), application.Application{Discord: application.DiscordIdentity{ID: "42"}})
	require.Error(t, err)
	require.Len(t, s.opened, 3)
	require.Empty(t, s.sent)
}

func TestNop(t *testing.T) {
	require.NoError(t, Nop{}.Decided(context.Background(), application.Application{}))
}
