// Package notify tells applicants about the decision on their application.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ProsperityMC/whitelist-form/internal/application"
	"github.com/ProsperityMC/whitelist-form/internal/form"
	"github.com/avast/retry-go/v4"
	"github.com/bwmarrin/discordgo"
)

const (
	colorApproved = 0x16a34a
	colorDenied   = 0xdc2626
)

type Notifier interface {
	Decided(ctx context.Context, app application.Application) error
}

// Nop is used when no bot token is configured.
type Nop struct{}

func (Nop) Decided(context.Context, application.Application) error { return nil }

// Sender is the part of a discordgo session used to deliver direct messages.
type Sender interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord sends the decision to the applicant as a direct message embed.
type Discord struct {
	sender   Sender
	bot      form.DiscordBot
	attempts uint
	delay    time.Duration
}

func NewDiscord(sender Sender, bot form.DiscordBot) *Discord {
	return &Discord{sender: sender, bot: bot, attempts: 3, delay: time.Second}
}

// NewBot opens a REST only discordgo session for token.
func NewBot(token string, bot form.DiscordBot) (*Discord, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return NewDiscord(s, bot), nil
}

func (d *Discord) Decided(ctx context.Context, app application.Application) error {
	embed := Embed(d.bot, app)
	return retry.Do(func() error {
		ch, err := d.sender.UserChannelCreate(app.Discord.ID, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("open dm channel: %w", err)
		}
		if _, err := d.sender.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("send decision: %w", err)
		}
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(d.attempts),
		retry.Delay(d.delay),
		retry.LastErrorOnly(true),
	)
}

// Embed builds the decision message branded with the server's bot settings.
func Embed(bot form.DiscordBot, app application.Application) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Timestamp: app.UpdatedAt.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    bot.ServerName,
			IconURL: bot.ServerIcon,
		},
	}
	if app.Status == application.StatusApproved {
		e.Title = "Solicitud aprobada"
		e.Description = fmt.Sprintf("¡Felicidades %s! Tu solicitud de whitelist para %s ha sido aprobada.", app.Discord.Username, bot.ServerName)
		e.Color = colorApproved
	} else {
		e.Title = "Solicitud denegada"
		e.Description = fmt.Sprintf("%s, tu solicitud de whitelist para %s ha sido denegada.", app.Discord.Username, bot.ServerName)
		e.Color = colorDenied
	}
	if app.StatusReason != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  "Razón de la Decisión",
			Value: app.StatusReason,
		})
	}
	if bot.ServerIcon != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: bot.ServerIcon}
	}
	if bot.FooterText != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: bot.FooterText, IconURL: bot.ServerIcon}
	}
	return e
}
