package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// Session is the subset of the discordgo REST API used to inspect and
// extend a guild. *discordgo.Session satisfies it.
type Session interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	WebhookCreate(channelID, name, avatar string, options ...discordgo.RequestOption) (*discordgo.Webhook, error)
}

// Guild reads and mutates the channel tree of one Discord guild.
type Guild struct {
	session Session
	guildID string
	log     *logger.Logger
}

// NewGuild creates a Guild bound to guildID
func NewGuild(session Session, guildID string, log *logger.Logger) *Guild {
	return &Guild{
		session: session,
		guildID: guildID,
		log:     log,
	}
}

// ChannelGroups returns the category channels currently present in the
// guild. Text and voice channels are left out.
func (g *Guild) ChannelGroups(ctx context.Context) ([]models.ChannelGroup, error) {
	resource := "guild " + g.guildID

	guild, err := g.session.Guild(g.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError(err, resource)
	}

	channels, err := g.session.GuildChannels(g.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapError(err, "channels of "+resource)
	}

	groups := make([]models.ChannelGroup, 0)
	for _, c := range channels {
		if c == nil || c.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}
		groups = append(groups, models.ChannelGroup{ID: c.ID, Name: c.Name})
	}

	g.log.Debugf("Guild %s has %d channels, %d categories", guild.Name, len(channels), len(groups))

	return groups, nil
}

// CreateChannel creates the channel described by the given ChannelSpec
func (g *Guild) CreateChannel(ctx context.Context, spec models.ChannelSpec) (models.Channel, error) {
	channelType, err := channelTypeFor(spec.Kind)
	if err != nil {
		return models.Channel{}, err
	}

	data := discordgo.GuildChannelCreateData{
		Name:     spec.Name,
		Type:     channelType,
		ParentID: spec.ParentID,
	}

	created, err := g.session.GuildChannelCreateComplex(g.guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return models.Channel{}, wrapError(err, fmt.Sprintf("%s channel %q", spec.Kind, spec.Name))
	}

	return models.Channel{
		ID:       created.ID,
		Name:     created.Name,
		Kind:     spec.Kind,
		ParentID: created.ParentID,
	}, nil
}

// CreateWebhook creates an inbound webhook on channelID and resolves its
// delivery URL.
func (g *Guild) CreateWebhook(ctx context.Context, channelID, name string) (models.Webhook, error) {
	created, err := g.session.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return models.Webhook{}, wrapError(err, "webhook on channel "+channelID)
	}

	return models.Webhook{
		ID:        created.ID,
		ChannelID: created.ChannelID,
		Name:      created.Name,
		Token:     created.Token,
		URL:       discordgo.EndpointWebhookToken(created.ID, created.Token),
	}, nil
}

func channelTypeFor(kind models.ChannelKind) (discordgo.ChannelType, error) {
	switch kind {
	case models.ChannelKindCategory:
		return discordgo.ChannelTypeGuildCategory, nil
	case models.ChannelKindAnnouncement:
		return discordgo.ChannelTypeGuildNews, nil
	case models.ChannelKindText:
		return discordgo.ChannelTypeGuildText, nil
	default:
		return 0, fmt.Errorf("unsupported channel kind %q", kind)
	}
}
