package reconcile

import (
	"context"
	"iter"

	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// RepositorySource lists the organization's repositories lazily
type RepositorySource interface {
	Repositories(ctx context.Context) iter.Seq2[models.Repository, error]
}

// GroupInventory lists the guild's existing channel groups
type GroupInventory interface {
	ChannelGroups(ctx context.Context) ([]models.ChannelGroup, error)
}

// GuildWriter creates channels and webhooks in the guild
type GuildWriter interface {
	CreateChannel(ctx context.Context, spec models.ChannelSpec) (models.Channel, error)
	CreateWebhook(ctx context.Context, channelID, name string) (models.Webhook, error)
}

// HookRegistrar registers provider-side hooks on repositories
type HookRegistrar interface {
	RegisterHook(ctx context.Context, repo string, reg models.HookRegistration) (models.HookRegistration, error)
}
