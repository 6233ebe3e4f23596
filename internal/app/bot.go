package app

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mdp/qrterminal/v3"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
)

// InvitePermissions are the guild permissions the bot needs to provision
// channel groups and webhooks.
const InvitePermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionManageChannels |
	discordgo.PermissionManageWebhooks

// Gateway is the part of *discordgo.Session the bot drives
type Gateway interface {
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Responder answers interactions
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Bot owns the gateway session and the slash commands registered on it
type Bot struct {
	gateway      Gateway
	appID        func() string
	showInviteQR bool
	log          *logger.Logger

	mu           sync.RWMutex
	connected    bool
	ready        bool
	registered   []*discordgo.ApplicationCommand
	removeHandle []func()
}

// NewBot creates a bot on an unopened session
func NewBot(session *discordgo.Session, showInviteQR bool, log *logger.Logger) *Bot {
	session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged
	return newBot(session, func() string {
		if session.State == nil || session.State.User == nil {
			return ""
		}
		return session.State.User.ID
	}, showInviteQR, log)
}

func newBot(gateway Gateway, appID func() string, showInviteQR bool, log *logger.Logger) *Bot {
	return &Bot{
		gateway:      gateway,
		appID:        appID,
		showInviteQR: showInviteQR,
		log:          log,
	}
}

// Commands returns the slash commands the bot registers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "age",
			Description: "Displays your or another user's account creation date",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Selected user",
					Required:    false,
				},
			},
		},
	}
}

// Connect opens the gateway and registers the slash commands globally
func (b *Bot) Connect(ctx context.Context) error {
	b.mu.Lock()
	b.removeHandle = append(b.removeHandle,
		b.gateway.AddHandler(func(_ *discordgo.Session, _ *discordgo.Connect) { b.setConnected(true) }),
		b.gateway.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) { b.setConnected(false) }),
		b.gateway.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) { b.handleReady(r) }),
		b.gateway.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) { b.HandleInteraction(s, i) }),
	)
	b.mu.Unlock()

	b.log.Info("Opening Discord gateway session...")
	if err := b.gateway.Open(); err != nil {
		return fmt.Errorf("failed to open gateway session: %w", err)
	}
	b.setConnected(true)

	appID := b.appID()
	if appID == "" {
		return fmt.Errorf("gateway session has no application user")
	}

	for _, cmd := range Commands() {
		created, err := b.gateway.ApplicationCommandCreate(appID, "", cmd, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("failed to register /%s: %w", cmd.Name, err)
		}

		b.mu.Lock()
		b.registered = append(b.registered, created)
		b.mu.Unlock()
		b.log.Infof("Registered /%s command", cmd.Name)
	}

	invite := InviteURL(appID)
	b.log.Infof("Invite URL: %s", invite)
	if b.showInviteQR {
		printQR(invite)
	}

	return nil
}

// Disconnect removes the commands registered by Connect and closes the
// session.
func (b *Bot) Disconnect() {
	b.mu.Lock()
	registered := b.registered
	b.registered = nil
	handlers := b.removeHandle
	b.removeHandle = nil
	b.mu.Unlock()

	appID := b.appID()
	for _, cmd := range registered {
		if err := b.gateway.ApplicationCommandDelete(appID, "", cmd.ID); err != nil {
			b.log.Errorf("Failed to remove /%s command: %v", cmd.Name, err)
		}
	}

	for _, remove := range handlers {
		remove()
	}

	if err := b.gateway.Close(); err != nil {
		b.log.Error("Error closing gateway session", err)
	}

	b.setConnected(false)
	b.log.Info("Disconnected from Discord")
}

// GetConnectionStatus returns gateway status details for the health endpoint
func (b *Bot) GetConnectionStatus() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return map[string]interface{}{
		"connected":           b.connected,
		"ready":               b.ready,
		"commands_registered": len(b.registered),
	}
}

// HandleInteraction dispatches application command interactions
func (b *Bot) HandleInteraction(r Responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "age":
		user := SelectedUser(i)
		content, err := AgeMessage(user)
		if err != nil {
			b.log.Errorf("Cannot compute account age for %s: %v", user.ID, err)
			content = "Could not determine the account creation date."
		}

		err = r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content},
		})
		if err != nil {
			b.log.Error("Failed to respond to /age", err)
		}
	default:
		b.log.Debugf("Ignoring unknown command /%s", data.Name)
	}
}

// SelectedUser returns the user passed in the "user" option, or the
// invoking user when the option is absent.
func SelectedUser(i *discordgo.InteractionCreate) *discordgo.User {
	data := i.ApplicationCommandData()
	for _, opt := range data.Options {
		if opt.Name != "user" || opt.Type != discordgo.ApplicationCommandOptionUser {
			continue
		}

		id, _ := opt.Value.(string)
		if data.Resolved != nil {
			if u, ok := data.Resolved.Users[id]; ok {
				return u
			}
		}
		return opt.UserValue(nil)
	}

	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// AgeMessage formats the /age reply for user
func AgeMessage(user *discordgo.User) (string, error) {
	if user == nil {
		return "", fmt.Errorf("no user")
	}

	created, err := discordgo.SnowflakeTimestamp(user.ID)
	if err != nil {
		return "", err
	}

	name := user.Username
	if name == "" {
		name = user.ID
	}
	return fmt.Sprintf("%s's account was created at %s", name, created.UTC().Format(time.RFC3339)), nil
}

// InviteURL builds the OAuth2 URL that adds the bot to a guild
func InviteURL(appID string) string {
	q := url.Values{}
	q.Set("client_id", appID)
	q.Set("scope", "bot applications.commands")
	q.Set("permissions", strconv.FormatInt(InvitePermissions, 10))
	return "https://discord.com/oauth2/authorize?" + q.Encode()
}

func (b *Bot) handleReady(r *discordgo.Ready) {
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()

	if r.User != nil {
		b.log.Infof("Logged in as %s", r.User.Username)
	}
}

func (b *Bot) setConnected(connected bool) {
	b.mu.Lock()
	b.connected = connected
	if !connected {
		b.ready = false
	}
	b.mu.Unlock()
}

func printQR(invite string) {
	fmt.Println("\n" + strings.Repeat("=", 64))
	fmt.Println("SCAN TO INVITE THE BOT TO A SERVER")
	fmt.Println(strings.Repeat("=", 64))

	qrterminal.GenerateWithConfig(invite, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     os.Stdout,
		HalfBlocks: true,
		QuietZone:  1,
	})

	fmt.Println(strings.Repeat("=", 64) + "\n")
}
