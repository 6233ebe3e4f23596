package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyprland-community/Hyprmaid/internal/github"
	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
	"github.com/hyprland-community/Hyprmaid/internal/validation"
)

const (
	announcementChannel = "announcement"
	generalSuffix       = "-general"
	gitChannel          = "git"
)

// ProvisionerOptions configures the webhook created for each repository
type ProvisionerOptions struct {
	// WebhookName is the display name of the chat webhook
	WebhookName string
	// URLSuffix is appended to the webhook URL so the chat platform parses
	// GitHub payloads natively
	URLSuffix string
}

// Provisioned describes everything created for one repository
type Provisioned struct {
	Repository string
	Group      models.ChannelGroup
	Channels   []models.Channel
	Webhook    models.Webhook
	Hook       models.HookRegistration
}

// Provisioner creates the channel group, channels, webhook and hook
// registration for a single repository.
type Provisioner struct {
	guild     GuildWriter
	hooks     HookRegistrar
	opts      ProvisionerOptions
	validator *validation.Validator
	log       *logger.Logger
}

// NewProvisioner creates a provisioner writing to guild and hooks
func NewProvisioner(guild GuildWriter, hooks HookRegistrar, opts ProvisionerOptions, log *logger.Logger) *Provisioner {
	if opts.WebhookName == "" {
		opts.WebhookName = "GitHub"
	}
	return &Provisioner{
		guild:     guild,
		hooks:     hooks,
		opts:      opts,
		validator: validation.New(),
		log:       log,
	}
}

// Provision runs the provisioning steps for repo. A failure is returned
// as a *StepError naming the step; already created resources stay.
func (p *Provisioner) Provision(ctx context.Context, repo string) (Provisioned, error) {
	state := &provisioning{repository: repo}
	log := p.log.WithStr("repository", repo)

	if err := runSteps(ctx, p.steps(), state, log); err != nil {
		return Provisioned{}, err
	}

	log.Infof("Provisioned %s (category %s, hook %d)", repo, state.category.ID, state.hook.ID)

	return Provisioned{
		Repository: repo,
		Group:      models.ChannelGroup{ID: state.category.ID, Name: state.category.Name},
		Channels:   []models.Channel{state.announcement, state.general, state.git},
		Webhook:    state.webhook,
		Hook:       state.hook,
	}, nil
}

func (p *Provisioner) steps() []step {
	return []step{
		{name: StepCreateCategory, run: func(ctx context.Context, s *provisioning) (err error) {
			s.category, err = p.guild.CreateChannel(ctx, models.ChannelSpec{
				Name: s.repository,
				Kind: models.ChannelKindCategory,
			})
			return err
		}},
		{name: StepCreateAnnouncement, run: func(ctx context.Context, s *provisioning) (err error) {
			s.announcement, err = p.guild.CreateChannel(ctx, models.ChannelSpec{
				Name:     announcementChannel,
				Kind:     models.ChannelKindAnnouncement,
				ParentID: s.category.ID,
			})
			return err
		}},
		{name: StepCreateGeneral, run: func(ctx context.Context, s *provisioning) (err error) {
			name := p.validator.NormalizeChannelName(s.repository + generalSuffix)
			if !p.validator.IsValidChannelName(name) {
				return fmt.Errorf("invalid channel name %q", name)
			}
			s.general, err = p.guild.CreateChannel(ctx, models.ChannelSpec{
				Name:     name,
				Kind:     models.ChannelKindText,
				ParentID: s.category.ID,
			})
			return err
		}},
		{name: StepCreateGit, run: func(ctx context.Context, s *provisioning) (err error) {
			s.git, err = p.guild.CreateChannel(ctx, models.ChannelSpec{
				Name:     gitChannel,
				Kind:     models.ChannelKindText,
				ParentID: s.category.ID,
			})
			return err
		}},
		{name: StepCreateWebhook, run: func(ctx context.Context, s *provisioning) (err error) {
			s.webhook, err = p.guild.CreateWebhook(ctx, s.git.ID, p.opts.WebhookName)
			return err
		}},
		{name: StepBuildDeliveryURL, run: func(_ context.Context, s *provisioning) error {
			if s.webhook.URL == "" {
				return errors.New("webhook has no delivery URL")
			}
			s.deliveryURL = strings.TrimSuffix(s.webhook.URL, "/") + p.opts.URLSuffix
			return nil
		}},
		{name: StepRegisterHook, run: func(ctx context.Context, s *provisioning) (err error) {
			s.hook, err = p.hooks.RegisterHook(ctx, s.repository, github.NewHookRegistration(s.deliveryURL))
			return err
		}},
	}
}
