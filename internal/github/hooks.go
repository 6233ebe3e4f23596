package github

import (
	"context"
	"fmt"
	"slices"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// defaultEvents is every webhook event a repository hook can subscribe to.
var defaultEvents = [...]string{
	"branch_protection_rule",
	"check_run",
	"check_suite",
	"code_scanning_alert",
	"commit_comment",
	"create",
	"delete",
	"dependabot_alert",
	"deploy_key",
	"deployment",
	"deployment_status",
	"discussion",
	"discussion_comment",
	"fork",
	"gollum",
	"issue_comment",
	"issues",
	"label",
	"member",
	"merge_group",
	"meta",
	"milestone",
	"package",
	"page_build",
	"ping",
	"project_card",
	"project",
	"project_column",
	"public",
	"pull_request",
	"pull_request_review_comment",
	"pull_request_review",
	"pull_request_review_thread",
	"push",
	"registry_package",
	"release",
	"repository_advisory",
	"repository",
	"repository_import",
	"repository_vulnerability_alert",
	"secret_scanning_alert",
	"secret_scanning_alert_location",
	"security_and_analysis",
	"star",
	"status",
	"team_add",
	"watch",
}

// DefaultEvents returns a copy of the event catalog subscribed by every
// hook registration.
func DefaultEvents() []string {
	return slices.Clone(defaultEvents[:])
}

// NewHookRegistration builds the hook registration delivering all events
// as JSON to url, without a shared secret.
func NewHookRegistration(url string) models.HookRegistration {
	return models.HookRegistration{
		Name:        "web",
		Active:      true,
		URL:         url,
		ContentType: "json",
		Events:      DefaultEvents(),
	}
}

// RegisterHook creates reg as a hook on the named organization repository
// and returns it with the ID GitHub assigned.
func (c *Client) RegisterHook(ctx context.Context, repo string, reg models.HookRegistration) (models.HookRegistration, error) {
	hookConfig := &gogithub.HookConfig{
		URL:         gogithub.Ptr(reg.URL),
		ContentType: gogithub.Ptr(reg.ContentType),
	}

	if reg.Secret != "" {
		hookConfig.Secret = gogithub.Ptr(reg.Secret)
	}
	if reg.InsecureSSL != "" {
		hookConfig.InsecureSSL = gogithub.Ptr(reg.InsecureSSL)
	}

	hook := &gogithub.Hook{
		Name:   gogithub.Ptr(reg.Name),
		Active: gogithub.Ptr(reg.Active),
		Config: hookConfig,
		Events: reg.Events,
	}

	created, _, err := c.client.Repositories.CreateHook(ctx, c.org, repo, hook)
	if err != nil {
		return reg, wrapError(err, fmt.Sprintf("hook on %s/%s", c.org, repo))
	}

	reg.ID = created.GetID()
	return reg, nil
}
