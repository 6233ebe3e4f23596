package validation

import (
	"regexp"
	"strings"

	"github.com/hyprland-community/Hyprmaid/internal/errors"
)

var (
	// Discord snowflake: unsigned 64-bit integer in decimal
	snowflakePattern = regexp.MustCompile(`^\d{15,20}$`)

	// GitHub organization login: alphanumerics and single hyphens, no
	// leading or trailing hyphen, at most 39 characters
	orgPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

	// Discord channel names: lowercase, no spaces, at most 100 characters
	channelNamePattern = regexp.MustCompile(`^[^\sA-Z]{1,100}$`)
)

// Validator provides validation methods
type Validator struct{}

// New creates a new validator instance
func New() *Validator {
	return &Validator{}
}

// IsValidSnowflake checks if id looks like a Discord snowflake
func (v *Validator) IsValidSnowflake(id string) bool {
	return snowflakePattern.MatchString(strings.TrimSpace(id))
}

// IsValidOrg checks if org is a syntactically valid GitHub organization login
func (v *Validator) IsValidOrg(org string) bool {
	org = strings.TrimSpace(org)
	return len(org) <= 39 && orgPattern.MatchString(org)
}

// ValidateGuildID validates the target guild identifier
func (v *Validator) ValidateGuildID(id string) *errors.AppError {
	if strings.TrimSpace(id) == "" {
		return errors.Config("guild id is required")
	}
	if !v.IsValidSnowflake(id) {
		return errors.Config("invalid Discord guild id: %s", id)
	}
	return nil
}

// ValidateOrg validates the GitHub organization identifier
func (v *Validator) ValidateOrg(org string) *errors.AppError {
	if strings.TrimSpace(org) == "" {
		return errors.Config("GitHub organization is required")
	}
	if !v.IsValidOrg(org) {
		return errors.Config("invalid GitHub organization: %s", org)
	}
	return nil
}

// NormalizeChannelName converts a repository-derived name into the form
// Discord stores for text channels (lowercase, spaces as hyphens).
func (v *Validator) NormalizeChannelName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "-")
}

// IsValidChannelName checks a text channel name after normalization
func (v *Validator) IsValidChannelName(name string) bool {
	return channelNamePattern.MatchString(name)
}
