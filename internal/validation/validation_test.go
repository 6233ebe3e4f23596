package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSnowflake(t *testing.T) {
	v := New()

	assert.True(t, v.IsValidSnowflake("1234590815431430204"))
	assert.True(t, v.IsValidSnowflake(" 175928847299117063 "))
	assert.False(t, v.IsValidSnowflake(""))
	assert.False(t, v.IsValidSnowflake("hyprland"))
	assert.False(t, v.IsValidSnowflake("12345"))
}

func TestValidateOrg(t *testing.T) {
	v := New()

	for _, org := range []string{"hyprland-community", "hyprwm", "a", "Org9"} {
		assert.Nil(t, v.ValidateOrg(org), org)
	}

	for _, org := range []string{"", "-lead", "trail-", "dou--ble", "has space", "this-name-is-way-too-long-for-a-github-login"} {
		assert.NotNil(t, v.ValidateOrg(org), org)
	}
}

func TestValidateGuildID(t *testing.T) {
	v := New()

	assert.Nil(t, v.ValidateGuildID("1234590815431430204"))
	assert.NotNil(t, v.ValidateGuildID(""))
	assert.NotNil(t, v.ValidateGuildID("not-a-guild"))
}

func TestNormalizeChannelName(t *testing.T) {
	v := New()

	assert.Equal(t, "hyprland-plugins-general", v.NormalizeChannelName("Hyprland-Plugins-general"))
	assert.Equal(t, "my-repo", v.NormalizeChannelName("  My   Repo "))
	assert.True(t, v.IsValidChannelName("demo-general"))
	assert.False(t, v.IsValidChannelName("Demo General"))
}
