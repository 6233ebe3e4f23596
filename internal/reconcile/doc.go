// Package reconcile keeps a Discord guild's categories in step with the
// repositories of a GitHub organization.
//
// A pass lists the guild's categories and the organization's repositories,
// then provisions every repository that has no category of the same name
// (compared case-insensitively) and is not blacklisted. Provisioning creates
// the category, its announcement, general and git channels, a webhook on
// the git channel, and a GitHub hook delivering repository events to that
// webhook. Nothing is ever updated or removed.
//
// Existence is decided by the category alone. A pass that fails after the
// category was created leaves it partially provisioned, and later passes
// skip it.
package reconcile
