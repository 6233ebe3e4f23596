package models

// Repository is an organization repository as listed by the source-control provider
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	Private  bool   `json:"private"`
	Archived bool   `json:"archived"`
}

// ChannelKind is the structural role of a guild channel
type ChannelKind string

const (
	ChannelKindCategory     ChannelKind = "category"
	ChannelKindAnnouncement ChannelKind = "announcement"
	ChannelKindText         ChannelKind = "text"
)

// ChannelGroup is a top-level guild category. Its name decides whether a
// repository is already provisioned.
type ChannelGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel represents a guild channel
type Channel struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     ChannelKind `json:"kind"`
	ParentID string      `json:"parent_id,omitempty"`
}

// ChannelSpec describes a channel to create
type ChannelSpec struct {
	Name     string
	Kind     ChannelKind
	ParentID string // empty for top-level channels
}

// Webhook is an inbound chat webhook bound to a channel
type Webhook struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Token     string `json:"-"`
	URL       string `json:"-"`
}

// HookRegistration is the provider-side subscription that delivers
// repository events to URL.
type HookRegistration struct {
	ID          int64    `json:"id,omitempty"`
	Name        string   `json:"name"`
	Active      bool     `json:"active"`
	URL         string   `json:"url"`
	ContentType string   `json:"content_type"`
	Secret      string   `json:"secret,omitempty"`
	InsecureSSL string   `json:"insecure_ssl,omitempty"`
	Events      []string `json:"events"`
}
