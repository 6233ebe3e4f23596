package reconcile

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// fakeWorld is an in-memory guild plus GitHub organization. It records
// every side effect in call order.
type fakeWorld struct {
	mu sync.Mutex

	pages    [][]models.Repository
	listErr  error
	groupErr error

	channels []models.Channel
	webhooks []models.Webhook
	hooks    map[string][]models.HookRegistration
	calls    []string
	nextID   int

	// failures maps "channel:<name>", "webhook:<channel>" or "hook:<repo>"
	// to an error returned once
	failures map[string]error
}

func newFakeWorld(repos ...string) *fakeWorld {
	page := make([]models.Repository, 0, len(repos))
	for _, name := range repos {
		page = append(page, models.Repository{Name: name})
	}
	return &fakeWorld{
		pages:    [][]models.Repository{page},
		hooks:    make(map[string][]models.HookRegistration),
		failures: make(map[string]error),
	}
}

func (w *fakeWorld) addGroup(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	w.channels = append(w.channels, models.Channel{
		ID:   fmt.Sprintf("pre-%d", w.nextID),
		Name: name,
		Kind: models.ChannelKindCategory,
	})
}

func (w *fakeWorld) failOnce(key string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[key] = err
}

func (w *fakeWorld) takeFailure(key string) error {
	err := w.failures[key]
	delete(w.failures, key)
	return err
}

func (w *fakeWorld) Repositories(_ context.Context) iter.Seq2[models.Repository, error] {
	return func(yield func(models.Repository, error) bool) {
		for _, page := range w.pages {
			for _, repo := range page {
				if !yield(repo, nil) {
					return
				}
			}
		}
		if w.listErr != nil {
			yield(models.Repository{}, w.listErr)
		}
	}
}

func (w *fakeWorld) ChannelGroups(_ context.Context) ([]models.ChannelGroup, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.groupErr != nil {
		return nil, w.groupErr
	}

	var groups []models.ChannelGroup
	for _, c := range w.channels {
		if c.Kind == models.ChannelKindCategory {
			groups = append(groups, models.ChannelGroup{ID: c.ID, Name: c.Name})
		}
	}
	return groups, nil
}

func (w *fakeWorld) CreateChannel(_ context.Context, spec models.ChannelSpec) (models.Channel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, "channel:"+spec.Name)
	if err := w.takeFailure("channel:" + spec.Name); err != nil {
		return models.Channel{}, err
	}

	w.nextID++
	channel := models.Channel{
		ID:       fmt.Sprintf("c%d", w.nextID),
		Name:     spec.Name,
		Kind:     spec.Kind,
		ParentID: spec.ParentID,
	}
	w.channels = append(w.channels, channel)
	return channel, nil
}

func (w *fakeWorld) CreateWebhook(_ context.Context, channelID, name string) (models.Webhook, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, "webhook:"+channelID)
	if err := w.takeFailure("webhook:" + channelID); err != nil {
		return models.Webhook{}, err
	}

	w.nextID++
	webhook := models.Webhook{
		ID:        fmt.Sprintf("w%d", w.nextID),
		ChannelID: channelID,
		Name:      name,
		Token:     "tok",
		URL:       fmt.Sprintf("https://discord.com/api/v9/webhooks/w%d/tok", w.nextID),
	}
	w.webhooks = append(w.webhooks, webhook)
	return webhook, nil
}

func (w *fakeWorld) RegisterHook(_ context.Context, repo string, reg models.HookRegistration) (models.HookRegistration, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, "hook:"+repo)
	if err := w.takeFailure("hook:" + repo); err != nil {
		return reg, err
	}

	w.nextID++
	reg.ID = int64(w.nextID)
	w.hooks[repo] = append(w.hooks[repo], reg)
	return reg, nil
}

// childrenOf returns the channels whose parent is groupID
func (w *fakeWorld) childrenOf(groupID string) []models.Channel {
	w.mu.Lock()
	defer w.mu.Unlock()

	var children []models.Channel
	for _, c := range w.channels {
		if c.ParentID == groupID {
			children = append(children, c)
		}
	}
	return children
}

func (w *fakeWorld) groupsNamed(name string) []models.Channel {
	w.mu.Lock()
	defer w.mu.Unlock()

	var groups []models.Channel
	for _, c := range w.channels {
		if c.Kind == models.ChannelKindCategory && c.Name == name {
			groups = append(groups, c)
		}
	}
	return groups
}

func (w *fakeWorld) counts() (channels, webhooks, hooks int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, regs := range w.hooks {
		hooks += len(regs)
	}
	return len(w.channels), len(w.webhooks), hooks
}
