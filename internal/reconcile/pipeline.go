package reconcile

import (
	"context"
	"fmt"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// Step names, in execution order
const (
	StepCreateCategory     = "create-category"
	StepCreateAnnouncement = "create-announcement-channel"
	StepCreateGeneral      = "create-general-channel"
	StepCreateGit          = "create-git-channel"
	StepCreateWebhook      = "create-webhook"
	StepBuildDeliveryURL   = "build-delivery-url"
	StepRegisterHook       = "register-hook"
)

// provisioning carries the results of earlier steps to later ones
type provisioning struct {
	repository   string
	category     models.Channel
	announcement models.Channel
	general      models.Channel
	git          models.Channel
	webhook      models.Webhook
	deliveryURL  string
	hook         models.HookRegistration
}

// step is one named, fallible unit of the provisioning sequence
type step struct {
	name string
	run  func(ctx context.Context, p *provisioning) error
}

// StepError reports which provisioning step failed for which repository.
// GroupID is set when the channel group had already been created.
type StepError struct {
	Repository string
	Step       string
	GroupID    string
	Err        error
}

// Error implements the error interface
func (e *StepError) Error() string {
	return fmt.Sprintf("provisioning %s: step %s: %v", e.Repository, e.Step, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	return e.Err
}

// runSteps executes steps in order and stops at the first failure. Nothing
// created by earlier steps is rolled back.
func runSteps(ctx context.Context, steps []step, p *provisioning, log *logger.Logger) error {
	for _, s := range steps {
		log.WithStr("step", s.name).Infof("Provisioning %s: %s", p.repository, s.name)

		if err := s.run(ctx, p); err != nil {
			return &StepError{
				Repository: p.repository,
				Step:       s.name,
				GroupID:    p.category.ID,
				Err:        err,
			}
		}
	}
	return nil
}
