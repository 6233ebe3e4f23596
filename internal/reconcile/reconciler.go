package reconcile

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/hyprland-community/Hyprmaid/internal/logger"
	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// Provisioning provisions one repository
type Provisioning interface {
	Provision(ctx context.Context, repo string) (Provisioned, error)
}

// Report is the outcome of diffing and provisioning one inventory snapshot
type Report struct {
	Repositories int
	Provisioned  []string
	Existing     []string
	Blacklisted  []string
}

// Reconciler provisions every listed repository that lacks a channel group
type Reconciler struct {
	provisioner Provisioning
	blacklist   Blacklist
	log         *logger.Logger
}

// NewReconciler creates a reconciler
func NewReconciler(provisioner Provisioning, blacklist Blacklist, log *logger.Logger) *Reconciler {
	return &Reconciler{
		provisioner: provisioner,
		blacklist:   blacklist,
		log:         log,
	}
}

// Reconcile walks repos in listing order and provisions, one at a time,
// each repository whose canonical name matches no group in groups and is
// not blacklisted. The first listing or provisioning error ends the walk
// and is returned with the report gathered so far.
func (r *Reconciler) Reconcile(ctx context.Context, repos iter.Seq2[models.Repository, error], groups []models.ChannelGroup) (Report, error) {
	var report Report

	existing := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		existing[canonical(g.Name)] = struct{}{}
	}

	for repo, err := range repos {
		if err != nil {
			return report, fmt.Errorf("listing repositories: %w", err)
		}
		report.Repositories++

		name := canonical(repo.Name)
		log := r.log.WithStr("repository", repo.Name).
			With("private", repo.Private).
			With("archived", repo.Archived)

		if _, ok := existing[name]; ok {
			log.Debug("Channel group already exists, skipping")
			report.Existing = append(report.Existing, repo.Name)
			continue
		}

		if r.blacklist.Contains(name) {
			log.Debug("Repository is blacklisted, skipping")
			report.Blacklisted = append(report.Blacklisted, repo.Name)
			continue
		}

		log.Info("No channel group found, provisioning")
		if _, err := r.provisioner.Provision(ctx, repo.Name); err != nil {
			var stepErr *StepError
			if errors.As(err, &stepErr) && stepErr.GroupID != "" {
				log.Warnf("Channel group %s was left partially provisioned at step %s; later passes will treat %s as provisioned",
					stepErr.GroupID, stepErr.Step, repo.Name)
			}
			return report, err
		}

		existing[name] = struct{}{}
		report.Provisioned = append(report.Provisioned, repo.Name)
	}

	return report, nil
}
