package github

import (
	"context"
	"iter"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/hyprland-community/Hyprmaid/internal/models"
)

// Repositories lists every repository of the organization, one page at a
// time. Each range over the returned sequence starts again from the first
// page. A failed page request yields the error once and ends the sequence.
func (c *Client) Repositories(ctx context.Context) iter.Seq2[models.Repository, error] {
	return func(yield func(models.Repository, error) bool) {
		opts := &gogithub.RepositoryListByOrgOptions{
			ListOptions: gogithub.ListOptions{PerPage: c.perPage},
		}

		for {
			repos, resp, err := c.client.Repositories.ListByOrg(ctx, c.org, opts)
			if err != nil {
				yield(models.Repository{}, wrapError(err, "repositories of "+c.org))
				return
			}

			c.log.Debugf("Fetched %d repositories of %s (page %d)", len(repos), c.org, max(opts.Page, 1))

			for _, r := range repos {
				if r == nil {
					continue
				}
				if !yield(convertRepository(r), nil) {
					return
				}
			}

			if resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

func convertRepository(r *gogithub.Repository) models.Repository {
	return models.Repository{
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		Private:  r.GetPrivate(),
		Archived: r.GetArchived(),
	}
}
