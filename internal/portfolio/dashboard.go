package portfolio

import (
	"context"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/store"
	"golang.org/x/sync/errgroup"
)

// Metrics are the dashboard counts.
type Metrics struct {
	Projects       int `json:"totalProjects"`
	Skills         int `json:"totalSkills"`
	Messages       int `json:"totalMessages"`
	UnreadMessages int `json:"unreadMessages"`
}

// Dashboard runs the four counts concurrently. Any failure fails the whole
// dashboard.
func Dashboard(ctx context.Context, s store.Store) (Metrics, error) {
	var m Metrics
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, collection string, q store.Query) {
		g.Go(func() error {
			docs, err := s.List(gctx, collection, q)
			if err != nil {
				return err
			}
			*dst = len(docs)
			return nil
		})
	}
	count(&m.Projects, content.ProjectsCollection, store.Query{})
	count(&m.Skills, content.SkillsCollection, store.Query{})
	count(&m.Messages, content.MessagesCollection, store.Query{})
	count(&m.UnreadMessages, content.MessagesCollection, store.Query{}.Where("read", false))
	if err := g.Wait(); err != nil {
		return Metrics{}, errs.Fetch("dashboard metrics", err)
	}
	return m, nil
}
