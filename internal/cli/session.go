package cli

import (
	"context"
	"fmt"

	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/store"
	"github.com/existflow/awaree/internal/studio"
	"github.com/existflow/awaree/internal/suggest"
)

// session is one command's view of the studio. Commands change state and
// commit writes back the collections that moved.
type session struct {
	store  *store.Store
	studio *studio.Studio
	before studio.State
	state  studio.State
}

func openSession(ctx context.Context) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open studio: %w", err)
	}
	state := st.Load(ctx)
	return &session{
		store:  st,
		studio: studio.Default(),
		before: state,
		state:  state,
	}, nil
}

func (s *session) commit(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.store.Save(ctx, s.before, s.state); err != nil {
		logger.Error("Failed to save studio", logger.F("error", err))
		return fmt.Errorf("failed to save studio: %w", err)
	}
	s.before = s.state
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		logger.Warn("Failed to close studio", logger.F("error", err))
	}
}

// project resolves a project by id, id prefix or name. An empty query uses
// the current context.
func (s *session) project(query string) (model.Project, error) {
	if query == "" {
		query = GetCurrentContext()
	}
	if query == "" {
		return model.Project{}, fmt.Errorf("no project given and no context set (see 'awaree use')")
	}
	return studio.ResolveProject(s.state.Projects, query)
}

// update stores a changed project in place
func (s *session) update(p model.Project) error {
	projects, err := studio.ReplaceProject(s.state.Projects, p)
	if err != nil {
		return err
	}
	s.state.Projects = projects
	return nil
}

func newSuggester() suggest.Suggester {
	return suggest.New(suggest.Config{
		Enabled: cfg.Suggest.Enabled,
		APIKey:  cfg.Suggest.APIKey,
		Model:   cfg.Suggest.Model,
		Timeout: cfg.Suggest.Timeout,
	})
}
