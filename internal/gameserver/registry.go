package gameserver

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the running games by level id.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[string]*Game)}
}

// Register adds g under its world's level id.
//
// Precondition: g must not be nil.
// Postcondition: Returns an error if the level id is already registered.
func (r *Registry) Register(g *Game) error {
	id := g.World().LevelID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; ok {
		return fmt.Errorf("level %q already registered", id)
	}
	r.games[id] = g
	return nil
}

// Get returns the game running levelID.
//
// Postcondition: Returns ErrUnknownLevel when no game runs levelID.
func (r *Registry) Get(levelID string) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[levelID]
	if !ok {
		return nil, fmt.Errorf("level %q: %w", levelID, ErrUnknownLevel)
	}
	return g, nil
}

// IDs returns the registered level ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
