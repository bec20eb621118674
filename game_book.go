package luckbook

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// Game is a saved generated set
type Game struct {
	ID        string       `json:"id"`
	Variant   VariantID    `json:"variant"`
	Numbers   GeneratedSet `json:"numbers"`
	CreatedAt time.Time    `json:"created_at"`
	Favorite  bool         `json:"favorite"`
	Notes     string       `json:"notes,omitempty"`
}

// GameFilter narrows a game listing. Zero values match everything.
type GameFilter struct {
	Variant       VariantID
	FavoritesOnly bool
	// Query matches games with a number whose decimal text contains it
	Query string
}

func (f GameFilter) match(g Game) bool {
	if f.Variant != "" && g.Variant != f.Variant {
		return false
	}
	if f.FavoritesOnly && !g.Favorite {
		return false
	}
	q := strings.TrimSpace(f.Query)
	return q == "" || g.Numbers.Contains(q)
}

// GameBook stores saved games as one collection
type GameBook struct {
	store  Store
	key    string
	logger Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewGameBook creates a game book over store under the default key
func NewGameBook(store Store, logger Logger) *GameBook {
	return NewGameBookWithKey(store, DefaultGamesKey, logger)
}

// NewGameBookWithKey creates a game book over store under key
func NewGameBookWithKey(store Store, key string, logger Logger) *GameBook {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &GameBook{store: store, key: key, logger: logger, now: time.Now}
}

// List returns every saved game, newest first
func (b *GameBook) List(ctx context.Context) ([]Game, error) {
	return b.Filter(ctx, GameFilter{})
}

// Filter returns matching games, newest first
func (b *GameBook) Filter(ctx context.Context, filter GameFilter) ([]Game, error) {
	games, err := loadCollection[Game](ctx, b.store, b.key)
	if err != nil {
		return nil, err
	}

	out := make([]Game, 0, len(games))
	for _, g := range games {
		if filter.match(g) {
			out = append(out, g)
		}
	}
	slices.SortStableFunc(out, func(a, b Game) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// Get returns one game by ID
func (b *GameBook) Get(ctx context.Context, id string) (Game, error) {
	games, err := loadCollection[Game](ctx, b.store, b.key)
	if err != nil {
		return Game{}, err
	}
	for _, g := range games {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, ErrRecordNotFound.WithDetailsf("game id=%s", id)
}

// Save stores one set for the variant
func (b *GameBook) Save(ctx context.Context, variant VariantID, numbers []int, favorite bool) (Game, error) {
	saved, err := b.save(ctx, variant, []GeneratedSet{numbers}, favorite)
	if err != nil {
		return Game{}, err
	}
	return saved[0], nil
}

// SaveMany stores several sets in a single write, each under its own ID
func (b *GameBook) SaveMany(ctx context.Context, variant VariantID, sets []GeneratedSet) ([]Game, error) {
	return b.save(ctx, variant, sets, false)
}

func (b *GameBook) save(ctx context.Context, variant VariantID, sets []GeneratedSet, favorite bool) ([]Game, error) {
	v, err := LookupVariant(variant)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return []Game{}, nil
	}

	now := b.now()
	created := make([]Game, 0, len(sets))
	for _, set := range sets {
		numbers := slices.Clone(set)
		slices.Sort(numbers)
		if !GeneratedSet(numbers).Conforms(v, len(numbers)) || !v.SupportsCount(len(numbers)) {
			return nil, ErrInvalidNumbers.WithDetailsf("variant=%s, numbers=%v", variant, []int(set))
		}
		created = append(created, Game{
			ID:        newRecordID(),
			Variant:   variant,
			Numbers:   numbers,
			CreatedAt: now,
			Favorite:  favorite,
		})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	games, err := loadCollection[Game](ctx, b.store, b.key)
	if err != nil {
		return nil, err
	}
	games = append(games, created...)
	if err := saveCollection(ctx, b.store, b.key, games); err != nil {
		b.logger.Error("Failed to save %d games: %v", len(created), err)
		return nil, err
	}

	b.logger.Info("Saved %d %s games", len(created), variant)
	return created, nil
}

// Delete removes one game
func (b *GameBook) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	games, err := loadCollection[Game](ctx, b.store, b.key)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(games, func(g Game) bool { return g.ID == id })
	if idx < 0 {
		return ErrRecordNotFound.WithDetailsf("game id=%s", id)
	}
	games = slices.Delete(games, idx, idx+1)
	return saveCollection(ctx, b.store, b.key, games)
}

// ToggleFavorite flips the favorite flag and returns the updated game
func (b *GameBook) ToggleFavorite(ctx context.Context, id string) (Game, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	games, err := loadCollection[Game](ctx, b.store, b.key)
	if err != nil {
		return Game{}, err
	}
	idx := slices.IndexFunc(games, func(g Game) bool { return g.ID == id })
	if idx < 0 {
		return Game{}, ErrRecordNotFound.WithDetailsf("game id=%s", id)
	}
	games[idx].Favorite = !games[idx].Favorite
	if err := saveCollection(ctx, b.store, b.key, games); err != nil {
		return Game{}, err
	}
	return games[idx], nil
}

// Clear drops every saved game
func (b *GameBook) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(ctx, b.key); err != nil {
		return ErrStoreSaveFailure.WithCause(err).WithDetailsf("key=%s", b.key)
	}
	b.logger.Info("Cleared saved games")
	return nil
}
