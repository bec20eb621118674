package luckbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock advances one minute per call
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func newTestGameBook() *GameBook {
	book := NewGameBook(NewMemoryStore(), NewSilentLogger())
	book.now = steppingClock(fixedNow)
	return book
}

func TestGameBook_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("save_and_get", func(t *testing.T) {
		book := newTestGameBook()

		game, err := book.Save(ctx, MegaSena, []int{58, 4, 41, 15, 37, 22}, true)
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, GeneratedSet{4, 15, 22, 37, 41, 58}, game.Numbers)
		assert.True(t, game.Favorite)
		assert.Equal(t, MegaSena, game.Variant)

		loaded, err := book.Get(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Numbers, loaded.Numbers)
		assert.True(t, game.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("rejects_invalid_numbers", func(t *testing.T) {
		book := newTestGameBook()

		tests := []struct {
			name    string
			variant VariantID
			numbers []int
			err     error
		}{
			{"out_of_range", MegaSena, []int{1, 2, 3, 4, 5, 61}, ErrInvalidNumbers},
			{"duplicate", MegaSena, []int{1, 2, 3, 4, 5, 5}, ErrInvalidNumbers},
			{"wrong_count", Quina, []int{1, 2, 3, 4, 5, 6}, ErrInvalidNumbers},
			{"unknown_variant", VariantID("bingo"), []int{1, 2, 3}, ErrUnknownVariant},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := book.Save(ctx, tt.variant, tt.numbers, false)
				assert.ErrorIs(t, err, tt.err)
			})
		}

		games, err := book.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("save_many_single_write", func(t *testing.T) {
		book := newTestGameBook()
		sets := []GeneratedSet{{1, 20, 40, 60, 70}, {2, 21, 41, 61, 71}}

		games, err := book.SaveMany(ctx, Quina, sets)
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.NotEqual(t, games[0].ID, games[1].ID)
		assert.True(t, games[0].CreatedAt.Equal(games[1].CreatedAt))

		empty, err := book.SaveMany(ctx, Quina, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestGameBook_Filter(t *testing.T) {
	ctx := context.Background()
	book := newTestGameBook()

	first, err := book.Save(ctx, MegaSena, []int{4, 15, 22, 37, 41, 58}, false)
	require.NoError(t, err)
	second, err := book.Save(ctx, Quina, []int{7, 18, 29, 63, 77}, true)
	require.NoError(t, err)
	third, err := book.Save(ctx, MegaSena, []int{3, 11, 29, 35, 46, 52}, true)
	require.NoError(t, err)

	ids := func(games []Game) []string {
		out := make([]string, len(games))
		for i, g := range games {
			out[i] = g.ID
		}
		return out
	}

	t.Run("newest_first", func(t *testing.T) {
		games, err := book.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, ids(games))
	})

	t.Run("by_variant", func(t *testing.T) {
		games, err := book.Filter(ctx, GameFilter{Variant: MegaSena})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID}, ids(games))
	})

	t.Run("favorites_only", func(t *testing.T) {
		games, err := book.Filter(ctx, GameFilter{FavoritesOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, second.ID}, ids(games))
	})

	t.Run("number_query", func(t *testing.T) {
		games, err := book.Filter(ctx, GameFilter{Query: "29"})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, second.ID}, ids(games))

		games, err = book.Filter(ctx, GameFilter{Query: "5", Variant: MegaSena})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID}, ids(games))
	})
}

func TestGameBook_Mutations(t *testing.T) {
	ctx := context.Background()
	book := newTestGameBook()

	game, err := book.Save(ctx, Lotofacil, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, false)
	require.NoError(t, err)

	t.Run("toggle_favorite", func(t *testing.T) {
		toggled, err := book.ToggleFavorite(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, toggled.Favorite)

		toggled, err = book.ToggleFavorite(ctx, game.ID)
		require.NoError(t, err)
		assert.False(t, toggled.Favorite)

		_, err = book.ToggleFavorite(ctx, "missing")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, book.Delete(ctx, "missing"), ErrRecordNotFound)
		require.NoError(t, book.Delete(ctx, game.ID))

		_, err := book.Get(ctx, game.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		_, err := book.Save(ctx, Timemania, []int{1, 10, 20, 30, 40, 50, 60, 70, 80, 5}, false)
		require.NoError(t, err)

		require.NoError(t, book.Clear(ctx))
		games, err := book.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, games)
	})
}

func TestGameBook_SharedStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	writer := NewGameBook(store, nil)
	reader := NewGameBook(store, nil)

	game, err := writer.Save(ctx, DuplaSena, []int{5, 10, 25, 38, 41, 50}, false)
	require.NoError(t, err)

	loaded, err := reader.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.Numbers, loaded.Numbers)
}
