// Package catalog_test tests the static voice registry.
package catalog_test

import (
	"testing"

	"github.com/ngqkhai/voice-synthesis/internal/catalog"
	"github.com/ngqkhai/voice-synthesis/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguages_Idempotent(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	first := cat.Languages()
	second := cat.Languages()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, "English (US)", first["en-US"])
}

func TestVoices_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	_, err := cat.Voices("de-DE", "")
	require.ErrorIs(t, err, catalog.ErrUnsupportedLanguage)
}

func TestVoices_AllCategories(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	voices, err := cat.Voices("en-US", "")
	require.NoError(t, err)

	defined := map[string]struct{}{
		catalog.CategoryKids:       {},
		catalog.CategoryScientific: {},
		catalog.CategoryGeneral:    {},
	}
	for category := range voices {
		_, ok := defined[category]
		assert.True(t, ok, "unexpected category %q", category)
	}
}

func TestVoices_AbsentCategoryIsEmptyNotError(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	// ja-JP defines only general voices.
	voices, err := cat.Voices("ja-JP", catalog.CategoryKids)
	require.NoError(t, err)
	require.Contains(t, voices, catalog.CategoryKids)
	assert.Empty(t, voices[catalog.CategoryKids])
}

func TestVoices_StableOrdering(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	first, err := cat.Voices("en-US", catalog.CategoryGeneral)
	require.NoError(t, err)

	for range 10 {
		again, err := cat.Voices("en-US", catalog.CategoryGeneral)
		require.NoError(t, err)
		assert.Equal(t, first[catalog.CategoryGeneral], again[catalog.CategoryGeneral])
	}
}

func TestVoices_ReturnedSlicesAreCopies(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	voices, err := cat.Voices("en-US", catalog.CategoryKids)
	require.NoError(t, err)
	require.NotEmpty(t, voices[catalog.CategoryKids])

	voices[catalog.CategoryKids][0].ID = "mutated"

	again, err := cat.Voices("en-US", catalog.CategoryKids)
	require.NoError(t, err)
	assert.Equal(t, "en-US-Neural2-A", again[catalog.CategoryKids][0].ID)
}

func TestFindVoice(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	profile, err := cat.FindVoice("en-US", "en-US-Neural2-A")
	require.NoError(t, err)
	assert.Equal(t, "Friendly Female", profile.Name)
	assert.InEpsilon(t, 1.2, profile.Speed, 0.001)

	_, err = cat.FindVoice("en-US", "en-US-Neural2-Z")
	require.ErrorIs(t, err, catalog.ErrUnknownVoice)

	_, err = cat.FindVoice("de-DE", "de-DE-Neural2-A")
	require.ErrorIs(t, err, catalog.ErrUnsupportedLanguage)
}

func TestNew_RejectsDuplicateVoiceIDs(t *testing.T) {
	t.Parallel()

	_, err := catalog.New([]catalog.Language{
		{
			Code: "en-US",
			Name: "English (US)",
			Voices: map[string][]core.VoiceProfile{
				catalog.CategoryKids: {
					{ID: "en-US-Neural2-A", Name: "Friendly Female", Speed: 1.2},
				},
				catalog.CategoryGeneral: {
					{ID: "en-US-Neural2-A", Name: "Warm Female", Speed: 1.0},
				},
			},
		},
	})
	require.ErrorIs(t, err, catalog.ErrDuplicateVoice)
}
