// Package catalog provides the static voice registry for the voice-synthesis
// service: which languages are supported, which voices exist under each
// language, and how voices are grouped into audience categories.
//
// The catalog is built once at startup and is read-only afterwards, so it can
// be shared across concurrent requests without synchronization.
package catalog

import (
	"errors"
	"fmt"

	"github.com/ngqkhai/voice-synthesis/internal/core"
)

// Audience categories. The set is sparse per language: a language is not
// required to define voices for every category.
const (
	CategoryKids       = "kids"
	CategoryScientific = "scientific"
	CategoryGeneral    = "general"
)

// Default speaking rates per category, matching the provider recommendations.
const (
	kidsSpeed       = 1.2
	scientificSpeed = 0.9
	generalSpeed    = 1.0
)

// Static errors.
var (
	// ErrUnsupportedLanguage indicates the language code is not in the registry.
	ErrUnsupportedLanguage = errors.New("language not supported")
	// ErrUnknownVoice indicates the voice ID does not exist under the language.
	ErrUnknownVoice = errors.New("unknown voice")
	// ErrDuplicateVoice indicates a voice ID appears twice under one language.
	ErrDuplicateVoice = errors.New("duplicate voice id")
)

// Language is the construction-time definition of one supported language.
type Language struct {
	Code   string
	Name   string
	Voices map[string][]core.VoiceProfile
}

type languageEntry struct {
	name   string
	voices map[string][]core.VoiceProfile
}

// Catalog is an immutable registry mapping language codes to categorized
// voice profiles. Voice order within a category is definition order and is
// stable across calls.
type Catalog struct {
	languages map[string]languageEntry
}

// New builds a Catalog from explicit language definitions. It rejects
// duplicate voice IDs within a language, since FindVoice must resolve
// unambiguously.
func New(languages []Language) (*Catalog, error) {
	entries := make(map[string]languageEntry, len(languages))

	for _, lang := range languages {
		seen := make(map[string]struct{})

		voices := make(map[string][]core.VoiceProfile, len(lang.Voices))
		for category, profiles := range lang.Voices {
			for _, profile := range profiles {
				_, dup := seen[profile.ID]
				if dup {
					return nil, fmt.Errorf(
						"%w: '%s' under language '%s'",
						ErrDuplicateVoice, profile.ID, lang.Code,
					)
				}

				seen[profile.ID] = struct{}{}
			}

			voices[category] = append([]core.VoiceProfile(nil), profiles...)
		}

		entries[lang.Code] = languageEntry{name: lang.Name, voices: voices}
	}

	return &Catalog{languages: entries}, nil
}

// Languages returns the full registry as a mapping of language code to
// display name. It never fails.
func (c *Catalog) Languages() map[string]string {
	result := make(map[string]string, len(c.languages))
	for code, entry := range c.languages {
		result[code] = entry.name
	}

	return result
}

// Voices returns the categorized voice profiles for a language. When category
// is non-empty only that category is returned; a category with no voices for
// the language yields an empty slice, not an error. The returned slices are
// copies, so callers cannot mutate the registry.
func (c *Catalog) Voices(language, category string) (map[string][]core.VoiceProfile, error) {
	entry, ok := c.languages[language]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedLanguage, language)
	}

	if category != "" {
		profiles := entry.voices[category]

		return map[string][]core.VoiceProfile{
			category: append([]core.VoiceProfile{}, profiles...),
		}, nil
	}

	result := make(map[string][]core.VoiceProfile, len(entry.voices))
	for cat, profiles := range entry.voices {
		result[cat] = append([]core.VoiceProfile{}, profiles...)
	}

	return result, nil
}

// FindVoice resolves a voice ID under a language, searching all categories.
func (c *Catalog) FindVoice(language, voiceID string) (core.VoiceProfile, error) {
	entry, ok := c.languages[language]
	if !ok {
		return core.VoiceProfile{}, fmt.Errorf("%w: '%s'", ErrUnsupportedLanguage, language)
	}

	for _, profiles := range entry.voices {
		for _, profile := range profiles {
			if profile.ID == voiceID {
				return profile, nil
			}
		}
	}

	return core.VoiceProfile{}, fmt.Errorf(
		"%w: '%s' under language '%s'", ErrUnknownVoice, voiceID, language,
	)
}

// Default returns the built-in registry of provider voices. Each call builds
// a fresh Catalog so no package-level mutable state exists.
func Default() *Catalog {
	cat, err := New(defaultLanguages())
	if err != nil {
		// The built-in table is fixed at compile time; a duplicate here is
		// a programming error.
		panic(err)
	}

	return cat
}

func defaultLanguages() []Language {
	return []Language{
		{
			Code: "en-US",
			Name: "English (US)",
			Voices: map[string][]core.VoiceProfile{
				CategoryKids: {
					{ID: "en-US-Neural2-A", Name: "Friendly Female", Speed: kidsSpeed},
					{ID: "en-US-Neural2-B", Name: "Playful Male", Speed: kidsSpeed},
				},
				CategoryScientific: {
					{ID: "en-US-Neural2-D", Name: "Professional Female", Speed: scientificSpeed},
					{ID: "en-US-Neural2-E", Name: "Serious Male", Speed: scientificSpeed},
					{ID: "en-US-News-K", Name: "Newsreader Female", Speed: scientificSpeed},
				},
				CategoryGeneral: {
					{ID: "en-US-Neural2-C", Name: "Warm Female", Speed: generalSpeed},
					{ID: "en-US-Neural2-F", Name: "Standard Male", Speed: generalSpeed},
					{ID: "en-US-Wavenet-G", Name: "Confident Female", Speed: generalSpeed},
				},
			},
		},
		{
			Code: "en-GB",
			Name: "English (UK)",
			Voices: map[string][]core.VoiceProfile{
				CategoryScientific: {
					{ID: "en-GB-Neural2-D", Name: "Professional Female", Speed: scientificSpeed},
				},
				CategoryGeneral: {
					{ID: "en-GB-Neural2-A", Name: "Friendly Female", Speed: generalSpeed},
					{ID: "en-GB-Neural2-B", Name: "Playful Male", Speed: generalSpeed},
				},
			},
		},
		{
			Code: "es-ES",
			Name: "Spanish (Spain)",
			Voices: map[string][]core.VoiceProfile{
				CategoryKids: {
					{ID: "es-ES-Neural2-A", Name: "Friendly Female", Speed: kidsSpeed},
				},
				CategoryGeneral: {
					{ID: "es-ES-Neural2-B", Name: "Playful Male", Speed: generalSpeed},
					{ID: "es-ES-Neural2-C", Name: "Warm Female", Speed: generalSpeed},
				},
			},
		},
		{
			Code: "fr-FR",
			Name: "French (France)",
			Voices: map[string][]core.VoiceProfile{
				CategoryScientific: {
					{ID: "fr-FR-Neural2-D", Name: "Professional Female", Speed: scientificSpeed},
				},
				CategoryGeneral: {
					{ID: "fr-FR-Neural2-A", Name: "Friendly Female", Speed: generalSpeed},
					{ID: "fr-FR-Neural2-B", Name: "Playful Male", Speed: generalSpeed},
				},
			},
		},
		{
			Code: "ja-JP",
			Name: "Japanese",
			Voices: map[string][]core.VoiceProfile{
				CategoryGeneral: {
					{ID: "ja-JP-Neural2-B", Name: "Playful Male", Speed: generalSpeed},
					{ID: "ja-JP-Neural2-C", Name: "Warm Female", Speed: generalSpeed},
				},
			},
		},
		{
			Code: "pt-BR",
			Name: "Portuguese (Brazil)",
			Voices: map[string][]core.VoiceProfile{
				CategoryGeneral: {
					{ID: "pt-BR-Neural2-A", Name: "Friendly Female", Speed: generalSpeed},
					{ID: "pt-BR-Neural2-C", Name: "Warm Female", Speed: generalSpeed},
				},
			},
		},
	}
}
