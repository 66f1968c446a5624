// Package synthesis implements the request validation and the synthesis
// pipeline for the voice-synthesis service: an incoming request is checked
// against the voice catalog, normalized, sent to the external speech
// provider, persisted locally and published to the CDN.
package synthesis

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ngqkhai/voice-synthesis/internal/catalog"
	"github.com/ngqkhai/voice-synthesis/internal/config"
	"github.com/ngqkhai/voice-synthesis/internal/core"
)

// Static validation errors. Language and voice lookups reuse the catalog
// sentinels so callers can match a single error class per failure.
var (
	// ErrTextEmpty indicates the request carried no text.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrTextTooLong indicates the text exceeds the configured maximum length.
	ErrTextTooLong = errors.New("text exceeds maximum length")
	// ErrSpeedOutOfRange indicates the speaking rate is outside the accepted range.
	ErrSpeedOutOfRange = errors.New("speed out of range")
)

// Validator checks a SynthesisRequest against the catalog and the configured
// bounds, and resolves defaults. It is pure: no side effects, no external
// calls, safe for concurrent use.
type Validator struct {
	catalog       *catalog.Catalog
	maxTextLength int
	minSpeed      float64
	maxSpeed      float64
}

// NewValidator creates a Validator over the given catalog and bounds.
func NewValidator(cat *catalog.Catalog, cfg config.SynthesisConfig) *Validator {
	return &Validator{
		catalog:       cat,
		maxTextLength: cfg.MaxTextLength,
		minSpeed:      cfg.MinSpeed,
		maxSpeed:      cfg.MaxSpeed,
	}
}

// Validate checks the request and returns a ResolvedRequest ready for the
// orchestrator. Validation order is language, text, voice, speed; the first
// failure wins and no external work happens before validation passes.
func (v *Validator) Validate(req core.SynthesisRequest) (core.ResolvedRequest, error) {
	_, err := v.catalog.Voices(req.Language, "")
	if err != nil {
		return core.ResolvedRequest{}, fmt.Errorf("validate language: %w", err)
	}

	textErr := v.validateText(req.Text)
	if textErr != nil {
		return core.ResolvedRequest{}, textErr
	}

	profile, err := v.catalog.FindVoice(req.Language, req.VoiceID)
	if err != nil {
		return core.ResolvedRequest{}, fmt.Errorf("validate voice: %w", err)
	}

	speed, speedErr := v.resolveSpeed(req.Speed, profile)
	if speedErr != nil {
		return core.ResolvedRequest{}, speedErr
	}

	return core.ResolvedRequest{
		Text:     req.Text,
		Language: req.Language,
		Voice:    profile,
		Speed:    speed,
	}, nil
}

func (v *Validator) validateText(text string) error {
	if text == "" {
		return ErrTextEmpty
	}

	length := utf8.RuneCountInString(text)
	if length > v.maxTextLength {
		return fmt.Errorf("%w: %d characters, maximum is %d",
			ErrTextTooLong, length, v.maxTextLength)
	}

	return nil
}

// resolveSpeed defaults an omitted speed to the matched profile's default
// rate. A zero speed means "not provided": the JSON surface never carries a
// literal zero because the accepted range starts above it.
func (v *Validator) resolveSpeed(speed float64, profile core.VoiceProfile) (float64, error) {
	if speed == 0 {
		return profile.Speed, nil
	}

	if speed < v.minSpeed || speed > v.maxSpeed {
		return 0, fmt.Errorf("%w: %.2f, accepted range is %.2f to %.2f",
			ErrSpeedOutOfRange, speed, v.minSpeed, v.maxSpeed)
	}

	return speed, nil
}
