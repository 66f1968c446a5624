// Package core defines the shared types and capability interfaces for the
// voice-synthesis service.
package core

import "context"

// VoiceProfile describes a single provider voice preset as exposed by the
// catalog. ID is the provider-specific voice name, unique within a language.
// Speed is the provider-recommended default speaking rate.
type VoiceProfile struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Speed float64 `json:"speed"`
}

// SynthesisRequest is the raw, unvalidated input for one synthesis call.
type SynthesisRequest struct {
	Text     string  `json:"text"`
	VoiceID  string  `json:"voice_id"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

// ResolvedRequest is a SynthesisRequest that passed validation: the voice
// profile is matched against the catalog and the speed is normalized.
type ResolvedRequest struct {
	Text     string
	Language string
	Voice    VoiceProfile
	Speed    float64
}

// SpeechAudio is the provider's response for one synthesis call. Duration
// comes from the provider side and is never re-derived by this service.
type SpeechAudio struct {
	Data            []byte
	DurationSeconds float64
}

// SynthesisResult names one completed synthesis artifact. ArtifactID is a
// freshly generated identifier, distinct from the input voice selector.
// RemoteURL is empty when the CDN upload was skipped or degraded.
type SynthesisResult struct {
	ArtifactID  string
	LocalPath   string
	LocalURL    string
	RemoteURL   string
	Duration    float64
	CDNDegraded bool
}

// SpeechSynthesizer is the external cloud text-to-speech capability.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req ResolvedRequest) (SpeechAudio, error)
}

// ObjectUploader is the external CDN capability: given bytes and a key, it
// returns a durable public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

// AudioStore persists synthesized audio bytes locally and returns the path
// the bytes were written to.
type AudioStore interface {
	Save(id string, data []byte) (string, error)
}
