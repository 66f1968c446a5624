package synthesis

import (
	"context"
	"errors"
	"fmt"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/ngqkhai/voice-synthesis/internal/core"
)

const audioFileExt = ".mp3"

// Operational errors. Callers surface these as 5xx responses.
var (
	// ErrProvider indicates the external speech provider call failed.
	ErrProvider = errors.New("speech provider failure")
	// ErrStorage indicates the local or remote persistence of audio failed.
	ErrStorage = errors.New("audio storage failure")
)

// Orchestrator drives one synthesis request through its linear pipeline:
// generate an artifact ID, call the provider, persist locally, upload to the
// CDN, assemble the result. It holds no per-request state and is safe for
// concurrent use.
type Orchestrator struct {
	synthesizer core.SpeechSynthesizer
	store       core.AudioStore
	uploader    core.ObjectUploader
	requireCDN  bool
	log         *logger.Logger
}

// NewOrchestrator wires the orchestrator to its three capabilities. When
// requireCDN is true a failed CDN upload fails the whole operation; when
// false the result degrades to a local-only URL.
func NewOrchestrator(
	synthesizer core.SpeechSynthesizer,
	store core.AudioStore,
	uploader core.ObjectUploader,
	requireCDN bool,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		synthesizer: synthesizer,
		store:       store,
		uploader:    uploader,
		requireCDN:  requireCDN,
		log:         log,
	}
}

// Synthesize runs the pipeline for one resolved request. Each step is
// attempted once; a failure short-circuits and nothing partial is ever
// referenced in a returned result.
func (o *Orchestrator) Synthesize(
	ctx context.Context,
	req core.ResolvedRequest,
) (core.SynthesisResult, error) {
	artifactID := uuid.NewString()

	audio, err := o.synthesizer.Synthesize(ctx, req)
	if err != nil {
		return core.SynthesisResult{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	localPath, err := o.store.Save(artifactID, audio.Data)
	if err != nil {
		return core.SynthesisResult{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	result := core.SynthesisResult{
		ArtifactID:  artifactID,
		LocalPath:   localPath,
		LocalURL:    "/static/audio/" + artifactID + audioFileExt,
		RemoteURL:   "",
		Duration:    audio.DurationSeconds,
		CDNDegraded: false,
	}

	remoteURL, uploadErr := o.uploader.Upload(ctx, artifactID, audio.Data)
	if uploadErr != nil {
		if o.requireCDN {
			return core.SynthesisResult{}, fmt.Errorf("%w: cdn upload: %w", ErrStorage, uploadErr)
		}

		o.log.Warn("CDN upload failed for artifact %s, returning local URL only: %v",
			artifactID, uploadErr)

		result.CDNDegraded = true

		return result, nil
	}

	result.RemoteURL = remoteURL

	return result, nil
}
