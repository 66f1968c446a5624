// Package broker provides a NATS worker that consumes voice-synthesis jobs
// and publishes result events, so upstream pipelines can request synthesis
// without going through the HTTP surface.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
	"github.com/ngqkhai/voice-synthesis/internal/core"
	"github.com/ngqkhai/voice-synthesis/internal/synthesis"
)

const handleJobTimeout = 60 * time.Second

// SynthesisJobEvent is one synthesis request arriving over NATS. SceneID
// correlates the job with the script scene that produced it.
type SynthesisJobEvent struct {
	Header   events.EventHeader `json:"header"`
	SceneID  string             `json:"scene_id"`
	Text     string             `json:"text"`
	VoiceID  string             `json:"voice_id"`
	Language string             `json:"language"`
	Speed    float64            `json:"speed"`
}

// VoiceResultEvent reports the outcome of one job. On failure Error is set
// and the URL fields are empty; no failure is silently swallowed.
type VoiceResultEvent struct {
	Header        events.EventHeader `json:"header"`
	SceneID       string             `json:"scene_id"`
	VoiceID       string             `json:"voice_id"`
	AudioURL      string             `json:"audio_url"`
	CloudinaryURL string             `json:"cloudinary_url"`
	Duration      float64            `json:"duration"`
	Error         string             `json:"error,omitempty"`
}

// NatsWorker listens for synthesis jobs on a NATS subject, drives the same
// validation and synthesis pipeline as the HTTP surface, and publishes the
// results.
type NatsWorker struct {
	natsConnection *nats.Conn
	jobSubject     string
	resultSubject  string
	validator      *synthesis.Validator
	orchestrator   *synthesis.Orchestrator
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	jobSubject string,
	resultSubject string,
	validator *synthesis.Validator,
	orchestrator *synthesis.Orchestrator,
	log *logger.Logger,
) *NatsWorker {
	return &NatsWorker{
		natsConnection: natsConnection,
		jobSubject:     jobSubject,
		resultSubject:  resultSubject,
		validator:      validator,
		orchestrator:   orchestrator,
		log:            log,
	}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.jobSubject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.jobSubject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleJobTimeout)
	defer cancel()

	var job SynthesisJobEvent

	err := json.Unmarshal(msg.Data, &job)
	if err != nil {
		w.log.Error("Failed to unmarshal synthesis job: %v", err)

		return
	}

	result := w.processJob(ctx, &job)

	publishErr := w.publishResult(msg, result)
	if publishErr != nil {
		w.log.Error("Failed to publish result for workflow %s: %v",
			job.Header.WorkflowID, publishErr)
	}
}

// processJob runs validation and synthesis for one job and maps the outcome
// to a result event.
func (w *NatsWorker) processJob(ctx context.Context, job *SynthesisJobEvent) *VoiceResultEvent {
	result := &VoiceResultEvent{
		Header:        job.Header,
		SceneID:       job.SceneID,
		VoiceID:       "",
		AudioURL:      "",
		CloudinaryURL: "",
		Duration:      0,
		Error:         "",
	}

	resolved, err := w.validator.Validate(core.SynthesisRequest{
		Text:     job.Text,
		VoiceID:  job.VoiceID,
		Language: job.Language,
		Speed:    job.Speed,
	})
	if err != nil {
		w.log.Error("Invalid synthesis job for workflow %s: %v", job.Header.WorkflowID, err)

		result.Error = err.Error()

		return result
	}

	synthesized, err := w.orchestrator.Synthesize(ctx, resolved)
	if err != nil {
		w.log.Error("Synthesis failed for workflow %s: %v", job.Header.WorkflowID, err)

		result.Error = err.Error()

		return result
	}

	result.VoiceID = synthesized.ArtifactID
	result.AudioURL = synthesized.LocalURL
	result.CloudinaryURL = synthesized.RemoteURL
	result.Duration = synthesized.Duration

	return result
}

// publishResult responds on the reply inbox when the job was a request, and
// publishes to the configured result subject otherwise.
func (w *NatsWorker) publishResult(msg *nats.Msg, result *VoiceResultEvent) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result event: %w", err)
	}

	if msg.Reply != "" {
		err = msg.Respond(data)
		if err != nil {
			return fmt.Errorf("failed to respond with result event: %w", err)
		}

		return nil
	}

	err = w.natsConnection.Publish(w.resultSubject, data)
	if err != nil {
		return fmt.Errorf("failed to publish result event to %s: %w", w.resultSubject, err)
	}

	return nil
}
