package synthesis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/book-expert/logger"
	"github.com/ngqkhai/voice-synthesis/internal/core"
	"github.com/ngqkhai/voice-synthesis/internal/synthesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errMockSynthesize = errors.New("mock synthesize error")
	errMockSave       = errors.New("mock save error")
	errMockUpload     = errors.New("mock upload error")
)

// mockSynthesizer is a mock implementation of the SpeechSynthesizer interface.
type mockSynthesizer struct {
	shouldFail bool
	callCount  int
	lastReq    core.ResolvedRequest
}

func (m *mockSynthesizer) Synthesize(_ context.Context, req core.ResolvedRequest) (core.SpeechAudio, error) {
	m.callCount++

	if m.shouldFail {
		return core.SpeechAudio{}, errMockSynthesize
	}

	m.lastReq = req

	return core.SpeechAudio{
		Data:            []byte("sample audio"),
		DurationSeconds: 2.5,
	}, nil
}

// mockAudioStore is a mock implementation of the AudioStore interface.
type mockAudioStore struct {
	shouldFail bool
	callCount  int
	savedID    string
	savedData  []byte
}

func (m *mockAudioStore) Save(id string, data []byte) (string, error) {
	m.callCount++

	if m.shouldFail {
		return "", errMockSave
	}

	m.savedID = id
	m.savedData = data

	return "static/audio/" + id + ".mp3", nil
}

// mockUploader is a mock implementation of the ObjectUploader interface.
type mockUploader struct {
	shouldFail  bool
	callCount   int
	uploadedKey string
}

func (m *mockUploader) Upload(_ context.Context, key string, _ []byte) (string, error) {
	m.callCount++

	if m.shouldFail {
		return "", errMockUpload
	}

	m.uploadedKey = key

	return "https://cdn.example.com/voice-synthesis/" + key + ".mp3", nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "test.log")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = log.Close()
	})

	return log
}

func resolvedRequest() core.ResolvedRequest {
	return core.ResolvedRequest{
		Text:     "Hello, this is a test.",
		Language: "en-US",
		Voice:    core.VoiceProfile{ID: "en-US-Neural2-A", Name: "Friendly Female", Speed: 1.2},
		Speed:    1.0,
	}
}

func TestSynthesize_Success(t *testing.T) {
	t.Parallel()

	synth := &mockSynthesizer{}
	store := &mockAudioStore{}
	uploader := &mockUploader{}

	orch := synthesis.NewOrchestrator(synth, store, uploader, false, newTestLogger(t))

	result, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ArtifactID)
	assert.NotEqual(t, "en-US-Neural2-A", result.ArtifactID,
		"artifact ID must be distinct from the input voice selector")
	assert.Equal(t, "/static/audio/"+result.ArtifactID+".mp3", result.LocalURL)
	assert.Equal(t, "https://cdn.example.com/voice-synthesis/"+result.ArtifactID+".mp3", result.RemoteURL)
	assert.InEpsilon(t, 2.5, result.Duration, 0.001)
	assert.False(t, result.CDNDegraded)

	assert.Equal(t, result.ArtifactID, store.savedID)
	assert.Equal(t, []byte("sample audio"), store.savedData)
	assert.Equal(t, result.ArtifactID, uploader.uploadedKey)
}

func TestSynthesize_FreshArtifactIDPerCall(t *testing.T) {
	t.Parallel()

	orch := synthesis.NewOrchestrator(
		&mockSynthesizer{}, &mockAudioStore{}, &mockUploader{}, false, newTestLogger(t),
	)

	first, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.NoError(t, err)

	second, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ArtifactID, second.ArtifactID)
}

func TestSynthesize_ProviderFailure(t *testing.T) {
	t.Parallel()

	synth := &mockSynthesizer{shouldFail: true}
	store := &mockAudioStore{}
	uploader := &mockUploader{}

	orch := synthesis.NewOrchestrator(synth, store, uploader, false, newTestLogger(t))

	_, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.ErrorIs(t, err, synthesis.ErrProvider)
	require.ErrorIs(t, err, errMockSynthesize, "upstream detail must be preserved")

	assert.Equal(t, 0, store.callCount, "no local write after a provider failure")
	assert.Equal(t, 0, uploader.callCount, "no upload after a provider failure")
}

func TestSynthesize_StorageFailure(t *testing.T) {
	t.Parallel()

	store := &mockAudioStore{shouldFail: true}
	uploader := &mockUploader{}

	orch := synthesis.NewOrchestrator(&mockSynthesizer{}, store, uploader, false, newTestLogger(t))

	_, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.ErrorIs(t, err, synthesis.ErrStorage)

	assert.Equal(t, 0, uploader.callCount, "no upload after a storage failure")
}

func TestSynthesize_CDNFailureDegradesGracefully(t *testing.T) {
	t.Parallel()

	uploader := &mockUploader{shouldFail: true}

	orch := synthesis.NewOrchestrator(&mockSynthesizer{}, &mockAudioStore{}, uploader, false, newTestLogger(t))

	result, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.NoError(t, err)

	assert.Empty(t, result.RemoteURL)
	assert.True(t, result.CDNDegraded)
	assert.NotEmpty(t, result.LocalURL, "local playback remains usable")
}

func TestSynthesize_CDNFailureHardFailsWhenRequired(t *testing.T) {
	t.Parallel()

	uploader := &mockUploader{shouldFail: true}

	orch := synthesis.NewOrchestrator(&mockSynthesizer{}, &mockAudioStore{}, uploader, true, newTestLogger(t))

	_, err := orch.Synthesize(context.Background(), resolvedRequest())
	require.ErrorIs(t, err, synthesis.ErrStorage)
	require.ErrorIs(t, err, errMockUpload)
}
