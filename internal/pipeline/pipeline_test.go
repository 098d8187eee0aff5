package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmueller/voxlate/internal/speech"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	calls    int
	lastReq  speech.TranslationRequest
	lastBody string
	text     string
	err      error
}

func (f *fakeTranslator) Translate(_ context.Context, req speech.TranslationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	body, err := io.ReadAll(req.Audio)
	if err != nil {
		return "", err
	}
	f.lastBody = string(body)
	return f.text, f.err
}

type fakeSpeech struct {
	calls   int
	lastReq speech.SynthesisRequest
	audio   string
	body    io.ReadCloser
	err     error
}

func (f *fakeSpeech) Synthesize(_ context.Context, req speech.SynthesisRequest) (io.ReadCloser, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.body != nil {
		return f.body, nil
	}
	return io.NopCloser(strings.NewReader(f.audio)), nil
}

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (brokenBody) Close() error             { return nil }

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTranscriberWritesTranscriptNextToInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "reading6.m4a"), "spanish-audio")

	translator := &fakeTranslator{text: "Good morning."}
	stage := &Transcriber{Translator: translator, Dir: dir, Model: "whisper-1", Format: speech.FormatJSON}

	out, err := stage.Run(context.Background(), "reading6.m4a")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "reading6_translated.txt"), out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "Good morning.", string(content))

	require.Equal(t, 1, translator.calls)
	require.Equal(t, "spanish-audio", translator.lastBody)
	require.Equal(t, "reading6.m4a", translator.lastReq.FileName)
	require.Equal(t, "whisper-1", translator.lastReq.Model)
	require.Equal(t, speech.FormatJSON, translator.lastReq.Format)
}

func TestTranscriberSplitsBaseNameOnFirstDot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := "WhatsApp Audio 2025-06-20 at 15.38.21.mp3"
	writeFixture(t, filepath.Join(dir, name), "audio")

	stage := &Transcriber{Translator: &fakeTranslator{text: "hi"}, Dir: dir}
	out, err := stage.Run(context.Background(), name)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "WhatsApp Audio 2025-06-20 at 15_translated.txt"), out)
}

func TestTranscriberCreatesMissingDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "input")
	translator := &fakeTranslator{text: "unused"}
	stage := &Transcriber{Translator: translator, Dir: dir}

	_, err := stage.Run(context.Background(), "missing.m4a")
	require.Error(t, err)

	info, statErr := os.Stat(dir)
	require.NoError(t, statErr)
	require.True(t, info.IsDir())
}

func TestTranscriberMissingInputSkipsNetwork(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{text: "unused"}
	stage := &Transcriber{Translator: translator, Dir: t.TempDir()}

	out, err := stage.Run(context.Background(), "nope.m4a")
	require.Empty(t, out)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, ErrNotFound, KindOf(err))
	require.Equal(t, 0, translator.calls)
}

func TestTranscriberRejectsDirectoryInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "clips.d"), 0o755))

	translator := &fakeTranslator{}
	stage := &Transcriber{Translator: translator, Dir: dir}

	_, err := stage.Run(context.Background(), "clips.d")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, translator.calls)
}

func TestTranscriberRemoteFailureLeavesNoOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "unauthorized", err: fmt.Errorf("translate audio: %w", speech.ErrUnauthorized), kind: ErrUnauthorized},
		{name: "server down", err: fmt.Errorf("translate audio: %w", speech.ErrRemoteUnavailable), kind: ErrRemoteUnavailable},
		{name: "unclassified", err: errors.New("boom"), kind: ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFixture(t, filepath.Join(dir, "clip.mp3"), "audio")

			stage := &Transcriber{Translator: &fakeTranslator{err: tt.err}, Dir: dir}
			out, err := stage.Run(context.Background(), "clip.mp3")
			require.Empty(t, out)
			require.ErrorIs(t, err, tt.kind)
			require.Equal(t, tt.kind, KindOf(err))

			_, statErr := os.Stat(filepath.Join(dir, "clip_translated.txt"))
			require.ErrorIs(t, statErr, os.ErrNotExist)
			_, statErr = os.Stat(filepath.Join(dir, "clip_translated.txt.part"))
			require.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestTranscriberRerunOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "clip.mp3"), "audio")

	translator := &fakeTranslator{text: "first"}
	stage := &Transcriber{Translator: translator, Dir: dir}

	first, err := stage.Run(context.Background(), "clip.mp3")
	require.NoError(t, err)

	translator.text = "second"
	second, err := stage.Run(context.Background(), "clip.mp3")
	require.NoError(t, err)
	require.Equal(t, first, second)

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, "second", string(content))
}

func TestTranscriberWriteFailureIsIOFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "clip.mp3"), "audio")
	// A directory squatting on the temp path makes the create fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "clip_translated.txt.part"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip_translated.txt.part", "keep"), []byte("x"), 0o644))

	stage := &Transcriber{Translator: &fakeTranslator{text: "hello"}, Dir: dir}
	_, err := stage.Run(context.Background(), "clip.mp3")
	require.ErrorIs(t, err, ErrIOFailure)
}

func TestSynthesizerWritesAudio(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	transcript := filepath.Join(dir, "reading8_translated.txt")
	writeFixture(t, transcript, "Hello from the transcript.")

	synth := &fakeSpeech{audio: "mp3-bytes"}
	stage := &Synthesizer{Speech: synth, Model: "tts-1", Voice: "alloy"}

	out, err := stage.Run(context.Background(), transcript)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "reading8_audio.mp4"), out)

	audio, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "mp3-bytes", string(audio))

	require.Equal(t, 1, synth.calls)
	require.Equal(t, speech.SynthesisRequest{Model: "tts-1", Voice: "alloy", Input: "Hello from the transcript."}, synth.lastReq)
}

func TestSynthesizerMissingTranscript(t *testing.T) {
	t.Parallel()

	synth := &fakeSpeech{audio: "x"}
	stage := &Synthesizer{Speech: synth}

	_, err := stage.Run(context.Background(), filepath.Join(t.TempDir(), "gone_translated.txt"))
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, synth.calls)
}

func TestSynthesizerBlankTranscript(t *testing.T) {
	t.Parallel()

	transcript := filepath.Join(t.TempDir(), "blank_translated.txt")
	writeFixture(t, transcript, " \n\t")

	synth := &fakeSpeech{audio: "x"}
	stage := &Synthesizer{Speech: synth}

	_, err := stage.Run(context.Background(), transcript)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, 0, synth.calls)
}

func TestSynthesizerRemoteFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		synth *fakeSpeech
		kind  error
	}{
		{name: "unauthorized", synth: &fakeSpeech{err: fmt.Errorf("synthesize speech: %w", speech.ErrUnauthorized)}, kind: ErrUnauthorized},
		{name: "unavailable", synth: &fakeSpeech{err: fmt.Errorf("synthesize speech: %w", speech.ErrRemoteUnavailable)}, kind: ErrRemoteUnavailable},
		{name: "empty body", synth: &fakeSpeech{audio: ""}, kind: ErrRemoteUnavailable},
		{name: "broken stream", synth: &fakeSpeech{body: brokenBody{}}, kind: ErrRemoteUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			transcript := filepath.Join(dir, "clip_translated.txt")
			writeFixture(t, transcript, "some text")

			stage := &Synthesizer{Speech: tt.synth}
			_, err := stage.Run(context.Background(), transcript)
			require.ErrorIs(t, err, tt.kind)
			require.Equal(t, 1, tt.synth.calls)

			_, statErr := os.Stat(filepath.Join(dir, "clip_audio.mp4"))
			require.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestStageErrorMessage(t *testing.T) {
	t.Parallel()

	err := &StageError{Stage: "translate", Path: "input/a.mp3", Kind: ErrNotFound, Err: os.ErrNotExist}
	require.Equal(t, "translate input/a.mp3: not found: file does not exist", err.Error())
	require.Nil(t, KindOf(errors.New("plain")))
}
