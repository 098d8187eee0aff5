package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fmueller/voxlate/internal/speech"
	"go.uber.org/zap"
)

const stageSpeak = "speak"

var errEmptyAudio = errors.New("synthesis returned no audio")

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req speech.SynthesisRequest) (io.ReadCloser, error)
}

// Synthesizer reads a transcript and writes its spoken rendition beside it.
type Synthesizer struct {
	Speech SpeechSynthesizer
	Model  string
	Voice  string
	Logger *zap.Logger
}

func (s *Synthesizer) Run(ctx context.Context, transcriptPath string) (string, error) {
	log := s.log()
	outPath := AudioPathFor(transcriptPath)

	content, err := os.ReadFile(transcriptPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Error("transcript file was not found", zap.String("path", transcriptPath))
		return "", &StageError{Stage: stageSpeak, Path: transcriptPath, Kind: ErrNotFound, Err: err}
	case err != nil:
		log.Error("failed to read transcript", zap.String("path", transcriptPath), zap.Error(err))
		return "", &StageError{Stage: stageSpeak, Path: transcriptPath, Kind: ErrIOFailure, Err: err}
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		return "", &StageError{Stage: stageSpeak, Path: transcriptPath, Kind: ErrInvalidInput, Err: errors.New("transcript is blank")}
	}

	log.Info("synthesizing...",
		zap.String("transcript", transcriptPath),
		zap.Int("chars", len([]rune(text))),
		zap.String("model", s.Model),
		zap.String("voice", s.Voice),
	)
	started := time.Now()

	body, err := s.Speech.Synthesize(ctx, speech.SynthesisRequest{
		Model: s.Model,
		Voice: s.Voice,
		Input: text,
	})
	if err != nil {
		log.Error("failed to create audio from text", zap.Error(err))
		return "", &StageError{Stage: stageSpeak, Path: transcriptPath, Kind: remoteKind(err), Err: err}
	}
	defer body.Close()

	src := &trackingReader{r: body}
	written, err := writeOutput(outPath, func(w io.Writer) (int64, error) {
		n, err := io.Copy(w, src)
		if err != nil {
			return n, fmt.Errorf("stream audio: %w", err)
		}
		if n == 0 {
			return 0, errEmptyAudio
		}
		return n, nil
	})
	if err != nil {
		log.Error("failed to save audio", zap.String("path", outPath), zap.Error(err))
		kind := ErrIOFailure
		if src.err != nil || errors.Is(err, errEmptyAudio) {
			kind = ErrRemoteUnavailable
		}
		return "", &StageError{Stage: stageSpeak, Path: outPath, Kind: kind, Err: err}
	}

	log.Info("audio created",
		zap.String("output", outPath),
		zap.String("size", humanize.Bytes(uint64(written))),
		zap.Duration("elapsed", time.Since(started)),
	)
	return outPath, nil
}

// trackingReader remembers read failures so a broken response stream can be
// told apart from a failing disk.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = err
	}
	return n, err
}

func (s *Synthesizer) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
