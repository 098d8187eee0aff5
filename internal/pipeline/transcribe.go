package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fmueller/voxlate/internal/speech"
	"go.uber.org/zap"
)

const stageTranslate = "translate"

type Translator interface {
	Translate(ctx context.Context, req speech.TranslationRequest) (string, error)
}

// Transcriber turns an audio file inside Dir into an English transcript next
// to it.
type Transcriber struct {
	Translator Translator
	Dir        string
	Model      string
	Format     speech.ResponseFormat
	Logger     *zap.Logger
}

// Run returns the transcript path. Failures are *StageError values; a missing
// input never reaches the network and a failed call writes nothing.
func (t *Transcriber) Run(ctx context.Context, audioName string) (string, error) {
	log := t.log()

	if err := t.ensureDir(); err != nil {
		return "", &StageError{Stage: stageTranslate, Path: t.Dir, Kind: ErrIOFailure, Err: err}
	}

	audioPath := filepath.Join(t.Dir, audioName)
	log.Debug("looking for audio file", zap.String("path", audioPath))

	info, err := os.Stat(audioPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Error("audio file does not exist", zap.String("path", audioPath))
		return "", &StageError{Stage: stageTranslate, Path: audioPath, Kind: ErrNotFound, Err: err}
	case err != nil:
		return "", &StageError{Stage: stageTranslate, Path: audioPath, Kind: ErrIOFailure, Err: err}
	case info.IsDir():
		return "", &StageError{Stage: stageTranslate, Path: audioPath, Kind: ErrInvalidInput, Err: errors.New("path is a directory")}
	}

	text, err := t.translate(ctx, audioPath, info.Size())
	if err != nil {
		return "", err
	}

	outPath := TranscriptPathFor(audioPath)
	if _, err := writeOutput(outPath, func(w io.Writer) (int64, error) {
		n, err := io.WriteString(w, text)
		return int64(n), err
	}); err != nil {
		log.Error("failed to write transcript", zap.String("path", outPath), zap.Error(err))
		return "", &StageError{Stage: stageTranslate, Path: outPath, Kind: ErrIOFailure, Err: err}
	}

	log.Info("translation completed", zap.String("output", outPath))
	return outPath, nil
}

func (t *Transcriber) translate(ctx context.Context, audioPath string, size int64) (string, error) {
	log := t.log()

	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", &StageError{Stage: stageTranslate, Path: audioPath, Kind: ErrIOFailure, Err: err}
	}
	defer audioFile.Close()

	log.Info("translating...",
		zap.String("audio", audioPath),
		zap.String("size", humanize.Bytes(uint64(size))),
		zap.String("model", t.Model),
		zap.String("format", string(t.Format)),
	)
	started := time.Now()

	text, err := t.Translator.Translate(ctx, speech.TranslationRequest{
		Model:    t.Model,
		FileName: filepath.Base(audioPath),
		Audio:    audioFile,
		Format:   t.Format,
	})
	if err != nil {
		log.Error("failed to process the audio file", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", &StageError{Stage: stageTranslate, Path: audioPath, Kind: remoteKind(err), Err: err}
	}
	log.Debug("translation call finished", zap.Duration("elapsed", time.Since(started)))

	return text, nil
}

func (t *Transcriber) ensureDir() error {
	if t.Dir == "" {
		return errors.New("base directory is empty")
	}

	_, err := os.Stat(t.Dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat base directory: %w", err)
	}

	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("create base directory %s: %w", t.Dir, err)
	}
	t.log().Info("directory created", zap.String("dir", t.Dir))
	return nil
}

func (t *Transcriber) log() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}
