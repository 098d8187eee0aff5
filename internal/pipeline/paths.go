package pipeline

import (
	"path/filepath"
	"strings"
)

const (
	TranscriptSuffix = "_translated.txt"
	AudioSuffix      = "_audio.mp4"
)

// BaseName is the file name up to its first dot, so "clip.final.m4a" maps to
// "clip".
func BaseName(name string) string {
	base := filepath.Base(name)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

// Extension is everything after the last dot of the file name, lowercased.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

func TranscriptPathFor(audioPath string) string {
	return filepath.Join(filepath.Dir(audioPath), BaseName(audioPath)+TranscriptSuffix)
}

// AudioPathFor never returns the transcript path itself: a transcript without
// the usual suffix keeps its stem and gets the audio suffix appended.
func AudioPathFor(transcriptPath string) string {
	if strings.HasSuffix(transcriptPath, TranscriptSuffix) {
		return strings.TrimSuffix(transcriptPath, TranscriptSuffix) + AudioSuffix
	}
	return strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath)) + AudioSuffix
}
