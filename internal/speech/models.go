package speech

import (
	"fmt"
	"sort"
	"strings"
)

const (
	DefaultTranslationModel = "whisper-1"
	DefaultSpeechModel      = "tts-1"
	DefaultVoice            = "alloy"
)

type ResponseFormat string

const (
	FormatJSON ResponseFormat = "json"
	FormatText ResponseFormat = "text"
)

// Only whisper-1 serves the translations endpoint; the gpt-4o transcribe
// models are transcription-only.
var translationModels = map[string]struct{}{
	"whisper-1": {},
}

var speechModels = map[string]struct{}{
	"tts-1":           {},
	"tts-1-hd":        {},
	"gpt-4o-mini-tts": {},
}

var voices = map[string]struct{}{
	"alloy":   {},
	"ash":     {},
	"ballad":  {},
	"coral":   {},
	"echo":    {},
	"fable":   {},
	"onyx":    {},
	"nova":    {},
	"sage":    {},
	"shimmer": {},
	"verse":   {},
}

func TranslationModels() []string { return sortedKeys(translationModels) }
func SpeechModels() []string      { return sortedKeys(speechModels) }
func Voices() []string            { return sortedKeys(voices) }

func ResolveTranslationModel(name string) (string, error) {
	return resolve("translation model", name, DefaultTranslationModel, translationModels)
}

func ResolveSpeechModel(name string) (string, error) {
	return resolve("speech model", name, DefaultSpeechModel, speechModels)
}

func ResolveVoice(name string) (string, error) {
	return resolve("voice", name, DefaultVoice, voices)
}

func ParseResponseFormat(value string) (ResponseFormat, error) {
	switch ResponseFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown response format %q (known formats: json, text)", value)
	}
}

func resolve(kind, name, fallback string, known map[string]struct{}) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fallback, nil
	}
	if _, ok := known[name]; !ok {
		return "", fmt.Errorf("unknown %s %q (known: %s)", kind, name, strings.Join(sortedKeys(known), ", "))
	}
	return name, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
