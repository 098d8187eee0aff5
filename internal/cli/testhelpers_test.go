package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/fmueller/voxlate/internal/config"
	"github.com/fmueller/voxlate/internal/platform"
	"github.com/fmueller/voxlate/internal/speech"
	"github.com/stretchr/testify/require"
)

func newTestApp(env map[string]string) *appState {
	app := &appState{
		dir:            platform.DefaultWorkDir,
		model:          speech.DefaultTranslationModel,
		responseFormat: string(speech.FormatJSON),
		speechModel:    speech.DefaultSpeechModel,
		voice:          speech.DefaultVoice,
		lookupEnv: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
	}
	app.newClientFn = newSpeechClient
	app.translateFn = app.translateAudio
	app.speakFn = app.speakTranscript
	return app
}

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()
	return runAppCommand(t, newTestApp(nil), args)
}

func runAppCommand(t *testing.T, app *appState, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd(app)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// fakeAPI imitates the two OpenAI audio endpoints the pipeline calls.
type fakeAPI struct {
	server       *httptest.Server
	translations atomic.Int32
	speeches     atomic.Int32

	translationStatus int
	translatedText    string
	lastSpeechInput   atomic.Value
}

func newFakeAPI(t *testing.T, translatedText string) *fakeAPI {
	t.Helper()
	return newFakeAPIWithStatus(t, translatedText, http.StatusOK)
}

func newFakeAPIWithStatus(t *testing.T, translatedText string, translationStatus int) *fakeAPI {
	t.Helper()

	api := &fakeAPI{translationStatus: translationStatus, translatedText: translatedText}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/audio/translations":
			api.translations.Add(1)
			if api.translationStatus != http.StatusOK {
				_, _ = io.Copy(io.Discard, r.Body)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(api.translationStatus)
				_, _ = w.Write([]byte(`{"error":{"message":"rejected","type":"invalid_request_error"}}`))
				return
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if r.FormValue("response_format") == "text" {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte(api.translatedText))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"text": api.translatedText})
		case "/v1/audio/speech":
			api.speeches.Add(1)
			var payload struct {
				Input string `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			api.lastSpeechInput.Store(payload.Input)
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("ID3-fake-mp3"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (f *fakeAPI) env() map[string]string {
	return map[string]string{
		config.EnvAPIKey:  "sk-test",
		config.EnvBaseURL: f.server.URL + "/v1",
	}
}

func writeAudioFixture(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not-really-audio"), 0o644))
	return path
}
