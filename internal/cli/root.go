package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fmueller/voxlate/internal/config"
	"github.com/fmueller/voxlate/internal/logging"
	"github.com/fmueller/voxlate/internal/pipeline"
	"github.com/fmueller/voxlate/internal/platform"
	"github.com/fmueller/voxlate/internal/speech"
	"github.com/fmueller/voxlate/internal/version"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

type speechClient interface {
	pipeline.Translator
	pipeline.SpeechSynthesizer
}

type appState struct {
	verbose        bool
	quiet          bool
	jsonLogs       bool
	noProgress     bool
	dir            string
	model          string
	responseFormat string
	speechModel    string
	voice          string
	baseURL        string
	envFile        string

	logger      *zap.Logger
	lookupEnv   config.LookupFunc
	userEnvFile string
	client      speechClient

	newClientFn func(remote config.Remote) (speechClient, error)
	translateFn func(ctx context.Context, audioName string) (string, error)
	speakFn     func(ctx context.Context, transcriptPath string) (string, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		dir:            platform.DefaultWorkDir,
		model:          speech.DefaultTranslationModel,
		responseFormat: string(speech.FormatJSON),
		speechModel:    speech.DefaultSpeechModel,
		voice:          speech.DefaultVoice,
		lookupEnv:      os.LookupEnv,
		userEnvFile:    platform.ResolveUserEnvFile(),
	}
	app.newClientFn = newSpeechClient
	app.translateFn = app.translateAudio
	app.speakFn = app.speakTranscript

	return newRootCmd(app)
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "voxlate",
		Short:         "Translate spoken audio into English text and speak it back",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Options{Verbose: app.verbose, Quiet: app.quiet, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger
			return app.normalizeSettings()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)

	cmd.AddCommand(newTranslateCmd(app))
	cmd.AddCommand(newSpeakCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.Flags().BoolVarP(&app.quiet, "quiet", "q", app.quiet, "Only log errors")
	cmd.Flags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindRemoteFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.baseURL, "base-url", app.baseURL, "API base URL (overrides "+config.EnvBaseURL+")")
	cmd.Flags().StringVar(&app.envFile, "env-file", app.envFile, "Dotenv file holding "+config.EnvAPIKey+" (default ./.env when present)")
}

func bindTranslationFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVarP(&app.dir, "dir", "d", app.dir, "Directory holding input audio and generated files")
	cmd.Flags().StringVar(&app.model, "model", app.model, "Translation model")
	cmd.Flags().StringVar(&app.responseFormat, "response-format", app.responseFormat, "Translation response format: json|text")
}

func bindSynthesisFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.speechModel, "tts-model", app.speechModel, "Speech synthesis model")
	cmd.Flags().StringVar(&app.voice, "voice", app.voice, "Speech synthesis voice")
}

// normalizeSettings validates flag values so a typo fails before any file or
// network work starts.
func (a *appState) normalizeSettings() error {
	a.dir = platform.ResolveWorkDir(a.dir)

	model, err := speech.ResolveTranslationModel(a.model)
	if err != nil {
		return err
	}
	a.model = model

	format, err := speech.ParseResponseFormat(a.responseFormat)
	if err != nil {
		return err
	}
	a.responseFormat = string(format)

	speechModel, err := speech.ResolveSpeechModel(a.speechModel)
	if err != nil {
		return err
	}
	a.speechModel = speechModel

	voice, err := speech.ResolveVoice(a.voice)
	if err != nil {
		return err
	}
	a.voice = voice

	return nil
}

// speechClientFor builds the remote client once per run. It is the first
// thing every remote command does, so a missing credential stops the run
// before any directory is created or file is read.
func (a *appState) speechClientFor() (speechClient, error) {
	if a.client != nil {
		return a.client, nil
	}

	remote, err := config.LoadRemote(config.Options{
		EnvFile:     a.envFile,
		UserEnvFile: a.userEnvFile,
		Lookup:      a.lookupEnv,
	})
	if err != nil {
		return nil, err
	}
	if a.baseURL != "" {
		remote.BaseURL = a.baseURL
	}

	newClientFn := a.newClientFn
	if newClientFn == nil {
		newClientFn = newSpeechClient
	}

	client, err := newClientFn(remote)
	if err != nil {
		return nil, err
	}

	a.client = &spinningClient{inner: client, enabled: a.progressEnabled()}
	a.log().Debug("speech client ready", zap.Bool("custom_base_url", remote.BaseURL != ""))
	return a.client, nil
}

func newSpeechClient(remote config.Remote) (speechClient, error) {
	client, err := speech.NewClient(speech.Config{APIKey: remote.APIKey, BaseURL: remote.BaseURL})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress || a.jsonLogs {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
