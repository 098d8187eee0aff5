package cli

import (
	"context"
	"fmt"

	"github.com/fmueller/voxlate/internal/pipeline"
	"github.com/fmueller/voxlate/internal/speech"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTranslateCmd(app *appState) *cobra.Command {
	var speak bool

	cmd := &cobra.Command{
		Use:   "translate <audio-file>",
		Short: "Translate an audio file into English text",
		Long: "Translate an audio file from the working directory into English text.\n" +
			"The transcript is written next to the audio as <name>_translated.txt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			translateFn := app.translateFn
			if translateFn == nil {
				translateFn = app.translateAudio
			}

			speakFn := app.speakFn
			if speakFn == nil {
				speakFn = app.speakTranscript
			}

			transcriptPath, err := translateFn(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), transcriptPath)

			if !speak {
				return nil
			}

			audioPath, err := speakFn(cmd.Context(), transcriptPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), audioPath)
			return nil
		},
	}

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindRemoteFlags(cmd, app)
	bindTranslationFlags(cmd, app)
	bindSynthesisFlags(cmd, app)
	cmd.Flags().BoolVar(&speak, "speak", false, "Also synthesize the transcript into <name>_audio.mp4")
	return cmd
}

func (a *appState) translateAudio(ctx context.Context, audioName string) (string, error) {
	client, err := a.speechClientFor()
	if err != nil {
		a.logHint(err)
		return "", err
	}

	stage := &pipeline.Transcriber{
		Translator: client,
		Dir:        a.dir,
		Model:      a.model,
		Format:     speech.ResponseFormat(a.responseFormat),
		Logger:     a.log(),
	}

	transcriptPath, err := stage.Run(ctx, audioName)
	if err != nil {
		a.logHint(err)
		return "", err
	}
	return transcriptPath, nil
}

func (a *appState) logHint(err error) {
	if hint := failureHint(err, a.dir); hint != "" {
		a.log().Warn(hint, zap.NamedError("cause", pipeline.KindOf(err)))
	}
}
