package cli

import (
	"context"
	"fmt"

	"github.com/fmueller/voxlate/internal/pipeline"
	"github.com/spf13/cobra"
)

func newSpeakCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speak <transcript-file>",
		Short: "Synthesize speech from a transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			speakFn := app.speakFn
			if speakFn == nil {
				speakFn = app.speakTranscript
			}

			audioPath, err := speakFn(cmd.Context(), args[0])
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
	bindSynthesisFlags(cmd, app)
	return cmd
}

func (a *appState) speakTranscript(ctx context.Context, transcriptPath string) (string, error) {
	client, err := a.speechClientFor()
	if err != nil {
		a.logHint(err)
		return "", err
	}

	stage := &pipeline.Synthesizer{
		Speech: client,
		Model:  a.speechModel,
		Voice:  a.voice,
		Logger: a.log(),
	}

	audioPath, err := stage.Run(ctx, transcriptPath)
	if err != nil {
		a.logHint(err)
		return "", err
	}
	return audioPath, nil
}
