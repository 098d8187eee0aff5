package cli

import (
	"errors"
	"fmt"

	"github.com/fmueller/voxlate/internal/config"
	"github.com/fmueller/voxlate/internal/pipeline"
)

func failureHint(err error, dir string) string {
	switch {
	case errors.Is(err, config.ErrMissingCredential):
		return "Export " + config.EnvAPIKey + " or put it in a .env file (see --env-file)."
	case errors.Is(err, pipeline.ErrNotFound):
		return fmt.Sprintf("Input not found. Audio names are resolved inside %q; pass --dir to change it.", dir)
	case errors.Is(err, pipeline.ErrUnauthorized):
		return "The API rejected the credential. Check " + config.EnvAPIKey + " and the project's access to audio models."
	case errors.Is(err, pipeline.ErrRemoteUnavailable):
		return "The speech service call failed. Check connectivity, quota and --base-url, then try again."
	case errors.Is(err, pipeline.ErrInvalidInput):
		return "Nothing to send. Check that the input is a non-empty file."
	default:
		return ""
	}
}
