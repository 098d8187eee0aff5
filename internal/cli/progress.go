package cli

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fmueller/voxlate/internal/speech"
	"github.com/schollz/progressbar/v3"
)

type stopFunc func()

func startSpinner(enabled bool, description string) stopFunc {
	if !enabled {
		return func() {}
	}

	bar := progressbar.NewOptions(
		-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-doneCh
		})
	}
}

// spinningClient shows a spinner for as long as a remote call blocks.
type spinningClient struct {
	inner   speechClient
	enabled bool
}

func (c *spinningClient) Translate(ctx context.Context, req speech.TranslationRequest) (string, error) {
	stop := startSpinner(c.enabled, "Translating")
	defer stop()
	return c.inner.Translate(ctx, req)
}

func (c *spinningClient) Synthesize(ctx context.Context, req speech.SynthesisRequest) (io.ReadCloser, error) {
	stop := startSpinner(c.enabled, "Synthesizing")
	defer stop()
	return c.inner.Synthesize(ctx, req)
}
