package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type TranslationRequest struct {
	Model    string
	FileName string
	Audio    io.Reader
	Format   ResponseFormat
}

type SynthesisRequest struct {
	Model string
	Voice string
	Input string
}

// Client talks to the hosted translation and synthesis endpoints. It holds
// the credential for its own lifetime; nothing is read from the environment.
type Client struct {
	api *openai.Client
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("speech client requires an API key")
	}

	apiCfg := openai.DefaultConfig(key)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimRight(base, "/")
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	return &Client{api: openai.NewClientWithConfig(apiCfg)}, nil
}

// Translate submits audio to the translation endpoint and returns English text.
func (c *Client) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	if req.Audio == nil {
		return "", errors.New("translation request has no audio")
	}

	model := req.Model
	if model == "" {
		model = DefaultTranslationModel
	}
	format := req.Format
	if format == "" {
		format = FormatJSON
	}

	resp, err := c.api.CreateTranslation(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: req.FileName,
		Reader:   req.Audio,
		Format:   openai.AudioResponseFormat(format),
	})
	if err != nil {
		return "", classify("translate audio", err)
	}

	return resp.Text, nil
}

// Synthesize returns the audio body of a speech request. The caller closes it.
func (c *Client) Synthesize(ctx context.Context, req SynthesisRequest) (io.ReadCloser, error) {
	model := req.Model
	if model == "" {
		model = DefaultSpeechModel
	}
	voice := req.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(model),
		Voice:          openai.SpeechVoice(voice),
		Input:          req.Input,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, classify("synthesize speech", err)
	}

	return resp, nil
}
