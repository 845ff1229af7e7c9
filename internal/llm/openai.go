package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"arogyakrishi/internal/model"
)

const chatTemperature = 0.3

// transcriptionLanguages are passed to the speech model as a hint.
var transcriptionLanguages = map[string]bool{"en": true, "hi": true, "te": true, "kn": true, "ml": true}

// OpenAIConfig names the hosted models.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	STTModel  string
	TTSModel  string
	TTSVoice  string
}

type OpenAIAssistant struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger *zap.Logger
}

func NewOpenAIAssistant(cfg OpenAIConfig, logger *zap.Logger) *OpenAIAssistant {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIAssistant{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

func (a *OpenAIAssistant) Enabled() bool { return true }

func (a *OpenAIAssistant) Reply(ctx context.Context, language string, history []model.ChatTurn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(language),
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == model.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.cfg.ChatModel,
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *OpenAIAssistant) Transcribe(ctx context.Context, audio []byte, filename, language string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}
	req := openai.AudioRequest{
		Model:    a.cfg.STTModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	}
	if transcriptionLanguages[language] {
		req.Language = language
	}

	resp, err := a.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (a *OpenAIAssistant) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := a.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(a.cfg.TTSModel),
		Input:          text,
		Voice:          openai.SpeechVoice(a.cfg.TTSVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	a.logger.Debug("synthesized speech", zap.Int("bytes", len(data)))
	return data, nil
}
