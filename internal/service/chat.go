package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arogyakrishi/internal/llm"
	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/metrics"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/session"
)

// voicePlaceholder stands in for the transcript when no speech model is configured.
const voicePlaceholder = "[Voice message received]"

// VoiceRequest is one recorded question.
type VoiceRequest struct {
	Audio     []byte
	Filename  string
	Language  string
	SessionID string
	// BaseURL prefixes the returned audio_url, e.g. "https://api.example.com".
	BaseURL string
}

// ChatService runs text and voice conversations over a bounded session history.
type ChatService struct {
	sessions  session.Store
	audio     *session.AudioStore
	assistant llm.Assistant
	status    model.ChatStatus
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewChatService(
	sessions session.Store,
	audio *session.AudioStore,
	assistant llm.Assistant,
	status model.ChatStatus,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ChatService {
	status.OpenAIEnabled = assistant.Enabled()
	return &ChatService{
		sessions:  sessions,
		audio:     audio,
		assistant: assistant,
		status:    status,
		metrics:   m,
		logger:    logger,
	}
}

// Text answers a typed message.
func (s *ChatService) Text(ctx context.Context, message, language, sessionID string) (*model.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, model.ErrEmptyMessage
	}
	lang, err := localization.ValidateLanguage(language)
	if err != nil {
		return nil, err
	}

	resp, err := s.converse(ctx, sessionID, message, lang)
	if err != nil {
		s.metrics.RecordChat("text", metrics.ResultError)
		return nil, err
	}
	s.metrics.RecordChat("text", metrics.ResultSuccess)
	return resp, nil
}

// Voice transcribes a recorded message, answers it and, when a speech model
// is available, attaches a synthesized reply. Speech synthesis failures only
// drop the audio_url.
func (s *ChatService) Voice(ctx context.Context, req VoiceRequest) (*model.ChatResponse, error) {
	lang, err := localization.ValidateLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	transcript := voicePlaceholder
	if s.assistant.Enabled() {
		text, err := s.assistant.Transcribe(ctx, req.Audio, req.Filename, lang)
		if err != nil {
			s.metrics.RecordChat("voice", metrics.ResultError)
			return nil, fmt.Errorf("transcribe: %w", err)
		}
		if text != "" {
			transcript = text
		}
	}

	resp, err := s.converse(ctx, req.SessionID, transcript, lang)
	if err != nil {
		s.metrics.RecordChat("voice", metrics.ResultError)
		return nil, err
	}

	if s.assistant.Enabled() {
		speech, err := s.assistant.Synthesize(ctx, resp.Reply)
		if err != nil {
			s.logger.Warn("speech synthesis failed, returning no audio", zap.Error(err))
		} else {
			id := s.audio.Put(speech, model.ContentTypeMPEG)
			url := strings.TrimSuffix(req.BaseURL, "/") + "/api/chat/audio/" + id
			resp.AudioURL = &url
		}
	}

	s.metrics.RecordChat("voice", metrics.ResultSuccess)
	return resp, nil
}

// Audio returns a synthesized reply stored by Voice.
func (s *ChatService) Audio(id string) (session.Clip, error) {
	return s.audio.Get(id)
}

// Status describes the configured models.
func (s *ChatService) Status() model.ChatStatus {
	return s.status
}

func (s *ChatService) converse(ctx context.Context, sessionID, userText, lang string) (*model.ChatResponse, error) {
	id, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if err := s.sessions.Append(ctx, id, model.ChatTurn{Role: model.RoleUser, Content: userText}); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	history, err := s.sessions.History(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	reply, err := s.assistant.Reply(ctx, lang, history)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Append(ctx, id, model.ChatTurn{Role: model.RoleAssistant, Content: reply}); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}

	return &model.ChatResponse{
		Reply:     reply,
		SessionID: id,
		Language:  lang,
		MessageID: uuid.NewString(),
	}, nil
}
