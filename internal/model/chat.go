package model

// Chat roles stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one entry of a conversation history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatTextRequest is the request body for POST /api/chat/text.
type ChatTextRequest struct {
	Message   string  `json:"message"`
	Language  string  `json:"language"`
	SessionID *string `json:"session_id"`
}

// ChatResponse is shared by the text and voice chat endpoints.
type ChatResponse struct {
	Reply     string  `json:"reply"`
	AudioURL  *string `json:"audio_url"`
	SessionID string  `json:"session_id"`
	Language  string  `json:"language"`
	MessageID string  `json:"message_id"`
}

// ChatStatus describes the configured language-model backend.
type ChatStatus struct {
	OpenAIEnabled bool   `json:"openai_enabled"`
	ChatModel     string `json:"chat_model"`
	STTModel      string `json:"stt_model"`
	TTSModel      string `json:"tts_model"`
	TTSVoice      string `json:"tts_voice"`
}
