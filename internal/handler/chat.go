package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/service"
)

// maxAudioSize matches the hosted transcription upload limit.
const maxAudioSize = 25 << 20

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// Text handles POST /api/chat/text
func (h *ChatHandler) Text(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.ChatTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}

	resp, err := h.chatService.Text(r.Context(), req.Message, req.Language, sessionID)
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("chat text failed", zap.String("session_id", sessionID), zap.Error(err))
		httputil.WriteInternalError(w, "Error processing chat message")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Voice handles POST /api/chat/voice
//
// Form fields:
//   - audio: required recording
//   - language: optional (default en)
//   - session_id: optional
func (h *ChatHandler) Voice(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, maxAudioSize) {
		return
	}

	upload, err := readFormFile(r, "audio", maxAudioSize)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if upload.ContentType != "" && !strings.HasPrefix(upload.ContentType, "audio/") {
		h.logger.Debug("unexpected audio content type", zap.String("content_type", upload.ContentType))
	}

	resp, err := h.chatService.Voice(r.Context(), service.VoiceRequest{
		Audio:     upload.Data,
		Filename:  upload.Filename,
		Language:  r.FormValue("language"),
		SessionID: strings.TrimSpace(r.FormValue("session_id")),
		BaseURL:   baseURL(r),
	})
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("chat voice failed", zap.Error(err))
		httputil.WriteInternalError(w, "Error processing voice message")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Status handles GET /api/chat/status
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.chatService.Status())
}

// Audio handles GET /api/chat/audio/{id}
// Streams a synthesized reply produced by Voice.
func (h *ChatHandler) Audio(w http.ResponseWriter, r *http.Request) {
	clip, err := h.chatService.Audio(chi.URLParam(r, "id"))
	if err != nil {
		if !httputil.WriteDomainError(w, err) {
			httputil.WriteInternalError(w, "Error loading audio")
		}
		return
	}

	w.Header().Set("Content-Type", clip.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(clip.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clip.Data)
}

// baseURL is the externally visible origin of r, honoring proxy headers.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}
