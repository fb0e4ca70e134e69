package adaptor

import (
	"net/http"
	"strings"
	"time"

	"mining-chatbot/internal/dto/request"
	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/middleware"
	"mining-chatbot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chat       usecase.ChatService
	chatbot    usecase.ChatbotService
	sessionTTL time.Duration
	log        *zap.Logger
}

func NewChatHandler(chat usecase.ChatService, chatbot usecase.ChatbotService, sessionTTL time.Duration, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:       chat,
		chatbot:    chatbot,
		sessionTTL: sessionTTL,
		log:        log.With(zap.String("handler", "chat")),
	}
}

// Chatbot handles POST /chatbot. The asker's email is required here.
func (h *ChatHandler) Chatbot(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, true)
}

// Ask handles POST /ask
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, false)
}

func (h *ChatHandler) ask(w http.ResponseWriter, r *http.Request, requireEmail bool) {
	var req request.AskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Normalize()
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Question is required (max 500 characters)", validationErrors)
		return
	}

	response, err := h.chat.Ask(r.Context(), &req, requireEmail)
	if err != nil {
		handleServiceError(h.log, w, err, "ask")
		return
	}

	utils.ResponseSuccess(w, "success", response)
}

// ListHistory handles GET /chat-history?email=&page=&per_page=
func (h *ChatHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ChatHistoryQuery{
		Email: strings.TrimSpace(query.Get("email")),
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
	}

	if req.Email == "" {
		utils.ResponseBadRequest(w, "Email is required", nil)
		return
	}

	response, err := h.chat.ListHistory(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list chat history")
		return
	}

	utils.ResponseSuccess(w, "success", response)
}

// GetHistory handles GET /chat-history/{id}
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	response, err := h.chat.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get chat history")
		return
	}

	utils.ResponseSuccess(w, "success", response)
}

// DeleteHistory handles DELETE /chat-history/{id}
func (h *ChatHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.DeleteHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete chat history")
		return
	}

	utils.ResponseSuccess(w, "Chat history deleted", nil)
}

// StartChatbot handles POST /chatbot/start
func (h *ChatHandler) StartChatbot(w http.ResponseWriter, r *http.Request) {
	response, err := h.chatbot.Start(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "start chatbot")
		return
	}

	middleware.SetChatSessionCookie(w, response.SessionID, int(h.sessionTTL.Seconds()))
	utils.ResponseSuccess(w, "success", response)
}

// RespondChatbot handles POST /chatbot/respond. The session id comes from
// the body, falling back to the cookie or header.
func (h *ChatHandler) RespondChatbot(w http.ResponseWriter, r *http.Request) {
	var req request.ChatbotRespondRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.SessionID == "" {
		req.SessionID, _ = utils.GetChatSessionFromContext(r.Context())
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Input is required", validationErrors)
		return
	}

	response, err := h.chatbot.Respond(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "chatbot respond")
		return
	}

	middleware.SetChatSessionCookie(w, response.SessionID, int(h.sessionTTL.Seconds()))
	utils.ResponseSuccess(w, "success", response)
}
