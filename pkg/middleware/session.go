package middleware

import (
	"net/http"
	"strings"

	"mining-chatbot/pkg/utils"
)

const (
	ChatSessionCookie = "chat_session"
	ChatSessionHeader = "X-Chat-Session"
)

// ChatSession copies the guided-chat session id from the cookie, or from
// the X-Chat-Session header for clients without cookies, into the context.
// It never creates sessions; that is the chatbot service's job.
func ChatSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(ChatSessionHeader))
			if cookie, err := r.Cookie(ChatSessionCookie); err == nil && cookie.Value != "" {
				id = cookie.Value
			}

			if id != "" {
				r = r.WithContext(utils.SetChatSessionContext(r.Context(), id))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SetChatSessionCookie hands the session id back to the browser.
func SetChatSessionCookie(w http.ResponseWriter, id string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     ChatSessionCookie,
		Value:    id,
		Path:     "/chatbot",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
