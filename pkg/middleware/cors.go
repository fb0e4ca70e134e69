package middleware

import (
	"net/http"

	"mining-chatbot/pkg/utils"

	"github.com/go-chi/cors"
)

func CORS(cfg utils.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Chat-Session"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           300,
	})
}
