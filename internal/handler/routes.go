package handler

import (
	"net/http"

	"github.com/daybookhq/daybook/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, diaries *service.DiaryService, limiter *service.LoginLimiter) {
	authHandler := NewAuthHandler(auth, limiter)
	diaryHandler := NewDiaryHandler(diaries)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.Handle("POST /diaries", protected(diaryHandler.HandleCreate))
	mux.Handle("GET /diaries", protected(diaryHandler.HandleList))
	mux.Handle("GET /diaries/search", protected(diaryHandler.HandleSearch))
	mux.Handle("GET /diaries/export", protected(diaryHandler.HandleExport))
	mux.Handle("GET /diaries/{id}", protected(diaryHandler.HandleGet))
	mux.Handle("PUT /diaries/{id}", protected(diaryHandler.HandleUpdate))
	mux.Handle("DELETE /diaries/{id}", protected(diaryHandler.HandleDelete))
}
