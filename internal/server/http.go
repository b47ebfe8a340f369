package server

import (
	"log"
	"net/http"
	"runtime/debug"
)

// CreateHTTPHandler wraps the REST handler with CORS
func CreateHTTPHandler(restHandler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		restHandler.ServeHTTP(w, r)
	}
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC RECOVERED] %v\n%s", err, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		handler.ServeHTTP(w, r)
	}
}
