// apimock is a small local target for trying the engine by hand:
// nested JSON, an error body, and a slow endpoint.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

func main() {
	mux := http.NewServeMux()

	mux.HandleFunc("/posts/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":     "5",
				"title":  "hello",
				"active": true,
				"tags":   []string{"a", "b"},
				"owner":  map[string]any{"name": "qa", "email": "qa@example.com"},
			},
			"count": 2,
		})
	})

	mux.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		var body any
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method": r.Method,
			"body":   body,
		})
	})

	addr := ":8081"
	log.Printf("apimock listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
