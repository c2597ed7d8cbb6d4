package main

import (
	"encoding/json"
	"log"
	"net/http"

	"headball/config"
	"headball/match"
	"headball/network"
	"headball/replay"
	"headball/session"
)

func main() {
	config.Init()
	addr := config.GetDefault("HEADBALL_ADDR", ":8080")

	store, err := replay.NewStore(replay.NewMemorySource())
	if err != nil {
		log.Fatalf("replay store: %v", err)
	}
	mgr := session.NewManager(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", network.Handler(mgr))
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, mgr.List())
		case http.MethodPost:
			var cfg match.Config
			if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			code, err := mgr.Create(cfg)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, map[string]string{"code": code})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/levels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, match.Levels())
	})
	mux.HandleFunc("/replays", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, store.All())
	})

	log.Printf("listening on %s (ws endpoint: /ws)", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
