package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes. ledger may be nil.
func SetupRoutes(hub *Hub, ledger *Ledger, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()
	started := time.Now()

	// WebSocket endpoint; ?enc=msgpack selects binary state frames
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("upgrade error", zap.String("ip", ip), zap.Error(err))
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip, r.URL.Query().Get("enc") == "msgpack")
		// Connect is queued before the read pump can queue anything else
		hub.game.Post(Connect{ID: client.id, Conn: client, IP: ip})
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"players": hub.game.PlayerCount(),
			"joined":  hub.game.JoinedCount(),
			"conns":   hub.TotalConns(),
			"clients": hub.ClientCount(),
			"uptime":  time.Since(started).Round(time.Second).String(),
		}
		if ledger != nil {
			counts, err := ledger.EventCounts()
			if err != nil {
				hub.log.Warn("event counts", zap.Error(err))
			} else {
				body["events"] = counts
			}
		}
		writeJSON(w, body)
	})

	mux.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			http.Error(w, "ledger disabled", http.StatusServiceUnavailable)
			return
		}
		limit := defaultLeaderboardSize
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxLeaderboardSize)
		}
		entries, err := ledger.Leaderboard(limit)
		if err != nil {
			hub.log.Error("leaderboard query", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	})

	mux.HandleFunc("/qr", qrHandler(publicURL, hub.log))

	return mux
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(v)
}
