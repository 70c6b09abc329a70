package feed

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Server upgrades authorized requests to feed connections.
type Server struct {
	hub      *Hub
	token    string
	upgrader websocket.Upgrader
}

// NewServer creates a feed server. An empty token disables the feed.
func NewServer(hub *Hub, token string) *Server {
	return &Server{
		hub:   hub,
		token: token,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// non-browser clients
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host
			},
		},
	}
}

// ServeHTTP authorizes the request and upgrades it to a feed connection.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.token == "" {
		http.Error(w, "feed disabled (no FEED_TOKEN set)", http.StatusForbidden)
		return
	}
	if !s.isAuthorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("feed upgrade", "error", err.Error())
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
	if !s.hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) isAuthorized(r *http.Request) bool {
	provided := r.URL.Query().Get("token")
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		provided = strings.TrimPrefix(auth, "Bearer ")
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.token)) == 1
}
