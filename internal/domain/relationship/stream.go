package relationship

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ripplehq/ripple-api/internal/middleware"
	"github.com/ripplehq/ripple-api/internal/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StreamWS handles GET /relationships/ws. It watches the viewer's
// relationship graph and pushes the recomputed buckets whenever a mutation
// involving the viewer lands, so list views re-render without polling.
func (h *Handler) StreamWS(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserID(r.Context())
	if viewer == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	view := NewView(viewer, h.friends, h.blocks, h.users, h.notifier)
	updates := view.Watch(r.Context())

	go h.streamReader(conn, viewer)
	h.streamWriter(conn, viewer, updates)
}

// streamReader drains client frames so pongs are processed and close frames
// detected; the stream is push-only.
func (h *Handler) streamReader(conn *websocket.Conn, viewer uuid.UUID) {
	defer conn.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("viewer", viewer.String()).Msg("Relationship stream read error")
			}
			return
		}
	}
}

func (h *Handler) streamWriter(conn *websocket.Conn, viewer uuid.UUID, updates <-chan Buckets) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case buckets, ok := <-updates:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(buckets); err != nil {
				log.Debug().Err(err).Str("viewer", viewer.String()).Msg("Relationship stream write error")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}
