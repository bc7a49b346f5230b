package realtime

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"hospital-admin-go/internal/realtime"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/pkg/logger"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handlers upgrade authenticated requests to a websocket that streams change
// events for one table.
type Handlers struct {
	hub          *realtime.Hub
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	log          logger.Logger
}

func New(hub *realtime.Hub, origins []string, writeTimeout time.Duration, log logger.Logger) *Handlers {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Handlers{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
		writeTimeout: writeTimeout,
		log:          log,
	}
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !realtime.IsKnownTable(table) {
		commonhandler.WriteError(w, http.StatusNotFound, "unknown_table", "unknown realtime table")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the response.
		h.log.BusinessError("realtime.subscribe: upgrade", err, "table", table)
		return
	}
	defer conn.Close()

	sub, err := h.hub.Subscribe(table)
	if err != nil {
		h.log.InternalError("realtime.subscribe: subscribe", err, "table", table)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscribe failed"),
			time.Now().Add(h.writeTimeout))
		return
	}
	defer sub.Close()

	h.log.Debug("realtime: subscriber connected", "table", table)
	closed := readPump(conn)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			h.log.Debug("realtime: subscriber disconnected", "table", table)
			return
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				// Dropped by the hub as a slow consumer or on shutdown.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription closed"),
					time.Now().Add(h.writeTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.log.BusinessError("realtime: write event", err, "table", table)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames so control messages are processed. The
// returned channel closes when the peer goes away.
func readPump(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return closed
}

func checkOrigin(origins []string) func(*http.Request) bool {
	allowAll := len(origins) == 0
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
