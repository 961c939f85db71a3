package httpinterface

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// stream pushes every committed marketplace activity to the websocket client
// until it disconnects.
func (h *handler) stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	activities, stop := h.pubsubSvc.Listen()
	defer stop()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade event stream connection")
		return
	}
	defer conn.Close()

	// The client is not expected to send anything, reading is only needed to
	// process control messages and detect disconnections.
	done := make(chan struct{})
	go func() {
		defer close(done)
		//nolint
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(
					err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
				) {
					log.WithError(err).Debug("event stream closed unexpectedly")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case a, ok := <-activities:
			//nolint
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(newActivityResponse(a)); err != nil {
				log.WithError(err).Debug("failed to write to event stream")
				return
			}
		case <-ticker.C:
			//nolint
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
