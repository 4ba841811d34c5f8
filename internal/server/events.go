package server

import (
	"net/http"
	"time"

	"github.com/emrgen/modelhub/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	eventBuffer = 64
	writeWait   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamEvents pushes library notifications to a websocket client until it
// disconnects. ?library= narrows the stream to one partition.
func (g *gateway) streamEvents(c *gin.Context) {
	var library model.LibraryType
	if l := c.Query("library"); l != "" {
		parsed, err := model.ParseLibraryType(l)
		if err != nil {
			abort(c, err)
			return
		}
		library = parsed
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := g.events.Subscribe(eventBuffer)
	defer unsubscribe()

	// the client never sends anything, reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if library != "" && n.Library != library {
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(n); err != nil {
				logrus.Debugf("websocket write failed: %v", err)
				return
			}
		}
	}
}
