package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/webvibe/supportdesk/internal/connections"
	"github.com/webvibe/supportdesk/internal/infrastructure/question"
	"github.com/webvibe/supportdesk/internal/metrics"
)

const maxMessageSize = 16 * 1024

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// TODO: restrict origins once the UI host is configurable
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// ClientFrame is one question sent over the socket. ID is echoed back so the
// client can match answers, which may arrive in any order.
type ClientFrame struct {
	ID       string `json:"id,omitempty"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

type ServerFrame struct {
	ID       string            `json:"id"`
	Response question.Response `json:"response"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex
	timeouts connections.TimeoutConfig
}

func (c *conn) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.timeouts.WriteWait))
	return c.ws.WriteMessage(messageType, data)
}

func (c *conn) writeFrame(frame ServerFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, data)
}

// HandleChatSocket upgrades the request and relays every question frame
// concurrently. Closing the socket cancels questions still in flight.
func HandleChatSocket(asker question.Asker, manager *connections.Manager, m *metrics.Metrics, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	timeouts := manager.GetTimeouts()
	c := &conn{ws: ws, timeouts: timeouts}

	manager.AddConnection(ws)
	m.SocketOpened()

	ctx, cancel := context.WithCancel(context.Background())
	var inflight sync.WaitGroup

	defer func() {
		cancel()
		inflight.Wait()
		manager.RemoveConnection(ws)
		m.SocketClosed()
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	go keepAlive(ctx, c)

	log.Info().Int("connections", manager.GetConnectionCount()).Msg("Chat socket opened")

	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected websocket closure")
			} else {
				log.Debug().Err(err).Msg("Chat socket closed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = c.writeFrame(ServerFrame{
				Response: question.Response{Success: false, Error: "Invalid message format"},
			})
			continue
		}
		if frame.ID == "" {
			frame.ID = uuid.New().String()
		}
		req := question.Request{Message: frame.Message, Category: frame.Category}
		if err := req.Validate(); err != nil {
			_ = c.writeFrame(ServerFrame{
				ID:       frame.ID,
				Response: question.Response{Success: false, Error: "Message and category are required"},
			})
			continue
		}

		inflight.Add(1)
		go func(id string, req question.Request) {
			defer inflight.Done()
			resp := asker.AskQuestion(ctx, req)
			if err := c.writeFrame(ServerFrame{ID: id, Response: resp}); err != nil {
				log.Debug().Err(err).Str("frame_id", id).Msg("Dropping answer for closed socket")
			}
		}(frame.ID, req)
	}
}

func keepAlive(ctx context.Context, c *conn) {
	ticker := time.NewTicker(c.timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.timeouts.WriteWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
