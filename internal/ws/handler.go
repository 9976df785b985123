package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/types"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// Metrics receives connection and message counts
type Metrics interface {
	IncWSConnections()
	DecWSConnections()
	RecordWSMessage(direction, msgType string)
}

type nopMetrics struct{}

func (nopMetrics) IncWSConnections()              {}
func (nopMetrics) DecWSConnections()              {}
func (nopMetrics) RecordWSMessage(string, string) {}

// Handler manages WebSocket connections
type Handler struct {
	manager  *workspace.Manager
	metrics  Metrics
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler. metrics may be nil.
func NewHandler(manager *workspace.Manager, metrics Metrics, logger *zap.Logger) *Handler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		manager: manager,
		metrics: metrics,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS middleware governs origins
			},
		},
	}
}

// client is one open connection
type client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (cl *client) close() {
	cl.closeOnce.Do(func() {
		close(cl.done)
	})
}

// HandleConnection upgrades the request and serves the workspace stream
func (h *Handler) HandleConnection(c *gin.Context) {
	wsID := c.Param("ws")
	w, err := h.manager.Open(c.Request.Context(), wsID)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error(), Code: types.CodeInvalidRequest})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("workspace", wsID), zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	logger := h.logger.With(zap.String("workspace", wsID), zap.String("client_id", cl.id))

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	logger.Info("WebSocket client connected")

	// Register before the welcome so no event between the two is lost.
	unsubscribe := w.Subscribe(func(e workspace.Event) {
		h.enqueue(cl, logger, eventMessage(e))
	})

	h.enqueue(cl, logger, types.WSMessage{
		Type:      types.WSWelcome,
		Workspace: wsID,
		ClientID:  cl.id,
		Data:      w.View(),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writePump(cl, logger)
	}()

	h.readPump(context.WithoutCancel(c.Request.Context()), w, cl, logger)

	unsubscribe()
	cl.close()
	wg.Wait()
	_ = conn.Close()
	logger.Info("WebSocket client disconnected")
}

func (h *Handler) readPump(ctx context.Context, w *workspace.Workspace, cl *client, logger *zap.Logger) {
	cl.conn.SetReadLimit(utils.MaxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.enqueue(cl, logger, errorMessage(types.CodeInvalidRequest, "invalid message"))
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		if reply, ok := h.dispatch(ctx, w, msg); ok {
			h.enqueue(cl, logger, reply)
		}
	}
}

// dispatch applies one client message. It returns a direct reply when there is one;
// state changes reach the client through workspace events.
func (h *Handler) dispatch(ctx context.Context, w *workspace.Workspace, msg types.WSMessage) (types.WSMessage, bool) {
	switch msg.Type {
	case types.WSNavigate:
		if err := utils.ValidateRoute(msg.Route, true); err != nil {
			return errorMessage(types.CodeInvalidRequest, err.Error()), true
		}
		w.Navigate(ctx, msg.Route)

	case types.WSActivate:
		if !w.ActivateTab(ctx, msg.TabID) {
			return errorMessage(types.CodeNotFound, tabs.ErrTabNotFound.Error()), true
		}

	case types.WSClose:
		if _, err := w.CloseTab(ctx, msg.TabID); err != nil {
			code := types.CodeInternal
			if errors.Is(err, tabs.ErrNotClosable) {
				code = types.CodeNotClosable
			}
			return errorMessage(code, err.Error()), true
		}

	case types.WSToggleGroup:
		if err := utils.ValidateGroupKey(msg.Group); err != nil {
			return errorMessage(types.CodeInvalidRequest, err.Error()), true
		}
		w.ToggleGroup(msg.Group)

	case types.WSPing:
		return types.WSMessage{Type: types.WSPong, Timestamp: time.Now().Unix()}, true

	default:
		return errorMessage(types.CodeInvalidRequest, "unknown message type"), true
	}
	return types.WSMessage{}, false
}

func (h *Handler) writePump(cl *client, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("WebSocket write failed", zap.Error(err))
				cl.close()
				_ = cl.conn.Close()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.close()
				_ = cl.conn.Close()
				return
			}
		case <-cl.done:
			_ = cl.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// enqueue hands msg to the writer. A full buffer drops the message.
func (h *Handler) enqueue(cl *client, logger *zap.Logger, msg types.WSMessage) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		logger.Error("Failed to encode WebSocket message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	select {
	case <-cl.done:
		return
	default:
	}

	select {
	case cl.send <- data:
		h.metrics.RecordWSMessage("out", msg.Type)
	default:
		logger.Warn("WebSocket send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

func eventMessage(e workspace.Event) types.WSMessage {
	msg := types.WSMessage{
		Type:      string(e.Type),
		Workspace: e.Workspace,
		Timestamp: time.Now().Unix(),
	}
	switch e.Type {
	case workspace.EventTabs:
		msg.Data = e.Tabs
	case workspace.EventNavigation:
		msg.Data = e.Navigation
	case workspace.EventNotification:
		if e.Notification != nil {
			msg.Message = e.Notification.Message
			msg.Code = types.CodeCapacityExceeded
			msg.Route = e.Notification.Route
		}
		msg.Data = e.Notification
	}
	return msg
}

func errorMessage(code, message string) types.WSMessage {
	return types.WSMessage{
		Type:      types.WSError,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}
}
