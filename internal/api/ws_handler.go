package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"resumeKit/internal/auth"
	"resumeKit/internal/worker"
)

type notifySubscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// WsHandler forwards export notifications of one user to a WebSocket. The first client
// message must be {"type":"auth","token":"<access token>"}.
type WsHandler struct {
	redisClient    notifySubscriber
	authService    *auth.AuthService
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler builds the handler. Without allowedOrigins only same-host origins pass.
func NewWsHandler(redisClient notifySubscriber, authService *auth.AuthService, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		redisClient:    redisClient,
		authService:    authService,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

const wsAuthTimeout = 10 * time.Second

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// HandleConnection upgrades the request, waits for authentication and then relays
// notifications until either side goes away.
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		requestLogger(c, h.logger).Warn("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	baseLog := requestLogger(c, h.logger).With(
		slog.String("client_ip", c.ClientIP()),
	)

	userIDCh := make(chan uint, 1)
	errCh := make(chan error, 1)

	go h.readLoop(ctx, conn, userIDCh, errCh, cancel, baseLog)

	var userID uint
	select {
	case <-ctx.Done():
		return
	case err := <-errCh:
		if err != nil {
			baseLog.Warn("websocket authentication failed", slog.Any("error", err))
		}
		return
	case userID = <-userIDCh:
	}

	userLog := baseLog.With(slog.Uint64("user_id", uint64(userID)))
	go h.subscribeLoop(ctx, conn, userID, errCh, cancel, userLog)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			userLog.Info("websocket connection closed", slog.Any("error", err))
		} else {
			userLog.Info("websocket connection closed")
		}
	}
}

// authenticate checks the first client message and returns the caller, or the close reason
// sent back to the client.
func (h *WsHandler) authenticate(message []byte) (uint, string, error) {
	var msg wsAuthMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return 0, "invalid auth payload", fmt.Errorf("decode auth payload: %w", err)
	}
	if msg.Type != "auth" || msg.Token == "" {
		return 0, "auth required", errors.New("first message is not an auth message")
	}
	claims, err := h.authService.ValidateToken(msg.Token)
	switch {
	case err != nil:
		return 0, "unauthorized", fmt.Errorf("validate token: %w", err)
	case claims.TokenType != auth.TokenTypeAccess:
		return 0, "access token required", fmt.Errorf("token type %q", claims.TokenType)
	case claims.MustChangePassword:
		return 0, "password change required", errors.New("password change required")
	}
	return claims.UserID, "", nil
}

// readLoop authenticates the connection, then keeps reading so that a disconnect is noticed.
func (h *WsHandler) readLoop(ctx context.Context, conn *websocket.Conn, userIDCh chan<- uint, errCh chan<- error, cancel context.CancelFunc, log *slog.Logger) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))

	_, first, err := conn.ReadMessage()
	if err != nil {
		report(errCh, fmt.Errorf("read auth message: %w", err))
		return
	}
	userID, reason, err := h.authenticate(first)
	if err != nil {
		writeClose(conn, websocket.ClosePolicyViolation, reason)
		report(errCh, err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})
	userIDCh <- userID
	log.Info("websocket authenticated", slog.Uint64("user_id", uint64(userID)))

	for ctx.Err() == nil {
		if _, _, err := conn.ReadMessage(); err != nil {
			report(errCh, fmt.Errorf("read message: %w", err))
			return
		}
	}
}

// report hands err to the connection owner without blocking when it already has one.
func report(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) subscribeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	userID uint,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	channel := worker.NotifyChannel(userID)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Info("subscribed to redis channel", slog.String("channel", channel))

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				report(errCh, fmt.Errorf("pubsub channel closed"))
				cancel()
				return
			}

			log.Debug("forwarding notification", slog.String("channel", channel))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				report(errCh, fmt.Errorf("write message: %w", err))
				cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				report(errCh, fmt.Errorf("write ping: %w", err))
				cancel()
				return
			}
		}
	}
}
