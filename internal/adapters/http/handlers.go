package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"chatrelay/internal/adapters"
	"chatrelay/internal/config"
	"chatrelay/internal/core"
	"chatrelay/internal/directory"
	"chatrelay/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatController wires the websocket route and the room directory
// endpoints to the relay core.
type ChatController struct {
	Cfg        *config.Config
	Registry   *core.Registry
	Dispatcher *core.Dispatcher
	Directory  directory.Directory
}

type newRoomRequest struct {
	User1 string `json:"user1" binding:"required"`
	User2 string `json:"user2" binding:"required"`
}

// HandleNewRoom creates a room record for two participants.
func (ctl *ChatController) HandleNewRoom(c *gin.Context) {
	var req newRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := ctl.Directory.Create(c.Request.Context(), req.User1, req.User2)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room_id": string(room.ID)})
}

// HandleListRooms lists rooms with at least one live connection.
func (ctl *ChatController) HandleListRooms(c *gin.Context) {
	out := lo.Map(ctl.Registry.Rooms(), func(ri core.RoomInfo, _ int) gin.H {
		return gin.H{"room_id": string(ri.ID), "client_count": ri.MemberCount}
	})
	c.JSON(http.StatusOK, out)
}

// HandleWS upgrades the connection and walks it through the session
// lifecycle. A refusal closes the socket before any registry change.
func (ctl *ChatController) HandleWS(ctx context.Context, c *gin.Context) {
	roomID := domain.RoomID(c.Param("room"))
	identity := c.Param("user")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Str("module", "adapters.http").Err(err).Msg("ws upgrade failed")
		return
	}

	token := core.Token(uuid.NewString())
	conn := adapters.NewWSConnection(ws)
	sess := core.NewSession(ctl.Registry, ctl.Dispatcher, ctl.Directory, token, conn)

	if err := sess.Connect(c.Request.Context(), roomID, identity); err != nil {
		log.Warn().Str("module", "adapters.http").Str("room", string(roomID)).Str("user", identity).Err(err).Msg("connection refused")
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "refused"),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	conn.StartWriteLoop(ctx, ctl.Cfg.PingPeriod)
	conn.StartReadLoop(ctx, sess, ctl.Cfg.ReadLimit)
}
