package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/interfaces/http/dto"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
)

// WSHandler WebSocket 生成通道
type WSHandler struct {
	gen      datagen.Streamer
	upgrader websocket.Upgrader
}

// NewWSHandler 创建 WebSocket 处理器
func NewWSHandler(gen datagen.Streamer) *WSHandler {
	return &WSHandler{
		gen: gen,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Generate 首个客户端帧为生成请求，服务端逐帧推送片段
// @Summary WebSocket 流式生成
// @Tags Datagen
// @Router /v1/generate/ws [get]
func (h *WSHandler) Generate(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var body dto.GenerateRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(dto.WSFrame{Type: "error", Message: apperrors.ErrInvalidParam.Message})
		return
	}
	in, err := body.ToGenerateInput()
	if err != nil {
		_ = conn.WriteJSON(errorFrame(err))
		return
	}

	// 客户端断开时取消生成
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	index, length := 0, 0
	var writeErr error
	err = h.gen.Generate(ctx, in, func(chunk string) {
		if writeErr != nil {
			return
		}
		writeErr = conn.WriteJSON(dto.WSFrame{Type: "content", Chunk: chunk, Index: index})
		if writeErr != nil {
			cancel()
			return
		}
		index++
		length += len(chunk)
	})
	if writeErr != nil {
		logger.Warn(ctx, "websocket write failed", "error", writeErr.Error())
		return
	}
	if err != nil {
		_ = conn.WriteJSON(errorFrame(err))
		return
	}

	_ = conn.WriteJSON(dto.WSFrame{Type: "done", Index: index, Length: length})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func errorFrame(err error) dto.WSFrame {
	appErr := apperrors.AsAppError(err)
	msg := appErr.Message
	if appErr.Code == apperrors.CodeInvalidParam && appErr.Detail != "" {
		msg = appErr.Detail
	}
	return dto.WSFrame{Type: "error", Message: msg}
}
