package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/interfaces/http/dto"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
	"dummy-data-api/pkg/metrics"
)

// SessionHandler 页面会话
type SessionHandler struct {
	store        *datagen.SessionStore
	gen          datagen.Streamer
	previewLines int
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(store *datagen.SessionStore, gen datagen.Streamer, previewLines int) *SessionHandler {
	return &SessionHandler{
		store:        store,
		gen:          gen,
		previewLines: previewLines,
	}
}

// CreateSession 打开页面时创建会话
// @Summary 创建会话
// @Tags Sessions
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Router /v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.store.Create()
	logger.Info(logger.WithContext(c.Request.Context(), logger.SessionIDKey, sess.ID), "session created")
	dto.Created(c, dto.NewSessionResponse(sess.State(h.previewLines)))
}

// GetSession 返回会话快照
// @Summary 会话快照
// @Tags Sessions
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	dto.Success(c, dto.NewSessionResponse(sess.State(h.previewLines)))
}

// DeleteSession 离开页面时丢弃会话
// @Summary 丢弃会话
// @Tags Sessions
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("sid")) {
		dto.AppError(c, apperrors.ErrSessionNotFound)
		return
	}
	dto.NoContent(c)
}

// Generate 在会话中流式生成
// @Summary 会话内流式生成
// @Tags Sessions
// @Accept json
// @Produce text/event-stream
// @Param sid path string true "会话 ID"
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/generate [post]
func (h *SessionHandler) Generate(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	var body dto.GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	req, err := body.ToSubmitRequest()
	if err != nil {
		dto.AppError(c, err)
		return
	}

	// 空描述：会话记录校验提示，不发起调用
	if err := datagen.ValidatePrompt(req.Prompt); err != nil {
		_ = sess.Submit(c.Request.Context(), h.gen, req, nil)
		dto.AppError(c, err)
		return
	}

	streamChunks(c, func(ctx context.Context, onChunk func(string)) error {
		return sess.Submit(ctx, h.gen, req, onChunk)
	})
}

// Download 下载会话中的完整文本
// @Summary 下载生成结果
// @Tags Sessions
// @Param sid path string true "会话 ID"
// @Success 200 "file"
// @Success 204 "empty content"
// @Router /v1/sessions/{sid}/download [get]
func (h *SessionHandler) Download(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	art, ok := datagen.Download(sess.Content(), sess.Format())
	if !ok {
		dto.NoContent(c)
		return
	}
	metrics.ExportTotal.WithLabelValues(string(sess.Format()), "download").Inc()
	writeArtifact(c, art.FileName, art.MIMEType, art.Content)
}

// Clipboard 返回完整文本供浏览器写入剪贴板
// @Summary 剪贴板文本
// @Tags Sessions
// @Produce plain
// @Param sid path string true "会话 ID"
// @Success 200 {string} string
// @Success 204 "empty content"
// @Router /v1/sessions/{sid}/clipboard [get]
func (h *SessionHandler) Clipboard(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	content := sess.Content()
	if content == "" {
		dto.NoContent(c)
		return
	}
	metrics.ExportTotal.WithLabelValues(string(sess.Format()), "clipboard").Inc()
	c.Data(200, "text/plain; charset=utf-8", []byte(content))
}

func (h *SessionHandler) lookup(c *gin.Context) (*datagen.Session, bool) {
	sess, err := h.store.Get(c.Param("sid"))
	if err != nil {
		dto.AppError(c, err)
		return nil, false
	}
	return sess, true
}
