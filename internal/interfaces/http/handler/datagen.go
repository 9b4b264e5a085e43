package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/domain/entity"
	"dummy-data-api/internal/interfaces/http/dto"
	apperrors "dummy-data-api/pkg/errors"
	"dummy-data-api/pkg/logger"
	"dummy-data-api/pkg/metrics"
)

// DatagenHandler 无状态生成与导出
type DatagenHandler struct {
	gen          datagen.Streamer
	previewLines int
}

// NewDatagenHandler 创建生成处理器
func NewDatagenHandler(gen datagen.Streamer, previewLines int) *DatagenHandler {
	return &DatagenHandler{
		gen:          gen,
		previewLines: previewLines,
	}
}

// Options 返回表单可选项
// @Summary 表单可选项
// @Tags Datagen
// @Produce json
// @Success 200 {object} dto.Response[dto.OptionsResponse]
// @Router /v1/options [get]
func (h *DatagenHandler) Options(c *gin.Context) {
	dto.Success(c, dto.NewOptionsResponse(h.previewLines))
}

// Examples 返回快捷示例
// @Summary 快捷示例
// @Tags Datagen
// @Produce json
// @Router /v1/examples [get]
func (h *DatagenHandler) Examples(c *gin.Context) {
	dto.Success(c, datagen.Examples())
}

// Generate 流式生成假数据
// @Summary 流式生成假数据
// @Description 通过 SSE 推送 content/done/error 事件
// @Tags Datagen
// @Accept json
// @Produce text/event-stream
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/generate [post]
func (h *DatagenHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}
	in, err := req.ToGenerateInput()
	if err != nil {
		dto.AppError(c, err)
		return
	}
	if err := datagen.ValidatePrompt(in.Prompt); err != nil {
		dto.AppError(c, err)
		return
	}

	streamChunks(c, func(ctx context.Context, onChunk func(string)) error {
		return h.gen.Generate(ctx, in, onChunk)
	})
}

// Export 将文本打包为下载文件
// @Summary 导出文件
// @Tags Datagen
// @Accept json
// @Produce octet-stream
// @Param body body dto.ExportRequest true "导出请求"
// @Success 200 "file"
// @Success 204 "empty content"
// @Router /v1/export [post]
func (h *DatagenHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	format := entity.FormatJSON
	if req.Format != "" {
		f, ok := entity.ParseFormat(req.Format)
		if !ok {
			dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("unsupported format: "+req.Format))
			return
		}
		format = f
	}

	art, ok := datagen.Download(req.Content, format)
	if !ok {
		dto.NoContent(c)
		return
	}

	metrics.ExportTotal.WithLabelValues(string(format), "download").Inc()
	logger.Debug(c.Request.Context(), "export file", "file", art.FileName, "bytes", len(art.Content))
	writeArtifact(c, art.FileName, art.MIMEType, art.Content)
}
