package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/domain/entity"
	"dummy-data-api/pkg/logger"
)

// PageHandler 单页界面
type PageHandler struct {
	tpl          *template.Template
	previewLines int
}

// NewPageHandler 创建页面处理器
func NewPageHandler(tpl *template.Template, previewLines int) *PageHandler {
	return &PageHandler{tpl: tpl, previewLines: previewLines}
}

type pageView struct {
	Formats        []entity.OutputFormat
	DefaultFormat  entity.OutputFormat
	DateFormats    []entity.DateFormat
	DecimalChoices []entity.DecimalPlaces
	Defaults       entity.GenerationOptions
	Examples       []datagen.Example
	PreviewLines   int
}

// Index 渲染首页
func (h *PageHandler) Index(c *gin.Context) {
	view := pageView{
		Formats:        entity.Formats,
		DefaultFormat:  entity.FormatJSON,
		DateFormats:    entity.DateFormats,
		DecimalChoices: entity.DecimalChoices,
		Defaults:       entity.DefaultGenerationOptions(),
		Examples:       datagen.Examples(),
		PreviewLines:   h.previewLines,
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tpl.ExecuteTemplate(c.Writer, "index", view); err != nil {
		logger.Error(c.Request.Context(), "render index failed", err)
	}
}
