package dto

import (
	"fmt"
	"strings"

	"dummy-data-api/internal/application/datagen"
	"dummy-data-api/internal/domain/entity"
	apperrors "dummy-data-api/pkg/errors"
)

// GenerateRequest 生成请求
type GenerateRequest struct {
	Prompt        string `json:"prompt"`
	Format        string `json:"format,omitempty"`
	DateFormat    string `json:"date_format,omitempty"`
	DecimalPlaces string `json:"decimal_places,omitempty"`
	Provider      string `json:"provider,omitempty"`
}

// ToSubmitRequest 校验格式与选项；提示词是否为空交由生成流程判断
func (r *GenerateRequest) ToSubmitRequest() (*datagen.SubmitRequest, error) {
	format := entity.FormatJSON
	if strings.TrimSpace(r.Format) != "" {
		f, ok := entity.ParseFormat(r.Format)
		if !ok {
			return nil, apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unsupported format: %s", r.Format))
		}
		format = f
	}

	opts := entity.GenerationOptions{
		DateFormat:    entity.DateFormat(strings.TrimSpace(r.DateFormat)),
		DecimalPlaces: entity.DecimalPlaces(strings.TrimSpace(r.DecimalPlaces)),
	}.Normalize()
	if !opts.DecimalPlaces.IsSelectable() {
		return nil, apperrors.ErrInvalidParam.WithDetail(
			fmt.Sprintf("decimal_places must be %q or 0-%d", entity.DecimalDefault, entity.MaxDecimalPlaces))
	}
	if len(r.Provider) > 32 {
		return nil, apperrors.ErrInvalidParam.WithDetail("provider too long")
	}

	return &datagen.SubmitRequest{
		Prompt:   r.Prompt,
		Format:   format,
		Options:  opts,
		Provider: strings.TrimSpace(r.Provider),
	}, nil
}

// ToGenerateInput 转换为无状态生成输入
func (r *GenerateRequest) ToGenerateInput() (*datagen.GenerateInput, error) {
	req, err := r.ToSubmitRequest()
	if err != nil {
		return nil, err
	}
	return &datagen.GenerateInput{
		Prompt:   req.Prompt,
		Format:   req.Format,
		Options:  req.Options,
		Provider: req.Provider,
	}, nil
}

// ExportRequest 导出请求
type ExportRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

// FormatOption 格式选项
type FormatOption struct {
	Name      entity.OutputFormat `json:"name"`
	Extension string              `json:"extension"`
	MIMEType  string              `json:"mime_type"`
}

// OptionsResponse 表单可选项
type OptionsResponse struct {
	Formats       []FormatOption           `json:"formats"`
	DateFormats   []entity.DateFormat      `json:"date_formats"`
	DecimalPlaces []entity.DecimalPlaces   `json:"decimal_places"`
	Defaults      entity.GenerationOptions `json:"defaults"`
	DefaultFormat entity.OutputFormat      `json:"default_format"`
	PreviewLines  int                      `json:"preview_lines"`
}

// NewOptionsResponse 构建表单可选项
func NewOptionsResponse(previewLines int) *OptionsResponse {
	formats := make([]FormatOption, 0, len(entity.Formats))
	for _, f := range entity.Formats {
		formats = append(formats, FormatOption{
			Name:      f,
			Extension: f.Extension(),
			MIMEType:  f.MIMEType(),
		})
	}
	return &OptionsResponse{
		Formats:       formats,
		DateFormats:   entity.DateFormats,
		DecimalPlaces: entity.DecimalChoices,
		Defaults:      entity.DefaultGenerationOptions(),
		DefaultFormat: entity.FormatJSON,
		PreviewLines:  previewLines,
	}
}

// SessionResponse 会话快照
type SessionResponse struct {
	datagen.SessionState
	PreviewNote string `json:"preview_note,omitempty"`
}

// NewSessionResponse 由会话快照构建响应
func NewSessionResponse(st datagen.SessionState) *SessionResponse {
	return &SessionResponse{
		SessionState: st,
		PreviewNote:  st.Preview.Note(),
	}
}

// WSFrame WebSocket 服务端帧
type WSFrame struct {
	Type    string `json:"type"` // content/done/error
	Chunk   string `json:"chunk,omitempty"`
	Index   int    `json:"index"`
	Length  int    `json:"length,omitempty"`
	Message string `json:"message,omitempty"`
}
