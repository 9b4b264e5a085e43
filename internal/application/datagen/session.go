package datagen

import (
	"context"
	"strings"
	"sync"
	"time"

	"dummy-data-api/internal/domain/entity"
	apperrors "dummy-data-api/pkg/errors"
)

// SubmitRequest 一次提交的表单内容
type SubmitRequest struct {
	Prompt   string
	Format   entity.OutputFormat
	Options  entity.GenerationOptions
	Provider string
}

// Session 单个用户页面对应的生成状态
//
// 同一会话上的两次提交不会互斥：锁只保证内存安全，
// 并发提交时累积器的重置与追加可能交错。
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.RWMutex
	prompt     string
	format     entity.OutputFormat
	options    entity.GenerationOptions
	loading    bool
	errMsg     string
	lastActive time.Time

	acc Accumulator
}

// NewSession 创建空会话
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		format:     entity.FormatJSON,
		options:    entity.DefaultGenerationOptions(),
		lastActive: now,
	}
}

// Submit 校验并发起一次生成，片段依次写入累积器后再转交 onChunk
func (s *Session) Submit(ctx context.Context, gen Streamer, req *SubmitRequest, onChunk func(chunk string)) error {
	if req == nil {
		req = &SubmitRequest{}
	}

	s.mu.Lock()
	s.prompt = req.Prompt
	if req.Format != "" {
		s.format = req.Format
	}
	s.options = req.Options.Normalize()
	s.lastActive = time.Now()
	if strings.TrimSpace(req.Prompt) == "" {
		s.errMsg = apperrors.ErrEmptyPrompt.Message
		s.mu.Unlock()
		return apperrors.ErrEmptyPrompt
	}
	s.loading = true
	s.errMsg = ""
	in := &GenerateInput{
		Prompt:   s.prompt,
		Format:   s.format,
		Options:  s.options,
		Provider: req.Provider,
	}
	s.mu.Unlock()

	s.acc.Reset()

	err := gen.Generate(ctx, in, func(chunk string) {
		s.acc.Append(chunk)
		s.touch()
		if onChunk != nil {
			onChunk(chunk)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastActive = time.Now()
	if err != nil {
		s.errMsg = userMessage(err)
		return err
	}
	return nil
}

// userMessage 面向用户的错误文案，不暴露上游细节
func userMessage(err error) string {
	if appErr := apperrors.AsAppError(err); appErr != nil && appErr.Code == apperrors.CodeEmptyPrompt {
		return appErr.Message
	}
	return apperrors.ErrGenerationFailed.Message
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// Content 返回完整的生成文本
func (s *Session) Content() string {
	return s.acc.String()
}

// Format 当前选择的输出格式
func (s *Session) Format() entity.OutputFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.format
}

// Loading 是否有生成正在进行
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastActive 最近一次活动时间
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// SessionState 会话快照
type SessionState struct {
	ID          string                   `json:"id"`
	Prompt      string                   `json:"prompt"`
	Format      entity.OutputFormat      `json:"format"`
	Options     entity.GenerationOptions `json:"options"`
	Preview     Preview                  `json:"preview"`
	Length      int                      `json:"length"`
	Loading     bool                     `json:"loading"`
	Error       string                   `json:"error,omitempty"`
	CanCopy     bool                     `json:"can_copy"`
	CanDownload bool                     `json:"can_download"`
}

// State 返回会话快照，预览最多 previewLines 行
func (s *Session) State(previewLines int) SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := s.acc.String()
	ready := text != "" && !s.loading
	return SessionState{
		ID:          s.ID,
		Prompt:      s.prompt,
		Format:      s.format,
		Options:     s.options,
		Preview:     PreviewText(text, previewLines),
		Length:      len(text),
		Loading:     s.loading,
		Error:       s.errMsg,
		CanCopy:     ready,
		CanDownload: ready,
	}
}
