package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	apperrors "dummy-data-api/pkg/errors"
)

// generateFunc 执行一次生成，按顺序回调片段
type generateFunc func(ctx context.Context, onChunk func(chunk string)) error

func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}

// streamChunks 通过 SSE 推送生成结果：若干 content 事件后恰好一个 done 或 error 事件
func streamChunks(c *gin.Context, run generateFunc) {
	ctx := c.Request.Context()
	setSSEHeaders(c)

	contentCh := make(chan string, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(contentCh)
		errCh <- run(ctx, func(chunk string) {
			select {
			case contentCh <- chunk:
			case <-ctx.Done():
			}
		})
	}()

	index, length := 0, 0
	c.Stream(func(w io.Writer) bool {
		select {
		case chunk, ok := <-contentCh:
			if !ok {
				// contentCh 关闭前 errCh 已写入
				if err := <-errCh; err != nil {
					c.SSEvent("error", gin.H{"message": apperrors.AsAppError(err).Message})
				} else {
					c.SSEvent("done", gin.H{"length": length})
				}
				return false
			}
			c.SSEvent("content", gin.H{"chunk": chunk, "index": index})
			index++
			length += len(chunk)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

func writeArtifact(c *gin.Context, fileName, mimeType string, content []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(200, mimeType, content)
}
