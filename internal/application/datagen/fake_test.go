package datagen

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel 按预设片段返回流，并记录收到的消息
type fakeChatModel struct {
	mu        sync.Mutex
	chunks    []string
	failAfter int // >0 时在发送该数量片段后返回 streamErr
	streamErr error
	openErr   error
	calls     int
	lastInput []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.mu.Lock()
	m.calls++
	m.lastInput = input
	m.mu.Unlock()

	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.streamErr == nil {
		msgs := make([]*schema.Message, 0, len(m.chunks))
		for _, c := range m.chunks {
			msgs = append(msgs, schema.AssistantMessage(c, nil))
		}
		return schema.StreamReaderFromArray(msgs), nil
	}

	sr, sw := schema.Pipe[*schema.Message](len(m.chunks) + 1)
	go func() {
		defer sw.Close()
		for i, c := range m.chunks {
			if m.failAfter > 0 && i == m.failAfter {
				break
			}
			sw.Send(schema.AssistantMessage(c, nil), nil)
		}
		sw.Send(nil, m.streamErr)
	}()
	return sr, nil
}

func (m *fakeChatModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fakeFactory struct {
	model *fakeChatModel
	err   error
	names []string
}

func (f *fakeFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

func newFakeGenerator(chunks ...string) (*Generator, *fakeChatModel) {
	m := &fakeChatModel{chunks: chunks}
	return NewGenerator(&fakeFactory{model: m}), m
}

type fakeClipboard struct {
	text   string
	writes int
	err    error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.writes++
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}
