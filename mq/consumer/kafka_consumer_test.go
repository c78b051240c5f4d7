package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader 依次返回 queue 中的消息，取完后阻塞到 ctx 取消。
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErrs []error
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type recordingHandler struct {
	mu      sync.Mutex
	offsets []int64
	failOn  int64
}

func (h *recordingHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.offsets = append(h.offsets, msg.Offset)
	if msg.Offset == h.failOn {
		return errors.New("dead letter unavailable")
	}
	return nil
}

func TestConsumerCommitsAfterHandling(t *testing.T) {
	reader := &fakeReader{
		queue:     []kafka.Message{{Topic: "t", Offset: 1}, {Topic: "t", Offset: 2}, {Topic: "t", Offset: 3}},
		fetchErrs: []error{errors.New("broker not available")},
	}
	handler := &recordingHandler{failOn: 2}
	c := newConsumer(reader, "t", handler, zap.NewNop())
	c.fetchBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(reader.commits()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	// 最终失败的消息同样提交，避免阻塞分区
	assert.Equal(t, []int64{1, 2, 3}, reader.commits())
	assert.Equal(t, []int64{1, 2, 3}, handler.offsets)

	assert.NoError(t, c.Close())
	assert.True(t, reader.closed)
}

func TestNewConsumerValidatesConfig(t *testing.T) {
	_, err := NewConsumer(nil, "g", "", &recordingHandler{}, zap.NewNop())
	assert.Error(t, err)
}
