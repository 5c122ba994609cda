package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	return 0, nil, ErrConnectionClosed
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if messageType == websocket.TextMessage {
		s.frames = append(s.frames, data)
	}
	return nil
}

func (s *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.frames...)
}

func (s *fakeSocket) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type recorder struct {
	id     string
	mu     sync.Mutex
	frames []string
	err    error
}

func (r *recorder) SubscriberID() string { return r.id }

func (r *recorder) Send(payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, string(payload))
	return nil
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func TestConnectionWritesQueuedFrames(t *testing.T) {
	ws := &fakeSocket{}
	conn := NewConnection(3, ws, 4)
	conn.Start()
	defer conn.Close()

	require.NoError(t, conn.Send([]byte(`{"status":"success"}`)))
	require.Eventually(t, func() bool { return len(ws.written()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, `{"status":"success"}`, string(ws.written()[0]))
	assert.Equal(t, uint(3), conn.UserID)
	assert.NotEmpty(t, conn.SubscriberID())
}

func TestConnectionSendAfterClose(t *testing.T) {
	ws := &fakeSocket{}
	conn := NewConnection(1, ws, 4)
	conn.Close()
	conn.Close()

	assert.ErrorIs(t, conn.Send([]byte("x")), ErrConnectionClosed)
	assert.True(t, ws.isClosed())
	select {
	case <-conn.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestConnectionClosesSlowClient(t *testing.T) {
	ws := &fakeSocket{}
	conn := NewConnection(1, ws, 1)

	require.NoError(t, conn.Send([]byte("first")))
	assert.ErrorIs(t, conn.Send([]byte("second")), ErrSendBufferFull)
	assert.True(t, ws.isClosed())
}

func TestMemoryBusSubscribeIsIdempotent(t *testing.T) {
	bus := NewMemoryBus(newTestMetrics())
	sub := &recorder{id: "a"}

	bus.Subscribe(1, sub)
	bus.Subscribe(1, sub)
	assert.Equal(t, 1, bus.Subscribers(1))

	require.NoError(t, bus.Publish(context.Background(), 1, []byte("hello")))
	assert.Equal(t, []string{"hello"}, sub.received())
}

func TestMemoryBusDeliversOnlyToRoom(t *testing.T) {
	metrics := newTestMetrics()
	bus := NewMemoryBus(metrics)
	a, b, c := &recorder{id: "a"}, &recorder{id: "b"}, &recorder{id: "c"}
	bus.Subscribe(1, a)
	bus.Subscribe(1, b)
	bus.Subscribe(2, c)

	assert.Equal(t, 2, bus.Deliver(1, []byte("room-1")))
	assert.Equal(t, []string{"room-1"}, a.received())
	assert.Equal(t, []string{"room-1"}, b.received())
	assert.Empty(t, c.received())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.FramesSent))
}

func TestMemoryBusUnsubscribeDropsEmptyRoom(t *testing.T) {
	bus := NewMemoryBus(newTestMetrics())
	sub := &recorder{id: "a"}
	bus.Subscribe(5, sub)
	bus.Unsubscribe(5, sub)
	bus.Unsubscribe(5, sub)

	assert.Equal(t, 0, bus.Subscribers(5))
	assert.Equal(t, 0, bus.Deliver(5, []byte("nobody")))
	assert.Empty(t, sub.received())
}

func TestMemoryBusPrunesClosedSubscribers(t *testing.T) {
	metrics := newTestMetrics()
	bus := NewMemoryBus(metrics)
	alive := &recorder{id: "alive"}
	gone := &recorder{id: "gone", err: ErrConnectionClosed}
	bus.Subscribe(9, alive)
	bus.Subscribe(9, gone)

	assert.Equal(t, 1, bus.Deliver(9, []byte("ping")))
	assert.Equal(t, 1, bus.Subscribers(9))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Pruned))
}

func TestRedisBusRelaysPublishedFrames(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	bus := NewRedisBus(client, NewMemoryBus(newTestMetrics()), zerolog.Nop())
	require.NoError(t, bus.Start(ctx))
	defer bus.Close()

	member := &recorder{id: "member"}
	outsider := &recorder{id: "outsider"}
	bus.Subscribe(7, member)
	bus.Subscribe(8, outsider)

	require.NoError(t, bus.Publish(ctx, 7, []byte(`{"status":"success"}`)))
	require.Eventually(t, func() bool { return len(member.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, `{"status":"success"}`, member.received()[0])
	assert.Empty(t, outsider.received())
}

func TestRedisBusPublishFailsWhenServerIsGone(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	bus := NewRedisBus(client, NewMemoryBus(newTestMetrics()), zerolog.Nop())
	assert.Error(t, bus.Publish(context.Background(), 1, []byte("x")))
}

func TestRoomChannelRoundTrip(t *testing.T) {
	room, err := roomFromChannel(roomChannel(42))
	require.NoError(t, err)
	assert.Equal(t, uint(42), room)

	_, err = roomFromChannel("chat:room:abc")
	assert.Error(t, err)
}
