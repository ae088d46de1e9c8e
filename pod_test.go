package chatpod

import (
	"context"
	"testing"
	"time"

	"github.com/boat-builder/chatpod/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPodSessions(t *testing.T) {
	pod := NewPod(llm.NewMock("Hello!"))
	defer pod.Close()

	a := pod.NewSession()
	b := pod.NewSession()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, pod.Len())

	got, ok := pod.Session(a.ID())
	require.True(t, ok)
	assert.Same(t, a, got)

	_, err := a.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len(), "sessions must not share history")

	pod.CloseSession(a.ID())
	_, ok = pod.Session(a.ID())
	assert.False(t, ok)
	assert.Equal(t, 1, pod.Len())
	pod.CloseSession("unknown")
}

func TestPodSweep(t *testing.T) {
	pod := NewPod(llm.NewMock(""), WithSessionTTL(time.Minute))
	defer pod.Close()

	stale := pod.NewSession()
	fresh := pod.NewSession()

	n := pod.Sweep(time.Now().Add(30 * time.Second))
	assert.Equal(t, 0, n)

	time.Sleep(5 * time.Millisecond)
	_, err := fresh.Submit(context.Background(), "still here")
	require.NoError(t, err)

	n = pod.Sweep(fresh.Touched().Add(time.Minute))
	assert.Equal(t, 1, n)
	_, ok := pod.Session(stale.ID())
	assert.False(t, ok)
	_, ok = pod.Session(fresh.ID())
	assert.True(t, ok)

	_, err = stale.Submit(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestPodSweepDisabled(t *testing.T) {
	pod := NewPod(llm.NewMock(""), WithSessionTTL(0))
	defer pod.Close()
	pod.NewSession()
	assert.Equal(t, 0, pod.Sweep(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, pod.Len())
}

func TestPodJanitorStops(t *testing.T) {
	// genai pulls in opencensus, whose view worker starts in init.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	t.Run("on close", func(t *testing.T) {
		pod := NewPod(llm.NewMock(""), WithSessionTTL(time.Minute))
		pod.Start(context.Background())
		sess := pod.NewSession()
		pod.Close()
		pod.Close()
		assert.Equal(t, 0, pod.Len())
		_, err := sess.Submit(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		pod := NewPod(llm.NewMock(""), WithSessionTTL(time.Minute))
		pod.Start(ctx)
		cancel()
		pod.Close()
	})
}
