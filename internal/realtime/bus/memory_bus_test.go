package bus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryBusDeliversToForwarders(t *testing.T) {
	b := NewMemoryBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	require.NoError(t, b.StartForwarder(ctx, func(ev Event) { got <- ev }))

	want := Event{Type: EventStepsChanged, PathwayID: uuid.New(), At: time.Now().UTC()}
	require.NoError(t, b.Publish(ctx, want))

	select {
	case ev := <-got:
		require.Equal(t, want.PathwayID, ev.PathwayID)
		require.Equal(t, EventStepsChanged, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryBusCloseStopsForwarders(t *testing.T) {
	b := NewMemoryBus()
	require.NoError(t, b.StartForwarder(context.Background(), func(Event) {}))
	require.NoError(t, b.StartForwarder(context.Background(), func(Event) {}))
	require.NoError(t, b.Close())
	require.Error(t, b.Publish(context.Background(), Event{Type: EventPathwayCreated}))
	require.NoError(t, b.Close())
}

func TestMemoryBusCancelledForwarderUnsubscribes(t *testing.T) {
	b := NewMemoryBus()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.StartForwarder(ctx, func(Event) {}))
	cancel()

	require.Eventually(t, func() bool {
		mb := b.(*memoryBus)
		mb.mu.Lock()
		defer mb.mu.Unlock()
		return len(mb.subs) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
