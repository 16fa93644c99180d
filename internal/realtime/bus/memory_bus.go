package bus

import (
	"context"
	"fmt"
	"sync"
)

// memoryBus fans events out in-process. Used when REDIS_ADDR is unset.
type memoryBus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	closed bool
	wg     sync.WaitGroup
}

func NewMemoryBus() Bus {
	return &memoryBus{subs: map[int]chan Event{}}
}

func (b *memoryBus) Publish(ctx context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("bus closed")
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// slow subscriber; drop
		}
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("bus closed")
	}
	id := b.next
	b.next++
	ch := make(chan Event, 64)
	b.subs[id] = ch
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				b.drop(id)
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *memoryBus) drop(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Close stops every forwarder and waits for them to return.
func (b *memoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}
