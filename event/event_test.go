package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	t.Run("stamps and delivers", func(t *testing.T) {
		ch := NewChannel()
		ok := Emit(context.Background(), ch, Event{Type: StepStart, StepName: "research"})
		assert.True(t, ok)

		ev := <-ch
		assert.Equal(t, StepStart, ev.Type)
		assert.Equal(t, "research", ev.StepName)
		assert.False(t, ev.Timestamp.IsZero())
	})

	t.Run("uses buffer even when context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ch := make(chan Event, 1)
		assert.True(t, Emit(ctx, ch, Event{Type: RunError}))
		assert.Len(t, ch, 1)
	})

	t.Run("gives up on a full channel once context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ch := make(chan Event)
		assert.False(t, Emit(ctx, ch, Event{Type: RunEnd}))
	})
}
