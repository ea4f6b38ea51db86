package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	t.Run("subscriber receives events for its job only", func(t *testing.T) {
		hub := NewHub()
		ch := hub.Subscribe("job-1")
		defer hub.Unsubscribe("job-1", ch)

		hub.Publish(Event{JobID: "job-2", Index: 0})
		hub.Publish(Event{JobID: "job-1", Index: 3, Success: true, Completed: 1, Total: 5})

		require.Len(t, ch, 1)
		event := <-ch
		assert.Equal(t, "job-1", event.JobID)
		assert.Equal(t, 3, event.Index)
		assert.True(t, event.Success)
	})

	t.Run("multiple subscribers all receive the event", func(t *testing.T) {
		hub := NewHub()
		first := hub.Subscribe("job-1")
		second := hub.Subscribe("job-1")
		defer hub.Unsubscribe("job-1", first)
		defer hub.Unsubscribe("job-1", second)

		hub.Publish(Event{JobID: "job-1", Index: 0})

		assert.Len(t, first, 1)
		assert.Len(t, second, 1)
	})

	t.Run("unsubscribe closes the channel", func(t *testing.T) {
		hub := NewHub()
		ch := hub.Subscribe("job-1")
		hub.Unsubscribe("job-1", ch)

		_, open := <-ch
		assert.False(t, open)

		// 해제 후 발행해도 패닉 없음
		hub.Publish(Event{JobID: "job-1"})
	})

	t.Run("full buffer drops events instead of blocking", func(t *testing.T) {
		hub := NewHub()
		ch := hub.Subscribe("job-1")
		defer hub.Unsubscribe("job-1", ch)

		for i := 0; i < 32; i++ {
			hub.Publish(Event{JobID: "job-1", Index: i})
		}

		assert.Len(t, ch, 16)
	})
}
