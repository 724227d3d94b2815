package bus

import (
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func benchEvt(t string) Event {
	return NewEvent(t, "bench", 0, nil, nil)
}

func makeHandler(c *int64) EventHandler {
	return func(e Event) error {
		atomic.AddInt64(c, 1)
		return nil
	}
}

type nopObserver struct{}

func (nopObserver) OnEnqueue(Event)                              {}
func (nopObserver) OnDelivered(Event, int, error, time.Duration) {}

func BenchmarkDispatchManySubscribers(b *testing.B) {
	for _, subs := range []int{1, 16, 256} {
		b.Run("subs="+strconv.Itoa(subs), func(b *testing.B) {
			bus := New()
			var c int64
			for i := 0; i < subs; i++ {
				_, _ = bus.Subscribe("tick", makeHandler(&c))
			}
			e := benchEvt("tick")
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				bus.Enqueue(e)
				_ = bus.Dispatch()
			}
		})
	}
}

// BenchmarkFrameDispatch mimics a frame that queues a burst of collision
// events and dispatches them together.
func BenchmarkFrameDispatch(b *testing.B) {
	bus := New()
	var c int64
	for i := 0; i < 4; i++ {
		_, _ = bus.Subscribe("collision.resolved", makeHandler(&c))
	}
	e := benchEvt("collision.resolved")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 32; j++ {
			bus.Enqueue(e)
		}
		_ = bus.Dispatch()
	}
}

func BenchmarkObserverOverhead(b *testing.B) {
	bus := New()
	var c int64
	for i := 0; i < 32; i++ {
		_, _ = bus.Subscribe("tick", makeHandler(&c))
	}
	e := benchEvt("tick")
	b.Run("no-observer", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			bus.Enqueue(e)
			_ = bus.Dispatch()
		}
	})
	b.Run("with-observer", func(b *testing.B) {
		obs := nopObserver{}
		bus.AddObserver(obs)
		defer bus.RemoveObserver(obs)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			bus.Enqueue(e)
			_ = bus.Dispatch()
		}
	})
}
