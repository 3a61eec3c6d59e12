package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/domain/schedule"
)

func freeSlots(n int) []schedule.FreeSlot {
	out := make([]schedule.FreeSlot, n)
	for i := range out {
		out[i] = schedule.FreeSlot{
			SlotID:    uuid.New(),
			Day:       time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC),
			StartTime: "14:00",
		}
	}
	return out
}

func TestAvailability(t *testing.T) {
	t.Run("put then get", func(t *testing.T) {
		a, err := NewAvailability(8, time.Minute, zap.NewNop())
		if err != nil {
			t.Fatalf("NewAvailability: %v", err)
		}
		doctorID := uuid.New()
		stored := freeSlots(2)

		a.Put(doctorID, stored)

		got, ok := a.Get(doctorID)
		if !ok {
			t.Fatal("expected a cache hit")
		}
		if len(got) != 2 || got[0].SlotID != stored[0].SlotID {
			t.Errorf("cached listing differs: %+v", got)
		}
	})

	t.Run("miss for unknown doctor", func(t *testing.T) {
		a, _ := NewAvailability(8, time.Minute, zap.NewNop())
		if _, ok := a.Get(uuid.New()); ok {
			t.Error("expected a miss")
		}
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		a, _ := NewAvailability(8, 10*time.Millisecond, zap.NewNop())
		doctorID := uuid.New()
		a.Put(doctorID, freeSlots(1))

		time.Sleep(25 * time.Millisecond)

		if _, ok := a.Get(doctorID); ok {
			t.Error("expected the entry to have expired")
		}
	})

	t.Run("evict removes the entry", func(t *testing.T) {
		a, _ := NewAvailability(8, time.Minute, zap.NewNop())
		doctorID := uuid.New()
		a.Put(doctorID, freeSlots(1))

		a.Evict(doctorID)

		if _, ok := a.Get(doctorID); ok {
			t.Error("expected a miss after eviction")
		}
	})

	t.Run("callers cannot mutate cached state", func(t *testing.T) {
		a, _ := NewAvailability(8, time.Minute, zap.NewNop())
		doctorID := uuid.New()
		a.Put(doctorID, freeSlots(1))

		got, ok := a.Get(doctorID)
		if !ok {
			t.Fatal("expected a hit")
		}
		got[0].StartTime = "mutated"

		again, _ := a.Get(doctorID)
		if again[0].StartTime != "14:00" {
			t.Error("cache state leaked through the returned slice")
		}
	})
}
