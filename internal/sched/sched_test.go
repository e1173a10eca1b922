package sched

import "testing"

func TestServiceFiresInAscendingOrder(t *testing.T) {
	q := New()
	var order []string
	q.Schedule(30, func() { order = append(order, "c") })
	q.Schedule(10, func() { order = append(order, "a") })
	q.Schedule(20, func() { order = append(order, "b") })

	fired := q.Service(25)
	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
	if q.Len() != 1 {
		t.Fatalf("queue len = %d, want 1 remaining", q.Len())
	}
}

func TestCancelRemovesPendingEvent(t *testing.T) {
	q := New()
	fired := false
	e := q.Schedule(10, func() { fired = true })
	q.Cancel(e)
	q.Service(100)
	if fired {
		t.Fatalf("canceled event should not fire")
	}
}

func TestHandlerReschedulesForALaterTick(t *testing.T) {
	q := New()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			q.Schedule(uint64(count)*10, tick)
		}
	}
	q.Schedule(1, tick)
	q.Service(1)
	if count != 1 {
		t.Fatalf("count = %d, want 1 (rescheduled event is at a later cycle)", count)
	}
	q.Service(100)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}
