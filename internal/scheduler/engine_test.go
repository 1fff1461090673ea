package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, descs ...Descriptor) *Result {
	t.Helper()
	e, err := New(descs, WithRunID("test"))
	require.NoError(t, err)
	res := e.Run()
	assert.Equal(t, Terminated, e.State())
	return res
}

func byLabel(res *Result) map[string]Process {
	out := make(map[string]Process, len(res.Processes))
	for _, p := range res.Processes {
		out[p.Label] = p
	}
	return out
}

func dispatches(res *Result) []Event {
	var out []Event
	for _, ev := range res.Trace {
		if ev.Kind == EventDispatch {
			out = append(out, ev)
		}
	}
	return out
}

func TestEngine_TwoLevels(t *testing.T) {
	res := run(t,
		Descriptor{Label: "A", Burst: 5, Arrival: 0, Level: Level1},
		Descriptor{Label: "B", Burst: 4, Arrival: 1, Level: Level2},
	)
	procs := byLabel(res)

	a := procs["A"]
	assert.Equal(t, int64(5), a.CompletionTime)
	assert.Equal(t, int64(5), a.TurnaroundTime)
	assert.Equal(t, int64(0), a.WaitingTime)
	assert.Equal(t, int64(0), a.ResponseTime)

	// B gets one full level-2 quantum at t=5, then the last unit at t=8.
	b := procs["B"]
	assert.Equal(t, int64(4), b.ResponseTime)
	assert.Equal(t, int64(9), b.CompletionTime)
	assert.Equal(t, int64(8), b.TurnaroundTime)
	assert.Equal(t, int64(4), b.WaitingTime)
	assert.Equal(t, int64(9), res.Makespan)

	got := dispatches(res)
	require.Len(t, got, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, "A", got[i].Label)
		assert.Equal(t, int64(i), got[i].Start)
		assert.Equal(t, int64(i+1), got[i].Stop)
		assert.Equal(t, int64(4-i), got[i].Remaining)
	}
	assert.Equal(t, Event{Kind: EventDispatch, Start: 5, Stop: 8, Label: "B", Level: Level2, Quantum: 3, Remaining: 1}, got[5])
	assert.Equal(t, Event{Kind: EventDispatch, Start: 8, Stop: 9, Label: "B", Level: Level2, Quantum: 3, Remaining: 0}, got[6])
}

func TestEngine_IdleGap(t *testing.T) {
	res := run(t, Descriptor{Label: "P", Burst: 2, Arrival: 5, Level: Level1})

	require.NotEmpty(t, res.Trace)
	assert.Equal(t, Event{Kind: EventIdle, Start: 0, Stop: 5, Label: "P"}, res.Trace[0])

	got := dispatches(res)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].Start)

	p := res.Processes[0]
	assert.Equal(t, int64(7), p.CompletionTime)
	assert.Equal(t, int64(0), p.ResponseTime)
	assert.Equal(t, int64(7), res.Makespan)
}

func TestEngine_IdleBetweenBursts(t *testing.T) {
	res := run(t,
		Descriptor{Label: "X", Burst: 2, Arrival: 0, Level: Level3},
		Descriptor{Label: "Y", Burst: 1, Arrival: 10, Level: Level2},
	)
	var idle []Event
	for _, ev := range res.Trace {
		if ev.Kind == EventIdle {
			idle = append(idle, ev)
		}
	}
	require.Len(t, idle, 1)
	assert.Equal(t, int64(2), idle[0].Start)
	assert.Equal(t, int64(10), idle[0].Stop)
	assert.Equal(t, "Y", idle[0].Label)
	assert.Equal(t, int64(11), res.Makespan)
}

func TestEngine_ArrivalDoesNotPreemptSlice(t *testing.T) {
	res := run(t,
		Descriptor{Label: "X", Burst: 4, Arrival: 0, Level: Level3},
		Descriptor{Label: "Y", Burst: 1, Arrival: 1, Level: Level1},
	)
	procs := byLabel(res)

	got := dispatches(res)
	require.Len(t, got, 3)
	assert.Equal(t, "X", got[0].Label)
	assert.Equal(t, int64(2), got[0].Stop)
	assert.Equal(t, "Y", got[1].Label)
	assert.Equal(t, int64(2), got[1].Start)

	assert.Equal(t, int64(1), procs["Y"].ResponseTime)
	assert.Equal(t, int64(3), procs["Y"].CompletionTime)
	assert.Equal(t, int64(5), procs["X"].CompletionTime)
}

func TestEngine_ArrivalQueuedAheadOfRequeue(t *testing.T) {
	res := run(t,
		Descriptor{Label: "A", Burst: 2, Arrival: 0, Level: Level1},
		Descriptor{Label: "B", Burst: 1, Arrival: 1, Level: Level1},
	)
	procs := byLabel(res)
	assert.Equal(t, int64(2), procs["B"].CompletionTime)
	assert.Equal(t, int64(3), procs["A"].CompletionTime)
}

func TestEngine_EqualArrivalKeepsInputOrder(t *testing.T) {
	res := run(t,
		Descriptor{Label: "late", Burst: 1, Arrival: 3, Level: Level1},
		Descriptor{Label: "first", Burst: 2, Arrival: 0, Level: Level2},
		Descriptor{Label: "second", Burst: 2, Arrival: 0, Level: Level2},
		Descriptor{Label: "third", Burst: 2, Arrival: 0, Level: Level2},
	)

	var labels []string
	for _, p := range res.Processes {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"first", "second", "third", "late"}, labels)

	got := dispatches(res)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, "first", got[0].Label)
	assert.Equal(t, "second", got[1].Label)
	assert.Equal(t, "late", got[2].Label)
}

func TestEngine_ZeroBurst(t *testing.T) {
	res := run(t, Descriptor{Label: "Z", Burst: 0, Arrival: 2, Level: Level2})
	p := res.Processes[0]
	assert.True(t, p.Completed())
	assert.Equal(t, int64(2), p.CompletionTime)
	assert.Equal(t, int64(0), p.TurnaroundTime)
	assert.Equal(t, int64(0), p.ResponseTime)
}

func TestEngine_Empty(t *testing.T) {
	res := run(t)
	assert.Empty(t, res.Processes)
	assert.Empty(t, res.Trace)
	assert.Equal(t, int64(0), res.Makespan)
}

func TestEngine_InvalidLevel(t *testing.T) {
	_, err := New([]Descriptor{
		{Label: "ok", Burst: 1, Level: Level1},
		{Label: "bad", Burst: 1, Level: 4},
	})
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestEngine_Invariants(t *testing.T) {
	descs := []Descriptor{
		{Label: "P1", Burst: 7, Arrival: 0, Level: Level3, Priority: 2},
		{Label: "P2", Burst: 3, Arrival: 2, Level: Level1, Priority: 1},
		{Label: "P3", Burst: 5, Arrival: 2, Level: Level2, Priority: 3},
		{Label: "P4", Burst: 1, Arrival: 9, Level: Level1, Priority: 1},
		{Label: "P5", Burst: 4, Arrival: 30, Level: Level2, Priority: 5},
		{Label: "P6", Burst: 6, Arrival: 31, Level: Level3, Priority: 4},
	}
	res := run(t, descs...)
	require.Len(t, res.Processes, len(descs))

	arrival := make(map[string]int64)
	executed := make(map[string]int64)
	firstStart := make(map[string]int64)
	for _, p := range res.Processes {
		arrival[p.Label] = p.ArrivalTime
	}
	for _, ev := range dispatches(res) {
		assert.GreaterOrEqual(t, ev.Start, arrival[ev.Label], "%s dispatched before arrival", ev.Label)
		assert.LessOrEqual(t, ev.Stop-ev.Start, ev.Level.Quantum())
		if _, ok := firstStart[ev.Label]; !ok {
			firstStart[ev.Label] = ev.Start
		}
		executed[ev.Label] += ev.Stop - ev.Start
	}

	var maxCompletion int64
	for _, p := range res.Processes {
		assert.True(t, p.Completed())
		assert.Equal(t, p.BurstOriginal, executed[p.Label])
		assert.Equal(t, p.CompletionTime-p.ArrivalTime, p.TurnaroundTime)
		assert.Equal(t, p.TurnaroundTime-p.BurstOriginal, p.WaitingTime)
		assert.Equal(t, firstStart[p.Label]-p.ArrivalTime, p.ResponseTime)
		assert.GreaterOrEqual(t, p.CompletionTime, p.ArrivalTime)
		maxCompletion = max(maxCompletion, p.CompletionTime)
	}
	assert.Equal(t, maxCompletion, res.Makespan)
}
