package scheduler

import (
	"log/slog"

	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Dispatching
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatching:
		return "dispatching"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

type EventKind int

const (
	EventIdle EventKind = iota
	EventDispatch
	EventComplete
)

// Event is one entry of the execution trace. For idle events Label names
// the process being waited for.
type Event struct {
	Kind      EventKind
	Start     int64
	Stop      int64
	Label     string
	Level     Level
	Quantum   int64
	Remaining int64
}

type Result struct {
	RunID     string
	Processes []Process
	Makespan  int64
	Trace     []Event
}

type Option func(e *Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRunID sets the id attached to every log record of the run.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// Engine runs the MLQ dispatch loop over a fixed workload.
type Engine struct {
	registry  *Registry
	queues    ReadyQueues
	clock     int64
	completed int
	state     State
	trace     []Event
	runID     string
	logger    *slog.Logger
}

func New(descs []Descriptor, opts ...Option) (*Engine, error) {
	registry, err := NewRegistry(descs)
	if err != nil {
		return nil, err
	}
	e := &Engine{registry: registry, state: Idle}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.runID == "" {
		e.runID = uuid.New().String()
	}
	e.logger = e.logger.With(slog.String("run", e.runID))
	return e, nil
}

func (e *Engine) State() State {
	return e.state
}

// Run simulates until every process has completed and returns the
// processes in arrival order with their metrics filled in.
func (e *Engine) Run() *Result {
	total := e.registry.Len()
	for e.completed < total {
		e.admit()

		level, _, ok := e.queues.PeekFirstNonEmpty()
		if !ok {
			if !e.registry.Pending() {
				break
			}
			e.idle()
			continue
		}
		e.dispatch(level)
	}
	e.state = Terminated
	e.logger.Debug("simulation finished", slog.Int64("makespan", e.clock), slog.Int("processes", total))

	return &Result{
		RunID:     e.runID,
		Processes: e.registry.Snapshot(),
		Makespan:  e.clock,
		Trace:     e.trace,
	}
}

func (e *Engine) admit() {
	e.registry.Admit(e.clock, func(h Handle) {
		e.queues.Push(e.registry.Process(h).Level, h)
	})
}

// idle jumps the clock to the next arrival.
func (e *Engine) idle() {
	e.state = Idle
	next := e.registry.Process(e.registry.Next())
	start := e.clock
	e.clock = e.registry.NextArrival()
	e.record(Event{Kind: EventIdle, Start: start, Stop: e.clock, Label: next.Label})
	e.logger.Debug("cpu idle", slog.Int64("from", start), slog.Int64("to", e.clock), slog.String("waiting_for", next.Label))
}

func (e *Engine) dispatch(level Level) {
	e.state = Dispatching
	h, _ := e.queues.PopFront(level)
	p := e.registry.Process(h)

	quantum := level.Quantum()
	slice := min(p.BurstRemaining, quantum)
	if !p.Dispatched() {
		p.ResponseTime = e.clock - p.ArrivalTime
	}
	start := e.clock
	p.BurstRemaining -= slice
	e.clock += slice
	e.record(Event{
		Kind:      EventDispatch,
		Start:     start,
		Stop:      e.clock,
		Label:     p.Label,
		Level:     level,
		Quantum:   quantum,
		Remaining: p.BurstRemaining,
	})
	e.logger.Debug("dispatch",
		slog.Int64("at", start),
		slog.String("process", p.Label),
		slog.Int("level", int(level)),
		slog.Int64("slice", slice),
		slog.Int64("remaining", p.BurstRemaining))

	// arrivals during the slice queue up ahead of the requeued process
	e.admit()

	if p.Completed() {
		p.complete(e.clock)
		e.completed++
		e.record(Event{Kind: EventComplete, Start: e.clock, Stop: e.clock, Label: p.Label, Level: level})
		e.logger.Debug("completed", slog.Int64("at", e.clock), slog.String("process", p.Label))
		return
	}
	e.queues.Push(level, h)
}

func (e *Engine) record(ev Event) {
	e.trace = append(e.trace, ev)
}
