package scheduler

import (
	"errors"
	"fmt"
	"sort"
)

// NotDispatched is the response time of a process that has never run.
const NotDispatched int64 = -1

// NumLevels is the number of ready queues.
const NumLevels = 3

type Level int

const (
	Level1 Level = iota + 1
	Level2
	Level3
)

// quanta is indexed by level-1.
var quanta = [NumLevels]int64{1, 3, 2}

var ErrInvalidLevel = errors.New("invalid queue level")

func (l Level) Valid() bool {
	return l >= Level1 && l <= Level3
}

// Quantum returns the time slice granted per dispatch on level l,
// which must satisfy Valid.
func (l Level) Quantum() int64 {
	return quanta[l-1]
}

type (
	// Descriptor is a process as described by the workload.
	Descriptor struct {
		Label    string
		Burst    int64
		Arrival  int64
		Level    Level
		Priority int64
	}

	// Process is a descriptor plus its simulation state.
	Process struct {
		Label          string
		BurstOriginal  int64
		BurstRemaining int64
		ArrivalTime    int64
		Level          Level
		Priority       int64
		CompletionTime int64
		TurnaroundTime int64
		WaitingTime    int64
		ResponseTime   int64
	}

	// Handle addresses a process in a Registry.
	Handle int
)

func newProcess(d Descriptor) Process {
	return Process{
		Label:          d.Label,
		BurstOriginal:  d.Burst,
		BurstRemaining: d.Burst,
		ArrivalTime:    d.Arrival,
		Level:          d.Level,
		Priority:       d.Priority,
		ResponseTime:   NotDispatched,
	}
}

func (p *Process) Completed() bool {
	return p.BurstRemaining == 0
}

// Dispatched reports whether the process has run at least once.
func (p *Process) Dispatched() bool {
	return p.ResponseTime != NotDispatched
}

func (p *Process) complete(now int64) {
	p.CompletionTime = now
	p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstOriginal
}

// Registry owns the processes of one run, ordered by arrival time.
// Processes sharing an arrival time keep their input order.
type Registry struct {
	procs []Process
	next  int
}

func NewRegistry(descs []Descriptor) (*Registry, error) {
	procs := make([]Process, 0, len(descs))
	for i := range descs {
		if !descs[i].Level.Valid() {
			return nil, fmt.Errorf("%w: process %q has level %d", ErrInvalidLevel, descs[i].Label, descs[i].Level)
		}
		procs = append(procs, newProcess(descs[i]))
	}
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].ArrivalTime < procs[j].ArrivalTime
	})

	return &Registry{procs: procs}, nil
}

func (r *Registry) Len() int {
	return len(r.procs)
}

func (r *Registry) Process(h Handle) *Process {
	return &r.procs[h]
}

// Pending reports whether some process has not been admitted yet.
func (r *Registry) Pending() bool {
	return r.next < len(r.procs)
}

// Next returns the handle of the next unadmitted process.
// It must only be called while Pending is true.
func (r *Registry) Next() Handle {
	return Handle(r.next)
}

// NextArrival returns the arrival time of the next unadmitted process.
// It must only be called while Pending is true.
func (r *Registry) NextArrival() int64 {
	return r.procs[r.next].ArrivalTime
}

// Admit hands every unadmitted process that has arrived by now to push,
// in arrival order, and returns how many were admitted.
func (r *Registry) Admit(now int64, push func(Handle)) int {
	admitted := 0
	for r.next < len(r.procs) && r.procs[r.next].ArrivalTime <= now {
		push(Handle(r.next))
		r.next++
		admitted++
	}
	return admitted
}

// Snapshot returns a copy of every process in registry order.
func (r *Registry) Snapshot() []Process {
	out := make([]Process, len(r.procs))
	copy(out, r.procs)
	return out
}
