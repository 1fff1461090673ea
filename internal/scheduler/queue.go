package scheduler

// ReadyQueues holds one FIFO of handles per level.
type ReadyQueues struct {
	queues [NumLevels][]Handle
}

// Push appends h to the queue of level, which must satisfy Valid.
func (q *ReadyQueues) Push(level Level, h Handle) {
	q.queues[level-1] = append(q.queues[level-1], h)
}

// PeekFirstNonEmpty returns the front of the first non-empty queue,
// scanning levels 1, 2 and 3 in that order.
func (q *ReadyQueues) PeekFirstNonEmpty() (Level, Handle, bool) {
	for i := range q.queues {
		if len(q.queues[i]) > 0 {
			return Level(i + 1), q.queues[i][0], true
		}
	}
	return 0, 0, false
}

// PopFront removes the front of the queue of level, which must satisfy Valid.
func (q *ReadyQueues) PopFront(level Level) (Handle, bool) {
	queue := q.queues[level-1]
	if len(queue) == 0 {
		return 0, false
	}
	h := queue[0]
	q.queues[level-1] = queue[1:]
	return h, true
}

// Len returns the number of queued handles across all levels.
func (q *ReadyQueues) Len() int {
	n := 0
	for i := range q.queues {
		n += len(q.queues[i])
	}
	return n
}
