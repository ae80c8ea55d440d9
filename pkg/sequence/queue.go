package sequence

// Queue is a generic FIFO queue. It is not safe for concurrent use;
// callers own the locking.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue appends a value to the back of the queue.
func (q *Queue[T]) Enqueue(value T) {
	q.items = append(q.items, value)
}

// Dequeue removes and returns the value at the front of the queue.
func (q *Queue[T]) Dequeue() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}

	value := q.items[q.head]
	var zero T
	q.items[q.head] = zero // release the slot
	q.head++

	// Reclaim the consumed prefix once it dominates the backing slice.
	if q.head > len(q.items)/2 && q.head > 16 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return value, true
}

// Peek returns the front value without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// IsEmpty reports whether the queue holds no values.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}
