package graph

// Frontier holds the ids waiting to be visited by a traversal.
//
// Queue gives breadth-first order and Stack gives depth-first order. A
// frontier may hold the same id several times; the traversal drops repeats
// when it pops them, not when it pushes them.
type Frontier[I any] interface {
	// Push adds id to the frontier.
	Push(id I)

	// Pop removes and returns the next id, or false when empty.
	Pop() (I, bool)

	// Len returns the number of pending ids, duplicates included.
	Len() int
}

// Queue is a FIFO Frontier.
type Queue[I any] struct {
	items []I
	head  int
}

// NewQueue returns a queue seeded with ids.
func NewQueue[I any](ids ...I) *Queue[I] {
	q := &Queue[I]{}
	for _, id := range ids {
		q.Push(id)
	}
	return q
}

// Push appends id to the back of the queue.
func (q *Queue[I]) Push(id I) {
	q.items = append(q.items, id)
}

// Pop removes the id at the front of the queue.
func (q *Queue[I]) Pop() (I, bool) {
	var zero I
	if q.head >= len(q.items) {
		return zero, false
	}
	id := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return id, true
}

// Len implements Frontier.
func (q *Queue[I]) Len() int {
	return len(q.items) - q.head
}

// Stack is a LIFO Frontier.
type Stack[I any] struct {
	items []I
}

// NewStack returns a stack seeded with ids; the last id is popped first.
func NewStack[I any](ids ...I) *Stack[I] {
	s := &Stack[I]{}
	for _, id := range ids {
		s.Push(id)
	}
	return s
}

// Push places id on top of the stack.
func (s *Stack[I]) Push(id I) {
	s.items = append(s.items, id)
}

// Pop removes the id on top of the stack.
func (s *Stack[I]) Pop() (I, bool) {
	var zero I
	if len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	id := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return id, true
}

// Len implements Frontier.
func (s *Stack[I]) Len() int {
	return len(s.items)
}

// Visited is the set of ids a traversal has already actioned.
type Visited[I comparable] map[I]struct{}

// NewVisited returns an empty visited set.
func NewVisited[I comparable]() Visited[I] {
	return make(Visited[I])
}

// Mark adds id to the set and reports whether it was newly added.
func (v Visited[I]) Mark(id I) bool {
	if _, ok := v[id]; ok {
		return false
	}
	v[id] = struct{}{}
	return true
}

// Has reports whether id has been visited.
func (v Visited[I]) Has(id I) bool {
	_, ok := v[id]
	return ok
}
