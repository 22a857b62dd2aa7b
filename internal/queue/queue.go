// Package queue implements the bounded candidate heap used by search.
package queue

// Candidate is a scored record position produced during a scan.
type Candidate struct {
	Position int // storage position of the record
	Score    float32
}

// Bounded keeps the best candidates seen so far, up to a fixed capacity.
// It is a value-based binary min-heap whose top is the current worst
// candidate, so a full heap accepts or rejects in O(log capacity).
// It does NOT implement container/heap to avoid interface overhead.
//
// Equal scores rank by ascending position, which makes selection
// deterministic for tied candidates.
type Bounded struct {
	capacity int
	items    []Candidate
}

// NewBounded creates a bounded heap holding at most capacity candidates.
func NewBounded(capacity int) *Bounded {
	return &Bounded{
		capacity: capacity,
		items:    make([]Candidate, 0, capacity),
	}
}

// Len returns the number of candidates currently held.
func (b *Bounded) Len() int {
	return len(b.items)
}

// Push offers a candidate. While the heap is below capacity the candidate is
// always kept; afterwards it replaces the current worst candidate only if it
// ranks better.
func (b *Bounded) Push(c Candidate) {
	if len(b.items) < b.capacity {
		b.items = append(b.items, c)
		b.siftUp(len(b.items) - 1)
		return
	}

	if b.capacity == 0 || !worse(b.items[0], c) {
		return
	}

	b.items[0] = c
	b.siftDown(0)
}

// Descending drains the heap and returns the candidates ordered best-first:
// descending score, ties by ascending position. The heap is empty afterwards.
func (b *Bounded) Descending() []Candidate {
	out := make([]Candidate, len(b.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = b.pop()
	}

	return out
}

// worse reports whether a ranks strictly below b.
func worse(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Position > b.Position
}

// less is the heap ordering: the worst candidate sorts first.
func (b *Bounded) less(i, j int) bool {
	return worse(b.items[i], b.items[j])
}

func (b *Bounded) swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
}

func (b *Bounded) pop() Candidate {
	n := len(b.items)
	item := b.items[0]
	b.items[0] = b.items[n-1]
	b.items = b.items[:n-1]

	if len(b.items) > 0 {
		b.siftDown(0)
	}

	return item
}

func (b *Bounded) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !b.less(i, parent) {
			break
		}
		b.swap(i, parent)
		i = parent
	}
}

func (b *Bounded) siftDown(i int) {
	n := len(b.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && b.less(right, left) {
			child = right
		}
		if !b.less(child, i) {
			break
		}
		b.swap(i, child)
		i = child
	}
}
