package chart

// pending is one queued combination attempt between two adjacent edges.
type pending struct {
	left, right *Edge
}

// Agenda is the worklist of combination attempts for one cell. FIFO
// order; every pair of adjacent sub-edges is attempted exactly once.
type Agenda struct {
	tasks []pending
	next  int
}

func (a *Agenda) Push(left, right *Edge) {
	a.tasks = append(a.tasks, pending{left, right})
}

func (a *Agenda) Pop() (pending, bool) {
	if a.next >= len(a.tasks) {
		return pending{}, false
	}
	task := a.tasks[a.next]
	a.next++
	return task, true
}

func (a *Agenda) Len() int {
	return len(a.tasks) - a.next
}
