package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	IdentityCacheHits   uint64
	IdentityCacheMisses uint64
	TodosCreated        uint64
	TodosUpdated        uint64
	TodosDeleted        uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	identityCacheHits   uint64
	identityCacheMisses uint64
	todosCreated        uint64
	todosUpdated        uint64
	todosDeleted        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		IdentityCacheHits:   atomic.LoadUint64(&m.identityCacheHits),
		IdentityCacheMisses: atomic.LoadUint64(&m.identityCacheMisses),
		TodosCreated:        atomic.LoadUint64(&m.todosCreated),
		TodosUpdated:        atomic.LoadUint64(&m.todosUpdated),
		TodosDeleted:        atomic.LoadUint64(&m.todosDeleted),
	}
}

// IncIdentityCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncIdentityCacheHit() {
	atomic.AddUint64(&m.identityCacheHits, 1)
}

// IncIdentityCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncIdentityCacheMiss() {
	atomic.AddUint64(&m.identityCacheMisses, 1)
}

// IncTodoCreated increments the todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	atomic.AddUint64(&m.todosCreated, 1)
}

// IncTodoUpdated increments the todo updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() {
	atomic.AddUint64(&m.todosUpdated, 1)
}

// IncTodoDeleted increments the todo deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() {
	atomic.AddUint64(&m.todosDeleted, 1)
}
