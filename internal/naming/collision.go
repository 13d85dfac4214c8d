package naming

import (
	"fmt"
	"sync"
)

// CollisionResolver tracks IDs claimed by input files and resolves
// duplicates by appending "_dupN" suffixes, so two recordings such as
// trial1.tsv and trial1.txt stay distinguishable in the aggregate table.
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // id → input path that owns it
	counters map[string]int    // requested id → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final ID for input. If requested is unclaimed (or
// already owned by input) it is returned as-is; otherwise a "_dupN"
// variant is generated.
func (cr *CollisionResolver) Resolve(input, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requested]
	if !exists || owner == input {
		cr.owners[requested] = input
		return requested
	}

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := fmt.Sprintf("%s_dup%d", requested, counter)
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == input {
			cr.counters[requested] = counter + 1
			cr.owners[candidate] = input
			return candidate
		}
		counter++
	}
}
