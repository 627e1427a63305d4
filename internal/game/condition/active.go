package condition

import (
	"fmt"
	"sort"
)

// ActiveCondition tracks one applied condition on an entity.
type ActiveCondition struct {
	Def               *ConditionDef
	Stacks            int
	DurationRemaining int // -1 = permanent or until_save
}

// ActiveSet tracks all conditions currently applied to one character.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or refreshes a condition.
// Re-applying adds stacks (capped at MaxStacks) and keeps the longer duration.
// Unstackable conditions (MaxStacks == 0) always hold exactly one stack.
// duration is rounds remaining; use -1 for permanent or until_save.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	ac, ok := s.conditions[def.ID]
	if !ok {
		ac = &ActiveCondition{Def: def, DurationRemaining: duration}
		s.conditions[def.ID] = ac
	} else if duration > ac.DurationRemaining {
		ac.DurationRemaining = duration
	}
	ac.Stacks = capStacks(def, ac.Stacks+stacks)
	return nil
}

func capStacks(def *ConditionDef, n int) int {
	if def.MaxStacks == 0 {
		return 1
	}
	if n > def.MaxStacks {
		return def.MaxStacks
	}
	return n
}

// Remove deletes the condition with the given ID. Removing an absent ID is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Tick advances "rounds" conditions by one round and removes those that run out.
// Permanent and until_save conditions are never expired by Tick.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for _, id := range s.IDs() {
		ac := s.conditions[id]
		if ac.Def.DurationType != DurationRounds || ac.DurationRemaining < 0 {
			continue
		}
		ac.DurationRemaining--
		if ac.DurationRemaining <= 0 {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	return expired
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// IDs returns the active condition IDs in sorted order.
func (s *ActiveSet) IDs() []string {
	ids := make([]string, 0, len(s.conditions))
	for id := range s.conditions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the active conditions ordered by ID.
// The pointed-to ActiveCondition values are shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, id := range s.IDs() {
		out = append(out, s.conditions[id])
	}
	return out
}
