package resistance

import "sort"

// Record is the persisted layout of a resistance set: one base value per
// damage type. Overrides and derived values are never part of a Record.
type Record map[DamageType]int

// fieldPath returns the validation path for a damage type.
func fieldPath(d DamageType) string {
	return "resistances." + string(d)
}

// ValidateJoint checks every entry of r together and reports all offending
// fields in one *ValidationError. Unknown damage types are reported too.
//
// Postcondition: Returns nil iff every key is a known DamageType and every value is in [-1, 3].
func (r Record) ValidateJoint() error {
	var errs []FieldError
	for _, d := range DamageTypes {
		if v, ok := r[d]; ok && !Level(v).Valid() {
			errs = append(errs, FieldError{Field: fieldPath(d), Value: v})
		}
	}
	var unknown []FieldError
	for d, v := range r {
		if !d.Valid() {
			unknown = append(unknown, FieldError{Field: fieldPath(d), Value: v})
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Field < unknown[j].Field })
	errs = append(errs, unknown...)
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Snapshot is the derived view of one resistance at the time of a DeriveAll call.
type Snapshot struct {
	EffectiveValue Level
	IsModified     bool
}

// Set owns exactly one State per damage type.
// Use NewSet; the zero value is not usable.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	members map[DamageType]*State
}

// NewSet builds a Set from initial; omitted damage types default to Normal.
//
// Precondition: initial may be nil.
// Postcondition: Returns a Set with all eight members, or a *ValidationError
// naming every offending field when initial is malformed.
func NewSet(initial Record) (*Set, error) {
	if err := initial.ValidateJoint(); err != nil {
		return nil, err
	}
	s := &Set{members: make(map[DamageType]*State, len(DamageTypes))}
	for _, d := range DamageTypes {
		// Range was checked above.
		s.members[d] = &State{base: initial[d]}
	}
	return s, nil
}

// Get returns the State for d, or (nil, false) if d is not a known damage type.
func (s *Set) Get(d DamageType) (*State, bool) {
	st, ok := s.members[d]
	return st, ok
}

// Each calls fn for every member in canonical DamageTypes order.
func (s *Set) Each(fn func(DamageType, *State)) {
	for _, d := range DamageTypes {
		fn(d, s.members[d])
	}
}

// Record returns the persisted base values of every member.
func (s *Set) Record() Record {
	out := make(Record, len(DamageTypes))
	for _, d := range DamageTypes {
		out[d] = s.members[d].base
	}
	return out
}

// ClearOverrides deactivates every override on every member.
func (s *Set) ClearOverrides() {
	for _, st := range s.members {
		st.ClearOverrides()
	}
}

// ValidateJoint validates all members' bases together. A single invalid
// member fails the whole set.
//
// Postcondition: Returns nil or a *ValidationError listing every offending field.
func (s *Set) ValidateJoint() error {
	return s.Record().ValidateJoint()
}

// DeriveAll resolves every member. The result is not cached; callers must
// derive again after any override mutation.
//
// Postcondition: The returned map has exactly one entry per DamageType.
func (s *Set) DeriveAll() map[DamageType]Snapshot {
	out := make(map[DamageType]Snapshot, len(DamageTypes))
	for _, d := range DamageTypes {
		st := s.members[d]
		cur := st.Current()
		out[d] = Snapshot{EffectiveValue: cur, IsModified: int(cur) != st.base}
	}
	return out
}
