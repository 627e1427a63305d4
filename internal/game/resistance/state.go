package resistance

// overrides holds the transient flags applied by external effects.
// They are never persisted with the base value.
type overrides struct {
	weak    bool
	resist  bool
	nullify bool
	drain   bool
}

// State is one damage type's resistance: a persisted base level plus the
// temporary overrides currently applied to it.
//
// The zero value is a valid State with a Normal base and no overrides.
// It is not safe for concurrent use; the caller must serialise access.
type State struct {
	base int
	ovr  overrides
}

// NewState creates a State with the given base and no active overrides.
//
// Precondition: base must be in [-1, 3].
// Postcondition: Returns a State whose Current() equals base, or a *RangeError.
func NewState(base int) (*State, error) {
	if err := checkRange("base", base); err != nil {
		return nil, err
	}
	return &State{base: base}, nil
}

// Base returns the persisted base level as a raw integer.
func (s *State) Base() int {
	return s.base
}

// SetBase replaces the base level. Overrides are left untouched.
//
// Postcondition: Base() == value on success; on *RangeError the State is unchanged.
func (s *State) SetBase(value int) error {
	if err := checkRange("base", value); err != nil {
		return err
	}
	s.base = value
	return nil
}

// Current resolves the effective level. Drain outranks nullify, which
// outranks resist and weak; resist and weak together cancel to Normal.
//
// Postcondition: Returns a value in [MinLevel, MaxLevel].
func (s *State) Current() Level {
	switch {
	case s.ovr.drain:
		return Drain
	case s.ovr.nullify:
		return Nullify
	case s.ovr.resist && s.ovr.weak:
		return Normal
	case s.ovr.resist:
		return Resist
	case s.ovr.weak:
		return Weak
	default:
		return Level(s.base)
	}
}

// SetCurrent forces the resolved level. value is clamped into [-1, 3], all
// overrides are cleared, and the single override matching the clamped value
// is activated. Normal is the absence of any override.
//
// Postcondition: Current() == clamp(value, -1, 3).
func (s *State) SetCurrent(value int) {
	l := Level(value)
	if l < MinLevel {
		l = MinLevel
	}
	if l > MaxLevel {
		l = MaxLevel
	}
	s.ovr = overrides{}
	switch l {
	case Weak:
		s.ovr.weak = true
	case Resist:
		s.ovr.resist = true
	case Nullify:
		s.ovr.nullify = true
	case Drain:
		s.ovr.drain = true
	}
}

// Downgrade activates the weak override.
func (s *State) Downgrade() { s.ActivateWeak() }

// Upgrade activates the resist override.
func (s *State) Upgrade() { s.ActivateResist() }

// IsWeak reports whether the weak override is active or the base is Weak.
func (s *State) IsWeak() bool { return s.ovr.weak || s.base == int(Weak) }

// IsResist reports whether the resist override is active or the base is Resist.
func (s *State) IsResist() bool { return s.ovr.resist || s.base == int(Resist) }

// IsNullify reports whether the nullify override is active or the base is Nullify.
func (s *State) IsNullify() bool { return s.ovr.nullify || s.base == int(Nullify) }

// IsDrain reports whether the drain override is active or the base is Drain.
func (s *State) IsDrain() bool { return s.ovr.drain || s.base == int(Drain) }

// ActivateWeak turns on the weak override.
func (s *State) ActivateWeak() { s.ovr.weak = true }

// ActivateResist turns on the resist override.
func (s *State) ActivateResist() { s.ovr.resist = true }

// ActivateNullify turns on the nullify override.
func (s *State) ActivateNullify() { s.ovr.nullify = true }

// ActivateDrain turns on the drain override.
func (s *State) ActivateDrain() { s.ovr.drain = true }

// DeactivateWeak turns off the weak override. The base is untouched.
func (s *State) DeactivateWeak() { s.ovr.weak = false }

// DeactivateResist turns off the resist override. The base is untouched.
func (s *State) DeactivateResist() { s.ovr.resist = false }

// DeactivateNullify turns off the nullify override. The base is untouched.
func (s *State) DeactivateNullify() { s.ovr.nullify = false }

// DeactivateDrain turns off the drain override. The base is untouched.
func (s *State) DeactivateDrain() { s.ovr.drain = false }

// Wk is shorthand for ActivateWeak.
func (s *State) Wk() { s.ActivateWeak() }

// Rs is shorthand for ActivateResist.
func (s *State) Rs() { s.ActivateResist() }

// Nu is shorthand for ActivateNullify.
func (s *State) Nu() { s.ActivateNullify() }

// Dr is shorthand for ActivateDrain.
func (s *State) Dr() { s.ActivateDrain() }

// Activate turns on the override for l. Normal has no override and is a no-op.
func (s *State) Activate(l Level) {
	s.setOverride(l, true)
}

// Deactivate turns off the override for l. Normal is a no-op.
func (s *State) Deactivate(l Level) {
	s.setOverride(l, false)
}

func (s *State) setOverride(l Level, on bool) {
	switch l {
	case Weak:
		s.ovr.weak = on
	case Resist:
		s.ovr.resist = on
	case Nullify:
		s.ovr.nullify = on
	case Drain:
		s.ovr.drain = on
	}
}

// ClearOverrides deactivates every override, leaving the base untouched.
func (s *State) ClearOverrides() {
	s.ovr = overrides{}
}

// Overridden reports whether any override is active.
func (s *State) Overridden() bool {
	return s.ovr != overrides{}
}

// Multiplier returns the damage multiplier for the current level.
// A negative multiplier means incoming damage heals instead.
func (s *State) Multiplier() float64 {
	return MultiplierFor(s.Current())
}

// MultiplierFor maps a level to its damage multiplier; off-scale levels yield 1.
func MultiplierFor(l Level) float64 {
	switch l {
	case Weak:
		return 2
	case Normal:
		return 1
	case Resist:
		return 0.5
	case Nullify:
		return 0
	case Drain:
		return -1
	default:
		return 1
	}
}

// Validate checks the base against the level domain.
//
// Postcondition: Returns nil or a *ValidationError naming the "base" field.
func (s *State) Validate() error {
	if !Level(s.base).Valid() {
		return &ValidationError{Errors: []FieldError{{Field: "base", Value: s.base}}}
	}
	return nil
}
