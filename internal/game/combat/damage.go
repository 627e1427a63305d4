// Package combat resolves typed damage against resistance sets.
package combat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// MaxDamage is the largest raw amount a single hit may carry. Scaled by the
// weak multiplier it still fits in a 64-bit int without rounding.
const MaxDamage = math.MaxInt32

var (
	// ErrNegativeDamage is returned when a hit carries a negative raw amount.
	ErrNegativeDamage = errors.New("damage amount must be >= 0")
	// ErrDamageTooLarge is returned when a hit exceeds MaxDamage.
	ErrDamageTooLarge = errors.New("damage amount exceeds maximum")
	// ErrNetOverflow is returned when the running HP delta of a hit list leaves the int range.
	ErrNetOverflow = errors.New("net hp change overflows")
)

// DamageResult holds the outcome of applying one typed hit to a resistance set.
type DamageResult struct {
	// Type is the damage type of the hit.
	Type resistance.DamageType
	// Amount is the raw incoming damage.
	Amount int
	// Level is the resolved resistance level at the time of the hit.
	Level resistance.Level
	// Multiplier is the damage scalar for Level.
	Multiplier float64
	// Final is floor(Amount * Multiplier). Negative values are absorbed as healing.
	Final int
}

// Absorbed reports whether the hit heals the target instead of hurting it.
func (r DamageResult) Absorbed() bool {
	return r.Final < 0
}

// HPDelta returns the change to apply to the target's hit points.
func (r DamageResult) HPDelta() int {
	return -r.Final
}

// Resolver applies typed damage against resistance sets and logs every resolution.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: logger must be non-nil.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// ResolveDamage scales amount by the target's current multiplier for dt.
// The set is read, never mutated; callers must run the preparation pass
// first so overrides reflect active conditions.
//
// Precondition: set must be non-nil.
// Postcondition: Returns a populated DamageResult, or an error for an unknown
// damage type or an amount outside [0, MaxDamage].
func (r *Resolver) ResolveDamage(set *resistance.Set, dt resistance.DamageType, amount int) (DamageResult, error) {
	if amount < 0 {
		return DamageResult{}, fmt.Errorf("%w: got %d", ErrNegativeDamage, amount)
	}
	if amount > MaxDamage {
		return DamageResult{}, fmt.Errorf("%w: got %d, max %d", ErrDamageTooLarge, amount, MaxDamage)
	}
	st, ok := set.Get(dt)
	if !ok {
		return DamageResult{}, fmt.Errorf("resolving damage: unknown damage type %q", dt)
	}
	level := st.Current()
	mult := st.Multiplier()
	res := DamageResult{
		Type:       dt,
		Amount:     amount,
		Level:      level,
		Multiplier: mult,
		Final:      int(math.Floor(float64(amount) * mult)),
	}
	r.logger.Debug("damage resolved",
		zap.String("type", string(dt)),
		zap.Int("amount", amount),
		zap.Stringer("level", level),
		zap.Float64("multiplier", mult),
		zap.Int("final", res.Final),
	)
	return res, nil
}

// ResolveHits resolves each hit in order and returns the net HP delta.
// Resolution stops at the first failing hit; results and net cover only the
// hits resolved before it.
func (r *Resolver) ResolveHits(set *resistance.Set, hits []Hit) ([]DamageResult, int, error) {
	results := make([]DamageResult, 0, len(hits))
	net := 0
	for _, h := range hits {
		res, err := r.ResolveDamage(set, h.Type, h.Amount)
		if err != nil {
			return results, net, err
		}
		d := res.HPDelta()
		if (d > 0 && net > math.MaxInt-d) || (d < 0 && net < math.MinInt-d) {
			return results, net, fmt.Errorf("%w: after %d hits", ErrNetOverflow, len(results))
		}
		results = append(results, res)
		net += d
	}
	return results, net, nil
}

// Hit is one typed damage instance.
type Hit struct {
	Type   resistance.DamageType
	Amount int
}

// ParseHit parses "type:amount", e.g. "fire:12".
func ParseHit(s string) (Hit, error) {
	name, num, ok := strings.Cut(s, ":")
	if !ok {
		return Hit{}, fmt.Errorf("parsing hit %q: want type:amount", s)
	}
	dt, err := resistance.ParseDamageType(name)
	if err != nil {
		return Hit{}, fmt.Errorf("parsing hit %q: %w", s, err)
	}
	amount, err := strconv.Atoi(num)
	if err != nil {
		return Hit{}, fmt.Errorf("parsing hit %q: %w", s, err)
	}
	return Hit{Type: dt, Amount: amount}, nil
}
