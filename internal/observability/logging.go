// Package observability provides logger construction and structured field
// helpers for resistance state.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/resistance/internal/config"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// snapshotMarshaler renders one Snapshot as a nested zap object.
type snapshotMarshaler resistance.Snapshot

func (s snapshotMarshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("level", s.EffectiveValue.String())
	enc.AddInt("value", int(s.EffectiveValue))
	enc.AddFloat64("multiplier", resistance.MultiplierFor(s.EffectiveValue))
	enc.AddBool("modified", s.IsModified)
	return nil
}

// ResistanceFields renders a derived snapshot as one zap field per damage
// type, in canonical order.
//
// Postcondition: len(result) equals the number of damage types present in snap.
func ResistanceFields(snap map[resistance.DamageType]resistance.Snapshot) []zap.Field {
	fields := make([]zap.Field, 0, len(snap))
	for _, d := range resistance.DamageTypes {
		s, ok := snap[d]
		if !ok {
			continue
		}
		fields = append(fields, zap.Object(string(d), snapshotMarshaler(s)))
	}
	return fields
}
