// Package main provides the resolve binary: it loads a character from a YAML
// sheet or the database, applies conditions, runs the preparation pass, and
// prints the resolved resistances and any requested damage.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/resistance/internal/config"
	"github.com/cory-johannsen/resistance/internal/game/character"
	"github.com/cory-johannsen/resistance/internal/game/combat"
	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
	"github.com/cory-johannsen/resistance/internal/observability"
	"github.com/cory-johannsen/resistance/internal/scripting"
	"github.com/cory-johannsen/resistance/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sheetPath := flag.String("sheet", "", "path to a character sheet YAML file")
	characterID := flag.Int64("character-id", 0, "load the character from the database instead of a sheet")
	applyList := flag.String("apply", "", "extra conditions to apply, comma-separated id[:duration]")
	damageList := flag.String("damage", "", "hits to resolve, comma-separated type:amount")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	reg, err := condition.LoadDirectory(cfg.Rules.ConditionsDir)
	if err != nil {
		logger.Fatal("loading conditions", zap.Error(err))
	}
	logger.Info("conditions loaded",
		zap.String("dir", cfg.Rules.ConditionsDir),
		zap.Int("count", reg.Len()),
	)

	var hooks character.HookRunner
	if cfg.Rules.ScriptsDir != "" {
		mgr := scripting.NewManager(logger, cfg.Rules.ScriptInstructionLimit)
		if err := mgr.LoadGlobal(cfg.Rules.ScriptsDir); err != nil {
			logger.Fatal("loading condition scripts", zap.Error(err))
		}
		defer mgr.Close()
		hooks = mgr
	}

	var c *character.Character
	switch {
	case *characterID > 0:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		if err := pool.Health(ctx, postgres.ConnectTimeout); err != nil {
			logger.Fatal("database health check failed", zap.Error(err))
		}
		c, err =postgres.NewCharacterRepository(pool.DB()).GetByID(ctx, *characterID)
		if err != nil {
			logger.Fatal("loading character", zap.Int64("id", *characterID), zap.Error(err))
		}
	case *sheetPath != "":
		sheet, err := character.LoadSheet(*sheetPath)
		if err != nil {
			logger.Fatal("loading sheet", zap.Error(err))
		}
		c, err = sheet.Build(cfg.Rules, reg)
		if err != nil {
			logger.Fatal("building character", zap.Error(err))
		}
	default:
		log.Fatalf("one of -sheet or -character-id is required")
	}

	if err := applyConditions(c, reg, *applyList); err != nil {
		logger.Fatal("applying conditions", zap.Error(err))
	}

	snap, err := c.Prepare(hooks)
	if err != nil {
		logger.Fatal("preparing resistances", zap.Error(err))
	}
	logger.Debug("resistances prepared",
		append([]zap.Field{zap.String("character", c.Name)}, observability.ResistanceFields(snap)...)...,
	)
	writeTable(os.Stdout, c, snap)

	if *damageList != "" {
		hits, err := parseHits(*damageList)
		if err != nil {
			logger.Fatal("parsing damage", zap.Error(err))
		}
		results, net, err := combat.NewResolver(logger).ResolveHits(c.Resistances, hits)
		if err != nil {
			logger.Fatal("resolving damage", zap.Error(err))
		}
		writeDamage(os.Stdout, results, net)
	}

	logger.Info("resolve complete", zap.Duration("elapsed", time.Since(start)))
}

// applyConditions parses "id[:duration],..." and applies each condition.
// A missing duration means permanent (-1).
func applyConditions(c *character.Character, reg *condition.Registry, list string) error {
	if list == "" {
		return nil
	}
	for _, item := range strings.Split(list, ",") {
		id, durStr, hasDur := strings.Cut(strings.TrimSpace(item), ":")
		def, ok := reg.Get(id)
		if !ok {
			return fmt.Errorf("unknown condition %q", id)
		}
		duration := -1
		if hasDur {
			d, err := strconv.Atoi(durStr)
			if err != nil {
				return fmt.Errorf("condition %q: bad duration %q: %w", id, durStr, err)
			}
			duration = d
		}
		if err := c.Conditions.Apply(def, 1, duration); err != nil {
			return err
		}
	}
	return nil
}

func parseHits(list string) ([]combat.Hit, error) {
	var hits []combat.Hit
	for _, item := range strings.Split(list, ",") {
		h, err := combat.ParseHit(strings.TrimSpace(item))
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func writeTable(w io.Writer, c *character.Character, snap map[resistance.DamageType]resistance.Snapshot) {
	fmt.Fprintf(w, "%s (level %d)\n", c.Name, c.Level)
	fmt.Fprintf(w, "%-9s %-8s %-8s %-10s %s\n", "type", "base", "current", "multiplier", "modified")
	for _, d := range resistance.DamageTypes {
		st, _ := c.Resistances.Get(d)
		s := snap[d]
		fmt.Fprintf(w, "%-9s %-8s %-8s %-10g %t\n",
			d, resistance.Level(st.Base()), s.EffectiveValue, resistance.MultiplierFor(s.EffectiveValue), s.IsModified)
	}
}

func writeDamage(w io.Writer, results []combat.DamageResult, net int) {
	for _, r := range results {
		verb := "takes"
		if r.Absorbed() {
			verb = "absorbs"
		}
		fmt.Fprintf(w, "%s %d -> %s %d (x%g)\n", r.Type, r.Amount, verb, abs(r.Final), r.Multiplier)
	}
	fmt.Fprintf(w, "net hp change: %+d\n", net)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
