package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/resistance/internal/game/character"
	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already in use.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character and resistance persistence.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts c and its resistance bases in one transaction.
//
// Precondition: c.Name must be non-empty; c.Resistances must be non-nil.
// Postcondition: c.ID, c.CreatedAt and c.UpdatedAt are set on success;
// ErrCharacterNameTaken on duplicate name.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Resistances.ValidateJoint(); err != nil {
		return nil, fmt.Errorf("creating character %q: %w", c.Name, err)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO characters (name, level)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Level,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}

	if err := upsertResistances(ctx, tx, c.ID, c.Resistances.Record()); err != nil {
		c.ID = 0
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		c.ID = 0
		return nil, fmt.Errorf("committing character: %w", err)
	}
	return c, nil
}

// GetByID loads a character and rebuilds its resistance set from the stored
// bases. Damage types without a row default to normal. Rows that fail joint
// validation are reported as a *resistance.ValidationError.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character with an empty condition set, or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c := &character.Character{Conditions: condition.NewActiveSet()}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, level, created_at, updated_at
		FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Level, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT damage_type, base FROM character_resistances
		WHERE character_id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying resistances: %w", err)
	}
	defer rows.Close()

	bases := make(resistance.Record, len(resistance.DamageTypes))
	for rows.Next() {
		var dt string
		var base int
		if err := rows.Scan(&dt, &base); err != nil {
			return nil, fmt.Errorf("scanning resistance row: %w", err)
		}
		bases[resistance.DamageType(dt)] = base
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading resistance rows: %w", err)
	}

	set, err := resistance.NewSet(bases)
	if err != nil {
		return nil, fmt.Errorf("loading resistances for character %d: %w", id, err)
	}
	c.Resistances = set
	return c, nil
}

// SaveResistances persists the base value of every member of set. Overrides
// are not stored.
//
// Precondition: id must be > 0; set must be non-nil.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no character has id.
func (r *CharacterRepository) SaveResistances(ctx context.Context, id int64, set *resistance.Set) error {
	if err := set.ValidateJoint(); err != nil {
		return fmt.Errorf("saving resistances: %w", err)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE characters SET updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	if err := upsertResistances(ctx, tx, id, set.Record()); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing resistances: %w", err)
	}
	return nil
}

// SaveLevel persists a character's level.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveLevel(ctx context.Context, id int64, level int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET level = $2, updated_at = NOW()
		WHERE id = $1`,
		id, level,
	)
	if err != nil {
		return fmt.Errorf("saving character level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

func upsertResistances(ctx context.Context, tx pgx.Tx, id int64, bases resistance.Record) error {
	batch := &pgx.Batch{}
	for _, dt := range resistance.DamageTypes {
		batch.Queue(`
			INSERT INTO character_resistances (character_id, damage_type, base)
			VALUES ($1, $2, $3)
			ON CONFLICT (character_id, damage_type) DO UPDATE SET base = EXCLUDED.base`,
			id, string(dt), bases[dt],
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range resistance.DamageTypes {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upserting resistances: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing resistance batch: %w", err)
	}
	return nil
}

func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
