// Package store persists named scenario presets in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// ErrPresetNotFound is returned when no preset has the requested name.
var ErrPresetNotFound = errors.New("preset not found")

// Store provides SQLite-backed preset storage.
type Store struct {
	db *sql.DB
}

// Preset is a saved, named set of scenario parameters.
type Preset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Params    scenario.Params `json:"params"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Open opens or creates the preset database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening preset db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the preset database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SavePreset stores p under name, replacing any preset of the same name.
// The preset keeps its ID and creation time across updates. Parameters are
// validated first so an unusable preset is never written.
func (s *Store) SavePreset(name string, p scenario.Params) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, errors.New("preset name must not be empty")
	}
	if _, err := scenario.New(p); err != nil {
		return Preset{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Preset{}, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Truncate(time.Second)
	preset := Preset{Name: name, Params: p, CreatedAt: now, UpdatedAt: now}

	var createdStr string
	err = tx.QueryRow("SELECT id, created_at FROM presets WHERE name = ?", name).Scan(&preset.ID, &createdStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		preset.ID = uuid.NewString()
	case err != nil:
		return Preset{}, err
	default:
		preset.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	}

	_, err = tx.Exec(`INSERT INTO presets
		(id, name, starting_balance_cents, horizon_years, annual_contribution_cents,
		 contribution_policy, contribution_growth_rate, inflation_rate, interest_rate,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		 starting_balance_cents = excluded.starting_balance_cents,
		 horizon_years = excluded.horizon_years,
		 annual_contribution_cents = excluded.annual_contribution_cents,
		 contribution_policy = excluded.contribution_policy,
		 contribution_growth_rate = excluded.contribution_growth_rate,
		 inflation_rate = excluded.inflation_rate,
		 interest_rate = excluded.interest_rate,
		 updated_at = excluded.updated_at`,
		preset.ID, name, p.StartingBalance.Cents(), p.HorizonYears, p.AnnualContribution.Cents(),
		string(p.ContributionPolicy), p.ContributionGrowthRate, p.InflationRate, p.InterestRate,
		preset.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return Preset{}, err
	}

	if _, err := tx.Exec("DELETE FROM preset_projects WHERE preset_id = ?", preset.ID); err != nil {
		return Preset{}, err
	}
	for i, pp := range p.Projects {
		_, err = tx.Exec(`INSERT INTO preset_projects
			(preset_id, position, name, base_cost_cents, scheduled_year)
			VALUES (?, ?, ?, ?, ?)`,
			preset.ID, i, strings.TrimSpace(pp.Name), pp.BaseCost.Cents(), pp.ScheduledYear,
		)
		if err != nil {
			return Preset{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// LoadPreset reads the named preset with its projects in saved order.
func (s *Store) LoadPreset(name string) (Preset, error) {
	row := s.db.QueryRow(`SELECT
		id, name, starting_balance_cents, horizon_years, annual_contribution_cents,
		contribution_policy, contribution_growth_rate, inflation_rate, interest_rate,
		created_at, updated_at
		FROM presets WHERE name = ?`, strings.TrimSpace(name))

	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	if err != nil {
		return Preset{}, err
	}

	rows, err := s.db.Query(`SELECT name, base_cost_cents, scheduled_year
		FROM preset_projects WHERE preset_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return Preset{}, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var pp scenario.ProjectParams
		var cents int64
		if err := rows.Scan(&pp.Name, &cents, &pp.ScheduledYear); err != nil {
			return Preset{}, err
		}
		pp.BaseCost = money.FromCents(cents)
		p.Params.Projects = append(p.Params.Projects, pp)
	}
	return p, rows.Err()
}

// ListPresets returns all presets ordered by name, without their projects.
func (s *Store) ListPresets() ([]Preset, error) {
	rows, err := s.db.Query(`SELECT
		id, name, starting_balance_cents, horizon_years, annual_contribution_cents,
		contribution_policy, contribution_growth_rate, inflation_rate, interest_rate,
		created_at, updated_at
		FROM presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var presets []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// DeletePreset removes the named preset and its projects.
func (s *Store) DeletePreset(name string) error {
	res, err := s.db.Exec("DELETE FROM presets WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return nil
}

// PresetCount returns the number of saved presets.
func (s *Store) PresetCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM presets").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(r rowScanner) (Preset, error) {
	var (
		p                      Preset
		balance, contribution  int64
		policy                 string
		createdStr, updatedStr string
	)
	err := r.Scan(
		&p.ID, &p.Name, &balance, &p.Params.HorizonYears, &contribution,
		&policy, &p.Params.ContributionGrowthRate, &p.Params.InflationRate, &p.Params.InterestRate,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return Preset{}, err
	}
	p.Params.StartingBalance = money.FromCents(balance)
	p.Params.AnnualContribution = money.FromCents(contribution)
	p.Params.ContributionPolicy = scenario.ContributionPolicy(policy)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return p, nil
}
