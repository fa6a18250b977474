package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS presets (
    id                       TEXT PRIMARY KEY,
    name                     TEXT NOT NULL UNIQUE,
    starting_balance_cents   INTEGER NOT NULL,
    horizon_years            INTEGER NOT NULL,
    annual_contribution_cents INTEGER NOT NULL,
    contribution_policy      TEXT NOT NULL,
    contribution_growth_rate REAL NOT NULL,
    inflation_rate           REAL NOT NULL,
    interest_rate            REAL NOT NULL,
    created_at               TEXT NOT NULL,
    updated_at               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS preset_projects (
    preset_id            TEXT NOT NULL REFERENCES presets(id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    base_cost_cents      INTEGER NOT NULL,
    scheduled_year       INTEGER NOT NULL,
    PRIMARY KEY (preset_id, position)
);

CREATE INDEX IF NOT EXISTS idx_presets_name ON presets(name);
`
