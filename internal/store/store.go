// Package store persists assembled country records to sqlite and serves
// the query surface used by the HTTP API.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	_ "modernc.org/sqlite"

	"github.com/PetruGlt/StatesOfTheWorld/internal/scrape"
)

// Store wraps the sqlite database holding countries, languages, and borders.
type Store struct {
	db        *sql.DB
	sanitizer *bluemonday.Policy
}

// CountrySummary is one row of a top-N ranking.
type CountrySummary struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Stats aggregates the whole table.
type Stats struct {
	Countries       int     `json:"countries"`
	TotalPopulation int64   `json:"total_population"`
	AverageDensity  float64 `json:"average_density"`
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{
		db: db,
		// Free-text fields are stripped of any markup remnants before insert
		sanitizer: bluemonday.StrictPolicy(),
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS countries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		capital TEXT,
		population INTEGER,
		area_km2 REAL,
		density REAL,
		timezone TEXT,
		political_system TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS country_languages (
		country_id INTEGER,
		language_id INTEGER,
		FOREIGN KEY (country_id) REFERENCES countries (id),
		FOREIGN KEY (language_id) REFERENCES languages (id),
		PRIMARY KEY (country_id, language_id)
	)`,
	`CREATE TABLE IF NOT EXISTS borders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		country_id INTEGER,
		neighbor_name TEXT,
		FOREIGN KEY (country_id) REFERENCES countries (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_country_name ON countries(name)`,
	`CREATE INDEX IF NOT EXISTS idx_population ON countries(population)`,
	`CREATE INDEX IF NOT EXISTS idx_density ON countries(density)`,
	`CREATE INDEX IF NOT EXISTS idx_language_name ON languages(name)`,
	`CREATE INDEX IF NOT EXISTS idx_neighbor_name ON borders(neighbor_name)`,
}

func (s *Store) init() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// SaveAll inserts the batch output in one transaction: the country rows,
// the normalized language associations, and the border rows. Countries
// already present are left untouched (name is the natural key).
func (s *Store) SaveAll(records []scrape.CountryRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		if err := s.saveOne(tx, rec); err != nil {
			return fmt.Errorf("save %q: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

func (s *Store) saveOne(tx *sql.Tx, rec scrape.CountryRecord) error {
	res, err := tx.Exec(`
		INSERT OR IGNORE INTO countries
		(name, capital, population, area_km2, density, timezone, political_system)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Name,
		s.cleanText(rec.Capital),
		nullInt(rec.Population),
		nullFloat(rec.Area),
		nullFloat(rec.Density),
		s.cleanText(rec.Timezone),
		s.cleanText(rec.PoliticalSystem),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Country was already stored; its associations stand as they are
		return nil
	}

	var countryID int64
	if err := tx.QueryRow(`SELECT id FROM countries WHERE name = ?`, rec.Name).Scan(&countryID); err != nil {
		return err
	}

	for _, lang := range splitLanguages(rec.Language) {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO languages (name) VALUES (?)`, lang); err != nil {
			return err
		}
		var langID int64
		if err := tx.QueryRow(`SELECT id FROM languages WHERE name = ?`, lang).Scan(&langID); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO country_languages (country_id, language_id) VALUES (?, ?)`,
			countryID, langID,
		); err != nil {
			return err
		}
	}

	for _, neighbor := range rec.Neighbors {
		if _, err := tx.Exec(
			`INSERT INTO borders (country_id, neighbor_name) VALUES (?, ?)`,
			countryID, neighbor,
		); err != nil {
			return err
		}
	}

	return nil
}

// All returns every stored record ordered by name.
func (s *Store) All() ([]scrape.CountryRecord, error) {
	return s.query(`SELECT id, name, capital, population, area_km2, density, timezone, political_system
		FROM countries ORDER BY name`)
}

// ByName returns the record for an exact country name.
func (s *Store) ByName(name string) (*scrape.CountryRecord, error) {
	records, err := s.query(`SELECT id, name, capital, population, area_km2, density, timezone, political_system
		FROM countries WHERE name = ?`, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// SearchFilter narrows a Search call; empty fields are ignored and the
// present ones are AND-combined.
type SearchFilter struct {
	Language string
	Neighbor string
	Name     string
}

// Search returns records matching the filter, ordered by name.
func (s *Store) Search(filter SearchFilter) ([]scrape.CountryRecord, error) {
	q := `SELECT DISTINCT c.id, c.name, c.capital, c.population, c.area_km2, c.density, c.timezone, c.political_system
		FROM countries c`
	var conds []string
	var args []any

	if filter.Language != "" {
		q += ` JOIN country_languages cl ON cl.country_id = c.id
			JOIN languages l ON l.id = cl.language_id`
		conds = append(conds, "l.name = ?")
		args = append(args, filter.Language)
	}
	if filter.Neighbor != "" {
		q += ` JOIN borders b ON b.country_id = c.id`
		conds = append(conds, "b.neighbor_name = ?")
		args = append(args, filter.Neighbor)
	}
	if filter.Name != "" {
		conds = append(conds, "c.name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}

	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY c.name"

	return s.query(q, args...)
}

// TopByPopulation returns the n most populated countries.
func (s *Store) TopByPopulation(n int) ([]CountrySummary, error) {
	return s.ranking(`SELECT name, population FROM countries
		WHERE population IS NOT NULL ORDER BY population DESC LIMIT ?`, n)
}

// TopByDensity returns the n densest countries.
func (s *Store) TopByDensity(n int) ([]CountrySummary, error) {
	return s.ranking(`SELECT name, density FROM countries
		WHERE density IS NOT NULL ORDER BY density DESC LIMIT ?`, n)
}

// Stats returns whole-table aggregates.
func (s *Store) Stats() (*Stats, error) {
	var st Stats
	var totalPop sql.NullInt64
	var avgDensity sql.NullFloat64

	err := s.db.QueryRow(`SELECT COUNT(*), SUM(population), AVG(density) FROM countries`).
		Scan(&st.Countries, &totalPop, &avgDensity)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	st.TotalPopulation = totalPop.Int64
	st.AverageDensity = avgDensity.Float64
	return &st, nil
}

// MissingCritical lists countries stored without population or area.
func (s *Store) MissingCritical() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM countries
		WHERE population IS NULL OR area_km2 IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) ranking(q string, n int) ([]CountrySummary, error) {
	rows, err := s.db.Query(q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountrySummary
	for rows.Next() {
		var cs CountrySummary
		if err := rows.Scan(&cs.Name, &cs.Value); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// query runs a countries projection and rehydrates full records, joining
// languages back into the comma-joined form and borders into the slice.
func (s *Store) query(q string, args ...any) ([]scrape.CountryRecord, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type rowWithID struct {
		id  int64
		rec scrape.CountryRecord
	}
	var loaded []rowWithID

	for rows.Next() {
		var (
			id         int64
			rec        scrape.CountryRecord
			capital    sql.NullString
			population sql.NullInt64
			area       sql.NullFloat64
			density    sql.NullFloat64
			timezone   sql.NullString
			political  sql.NullString
		)
		if err := rows.Scan(&id, &rec.Name, &capital, &population, &area, &density, &timezone, &political); err != nil {
			return nil, err
		}
		rec.Capital = capital.String
		rec.Timezone = timezone.String
		rec.PoliticalSystem = political.String
		if population.Valid {
			v := population.Int64
			rec.Population = &v
		}
		if area.Valid {
			v := area.Float64
			rec.Area = &v
		}
		if density.Valid {
			v := density.Float64
			rec.Density = &v
		}
		rec.Neighbors = []string{}
		loaded = append(loaded, rowWithID{id: id, rec: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]scrape.CountryRecord, 0, len(loaded))
	for _, row := range loaded {
		langs, err := s.languagesFor(row.id)
		if err != nil {
			return nil, err
		}
		row.rec.Language = strings.Join(langs, ", ")

		neighbors, err := s.neighborsFor(row.id)
		if err != nil {
			return nil, err
		}
		row.rec.Neighbors = neighbors

		records = append(records, row.rec)
	}
	return records, nil
}

func (s *Store) languagesFor(countryID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT l.name FROM languages l
		JOIN country_languages cl ON cl.language_id = l.id
		WHERE cl.country_id = ? ORDER BY l.name`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		langs = append(langs, name)
	}
	return langs, rows.Err()
}

func (s *Store) neighborsFor(countryID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT neighbor_name FROM borders WHERE country_id = ? ORDER BY id`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	neighbors := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		neighbors = append(neighbors, name)
	}
	return neighbors, rows.Err()
}

// cleanText strips markup remnants and maps empty strings to NULL.
func (s *Store) cleanText(text string) any {
	if text == "" {
		return nil
	}
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// splitLanguages breaks the assembler's comma-joined language string back
// into individual names for the normalized association table.
func splitLanguages(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}
