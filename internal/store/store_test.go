package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetruGlt/StatesOfTheWorld/internal/scrape"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func testRecords() []scrape.CountryRecord {
	return []scrape.CountryRecord{
		{
			Name:            "Romania",
			Capital:         "Bucharest",
			Population:      i64(19_054_000),
			Area:            f64(238_398),
			Density:         f64(79.9),
			Neighbors:       []string{"Bulgaria", "Hungary", "Ukraine"},
			Language:        "Romanian",
			Timezone:        "UTC+2",
			PoliticalSystem: "Unitary, republic",
		},
		{
			Name:       "Moldova",
			Capital:    "Chișinău",
			Population: i64(2_512_800),
			Neighbors:  []string{"Romania", "Ukraine"},
			Language:   "Romanian, Russian",
			Timezone:   "UTC+2",
		},
		{
			Name:      "Monaco",
			Density:   f64(19_361),
			Neighbors: []string{"France"},
			Language:  "French",
		},
	}
}

func openSeeded(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "states.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.SaveAll(testRecords()))
	return s
}

func TestSaveAllAndByName(t *testing.T) {
	s := openSeeded(t)

	rec, err := s.ByName("Romania")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Romania", rec.Name)
	assert.Equal(t, "Bucharest", rec.Capital)
	assert.Equal(t, int64(19_054_000), *rec.Population)
	assert.Equal(t, 238_398.0, *rec.Area)
	assert.Equal(t, 79.9, *rec.Density)
	assert.Equal(t, "Romanian", rec.Language)
	assert.Equal(t, "UTC+2", rec.Timezone)
	assert.Equal(t, "Unitary, republic", rec.PoliticalSystem)
	assert.Equal(t, []string{"Bulgaria", "Hungary", "Ukraine"}, rec.Neighbors)
}

func TestByNameMissing(t *testing.T) {
	s := openSeeded(t)

	rec, err := s.ByName("Narnia")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAll(t *testing.T) {
	s := openSeeded(t)

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Ordered by name
	assert.Equal(t, "Moldova", records[0].Name)
	assert.Equal(t, "Monaco", records[1].Name)
	assert.Equal(t, "Romania", records[2].Name)

	// Nullable fields round-trip as nil
	assert.Nil(t, records[1].Population)
	assert.Nil(t, records[0].Area)
}

func TestSaveAllIdempotentOnName(t *testing.T) {
	s := openSeeded(t)

	// Re-saving the same batch must not duplicate countries
	require.NoError(t, s.SaveAll(testRecords()[:1]))

	records, err := s.All()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestSearchByLanguage(t *testing.T) {
	s := openSeeded(t)

	records, err := s.Search(SearchFilter{Language: "Romanian"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Moldova", records[0].Name)
	assert.Equal(t, "Romania", records[1].Name)
}

func TestSearchByNeighbor(t *testing.T) {
	s := openSeeded(t)

	records, err := s.Search(SearchFilter{Neighbor: "Ukraine"})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestSearchCombined(t *testing.T) {
	s := openSeeded(t)

	records, err := s.Search(SearchFilter{Language: "Romanian", Neighbor: "Bulgaria"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Romania", records[0].Name)
}

func TestSearchByNameFragment(t *testing.T) {
	s := openSeeded(t)

	records, err := s.Search(SearchFilter{Name: "Mo"})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestSearchNoFilter(t *testing.T) {
	s := openSeeded(t)

	records, err := s.Search(SearchFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestTopByPopulation(t *testing.T) {
	s := openSeeded(t)

	top, err := s.TopByPopulation(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Romania", top[0].Name)
	assert.Equal(t, float64(19_054_000), top[0].Value)
	assert.Equal(t, "Moldova", top[1].Name)
}

func TestTopByDensity(t *testing.T) {
	s := openSeeded(t)

	top, err := s.TopByDensity(1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Monaco", top[0].Name)
}

func TestStats(t *testing.T) {
	s := openSeeded(t)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Countries)
	assert.Equal(t, int64(19_054_000+2_512_800), st.TotalPopulation)
	assert.InDelta(t, (79.9+19_361)/2, st.AverageDensity, 1e-6)
}

func TestMissingCritical(t *testing.T) {
	s := openSeeded(t)

	names, err := s.MissingCritical()
	require.NoError(t, err)
	assert.Equal(t, []string{"Moldova", "Monaco"}, names)
}

func TestFreeTextSanitized(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "states.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.SaveAll([]scrape.CountryRecord{{
		Name:            "Testland",
		PoliticalSystem: "<b>Republic</b>",
	}}))

	rec, err := s.ByName("Testland")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Republic", rec.PoliticalSystem)
}
