package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PetruGlt/StatesOfTheWorld/internal/logging"
	"github.com/PetruGlt/StatesOfTheWorld/internal/monitoring"
)

// stubFetcher serves canned pages; missing paths fail like the network did.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Get(_ context.Context, path string) (string, error) {
	body, ok := f.pages[path]
	if !ok {
		return "", errors.New("connection refused")
	}
	return body, nil
}

const twoEntityCatalog = `
<html><body>
<table class="wikitable">
	<tr><th>Common and formal names</th><th>Membership within the UN System</th></tr>
	<tr><td><a href="/wiki/Romania">Romania</a></td><td>UN member</td></tr>
	<tr><td><a href="/wiki/Atlantis">Atlantis</a></td><td>UN member</td></tr>
</table>
</body></html>`

func TestPipelineRun(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		CatalogPath:      twoEntityCatalog,
		NeighborsPath:    bordersPage,
		"/wiki/Romania":  countryPage,
		// /wiki/Atlantis is unreachable: transport failure, skipped
	}}

	p := NewPipeline(fetcher, logging.NewNop(), monitoring.NewMetrics())

	records, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Romania", records[0].Name)
	// Neighbor join came from the borders fixture
	assert.ElementsMatch(t, []string{"Bulgaria", "Hungary", "Ukraine"}, records[0].Neighbors)
}

func TestPipelineRunNeighborPageDown(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		CatalogPath:     twoEntityCatalog,
		"/wiki/Romania": countryPage,
	}}

	p := NewPipeline(fetcher, logging.NewNop(), nil)

	records, err := p.Run(context.Background())
	require.NoError(t, err)

	// Borders page failure degrades to an empty neighbor map
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Neighbors)
}

func TestPipelineRunCatalogDown(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{}}

	p := NewPipeline(fetcher, logging.NewNop(), nil)

	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineRunSkipsNamelessEntities(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]string{
		CatalogPath: `
<html><body>
<table class="wikitable">
	<tr><th>Common and formal names</th><th>Membership within the UN System</th></tr>
	<tr><td><a href="/wiki/Nameless">Nameless</a></td><td>n/a</td></tr>
</table>
</body></html>`,
		NeighborsPath:   bordersPage,
		"/wiki/Nameless": `<html><body><table class="infobox"><tr><th>Capital</th><td>X</td></tr></table></body></html>`,
	}}

	p := NewPipeline(fetcher, logging.NewNop(), nil)

	records, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}
