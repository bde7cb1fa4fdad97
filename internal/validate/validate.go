// Package validate runs post-load integrity checks over the stored data.
package validate

import (
	"fmt"
	"strings"

	"github.com/PetruGlt/StatesOfTheWorld/internal/store"
)

// Report summarizes one validation pass.
type Report struct {
	Missing         []string `json:"missing_critical"`
	Countries       int      `json:"countries"`
	TotalPopulation int64    `json:"total_population"`
	AverageDensity  float64  `json:"average_density"`
}

// Passed reports whether every country carries population and area data.
func (r *Report) Passed() bool {
	return len(r.Missing) == 0
}

// String renders the report for the CLI.
func (r *Report) String() string {
	var b strings.Builder

	b.WriteString("[1] Integrity check\n")
	if r.Passed() {
		b.WriteString("    Passed: all countries have population and area data.\n")
	} else {
		fmt.Fprintf(&b, "    Failed: %d countries with missing data:\n", len(r.Missing))
		for _, name := range r.Missing {
			fmt.Fprintf(&b, "    - %s\n", name)
		}
	}

	b.WriteString("[2] General stats\n")
	fmt.Fprintf(&b, "    - Countries stored: %d\n", r.Countries)
	fmt.Fprintf(&b, "    - Total population: %d\n", r.TotalPopulation)
	fmt.Fprintf(&b, "    - Average density: %.2f people/km2\n", r.AverageDensity)

	return b.String()
}

// Run executes all checks against the store.
func Run(s *store.Store) (*Report, error) {
	missing, err := s.MissingCritical()
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}

	stats, err := s.Stats()
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	return &Report{
		Missing:         missing,
		Countries:       stats.Countries,
		TotalPopulation: stats.TotalPopulation,
		AverageDensity:  stats.AverageDensity,
	}, nil
}
