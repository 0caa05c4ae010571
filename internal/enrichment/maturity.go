package enrichment

import (
	"time"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/termmatch"
)

// Maturity labels.
const (
	MaturityStartup     = "startup"
	MaturityGrowth      = "growth"
	MaturityEstablished = "established"
	MaturityUnknown     = "unknown"
)

const (
	startupIndicatorWeight     = 2
	establishedIndicatorWeight = 2
	growthIndicatorWeight      = 1
)

var startupIndicators = []string{
	"startup", "founded", "new", "emerging", "innovative", "disruptive",
	"young company", "fast-growing", "early stage", "seed funding",
	"venture capital", "series a", "series b",
}

var establishedIndicators = []string{
	"established", "leading", "years of experience", "decades", "proven track record",
	"industry leader", "market leader", "fortune 500", "public company",
	"global presence", "worldwide", "international", "heritage", "legacy",
}

var growthIndicators = []string{
	"growing", "expanding", "scaling", "growth", "rapidly expanding",
	"market expansion", "new markets", "acquisition", "merger",
}

// MaturityAnalyzer classifies a company as startup, growth or established.
type MaturityAnalyzer struct {
	startup     *termmatch.Matcher
	established *termmatch.Matcher
	growth      *termmatch.Matcher
	now         func() time.Time
}

// NewMaturityAnalyzer compiles the indicator lists. now supplies the
// reference date for company age; nil means time.Now.
func NewMaturityAnalyzer(now func() time.Time) *MaturityAnalyzer {
	if now == nil {
		now = time.Now
	}
	return &MaturityAnalyzer{
		startup:     termmatch.New(startupIndicators),
		established: termmatch.New(establishedIndicators),
		growth:      termmatch.New(growthIndicators),
		now:         now,
	}
}

// Analyze combines indicator phrases in text with the age derived from
// founded. Empty text is always unknown. Ties prefer startup, then
// established.
func (a *MaturityAnalyzer) Analyze(text, founded string) string {
	lower := toLower(text)
	if lower == "" {
		return MaturityUnknown
	}

	startup := startupIndicatorWeight * a.startup.Find(lower).Count()
	established := establishedIndicatorWeight * a.established.Find(lower).Count()
	growth := growthIndicatorWeight * a.growth.Find(lower).Count()

	if year, ok := domain.ParseYear(founded); ok {
		age := a.now().Year() - year
		switch {
		case age < 3:
			startup += 3
		case age < 7:
			startup++
			growth += 2
		case age < 15:
			growth += 2
		default:
			established += 3
		}
	}

	best := max(startup, established, growth)
	switch {
	case best == 0:
		return MaturityUnknown
	case startup == best:
		return MaturityStartup
	case established == best:
		return MaturityEstablished
	default:
		return MaturityGrowth
	}
}
