package industry_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t testing.TB, opts ...industry.Option) *industry.Classifier {
	t.Helper()
	tax, err := industry.DefaultTaxonomy()
	require.NoError(t, err)
	return industry.New(tax, opts...)
}

func fixtureClassifier(t *testing.T, categories []industry.Category, general []industry.GeneralCategory) *industry.Classifier {
	t.Helper()
	tax, err := industry.NewTaxonomy(categories, general)
	require.NoError(t, err)
	return industry.New(tax)
}

func TestClassify_EmptyInputIsOther(t *testing.T) {
	c := defaultClassifier(t)

	got := c.Classify(industry.Input{})

	assert.Equal(t, industry.OtherLabel, got.Label)
	assert.Equal(t, industry.StageFallback, got.Stage)
	assert.Zero(t, got.Score)
	assert.Zero(t, got.Confidence)
	assert.Empty(t, got.Matches)
}

func TestClassify_CloudComputingScenario(t *testing.T) {
	c := defaultClassifier(t)

	got := c.Classify(industry.Input{
		Description: "We provide cloud computing and cloud infrastructure services to enterprises",
	})

	assert.Equal(t, "Cloud Services", got.Label)
	assert.Equal(t, industry.StageTaxonomy, got.Stage)
	assert.GreaterOrEqual(t, got.Score, 30)
	assert.Equal(t, 100, got.Confidence)
	assert.Equal(t, []industry.Match{
		{Kind: industry.MatchPrimary, Term: "cloud computing"},
		{Kind: industry.MatchPrimary, Term: "cloud infrastructure"},
		{Kind: industry.MatchSecondary, Term: "cloud"},
		{Kind: industry.MatchContext, Term: "infrastructure"},
	}, got.Matches)
}

func TestClassify_DescriptionOutweighsNameOnlyMatch(t *testing.T) {
	c := defaultClassifier(t)
	in := industry.Input{
		Domain:      "acme.com",
		Name:        "Acme Legal Services",
		Description: "award winning leading provider of software solutions",
	}

	got := c.Classify(in)
	assert.Equal(t, "Software Development", got.Label)
	assert.GreaterOrEqual(t, got.Score, 15)

	for _, s := range c.Scores(in) {
		assert.NotEqual(t, "Legal Services", s.Label, "name-only legal match should be penalized to zero")
	}
}

func TestClassify_SinglePrimaryPhrase(t *testing.T) {
	c := fixtureClassifier(t, []industry.Category{
		{Label: "Digital Marketing", Primary: []string{"digital marketing"}},
	}, nil)

	got := c.Classify(industry.Input{Description: "We offer digital marketing"})

	assert.Equal(t, "Digital Marketing", got.Label)
	assert.Equal(t, 15, got.Score)
	assert.Equal(t, 75, got.Confidence)
}

func TestClassify_SingleWordPrimaryHasNoBonus(t *testing.T) {
	c := fixtureClassifier(t, []industry.Category{
		{Label: "Biotech", Primary: []string{"biotech"}},
	}, nil)

	got := c.Classify(industry.Input{Description: "a biotech startup"})

	assert.Equal(t, 10, got.Score)
	assert.Equal(t, 50, got.Confidence)
}

func TestClassify_NameOnlyMatchIsPenalized(t *testing.T) {
	c := fixtureClassifier(t, []industry.Category{
		{Label: "Consulting", Secondary: []string{"consulting"}},
	}, nil)
	in := industry.Input{Domain: "example.org", Name: "Apple Consulting"}

	assert.Empty(t, c.Scores(in))

	got := c.Classify(in)
	assert.Equal(t, industry.OtherLabel, got.Label)
}

func TestClassify_TieGoesToEarlierCategory(t *testing.T) {
	categories := []industry.Category{
		{Label: "First", Primary: []string{"shared phrase"}},
		{Label: "Second", Primary: []string{"shared phrase"}},
	}
	c := fixtureClassifier(t, categories, nil)

	got := c.Classify(industry.Input{Description: "a shared phrase here"})
	assert.Equal(t, "First", got.Label)

	categories[0], categories[1] = categories[1], categories[0]
	c = fixtureClassifier(t, categories, nil)
	assert.Equal(t, "Second", c.Classify(industry.Input{Description: "a shared phrase here"}).Label)
}

func TestClassify_ThresholdBoundary(t *testing.T) {
	c := fixtureClassifier(t, []industry.Category{
		{
			Label:     "Widgets",
			Secondary: []string{"alpha", "gamma", "epsilon"},
			Context:   []string{"beta"},
		},
	}, nil)

	tests := []struct {
		name      string
		in        industry.Input
		wantScore int
		wantLabel string
	}{
		{
			// secondary 5 + context 3
			name:      "score 8 classifies",
			in:        industry.Input{Description: "alpha beta"},
			wantScore: 8,
			wantLabel: "Widgets",
		},
		{
			// secondary 5 + two name-only 2 + context 3 - penalty 5
			name:      "score 7 falls through",
			in:        industry.Input{Name: "gamma epsilon", Description: "alpha beta"},
			wantScore: 7,
			wantLabel: industry.OtherLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := c.Scores(tt.in)
			require.Len(t, scores, 1)
			assert.Equal(t, tt.wantScore, scores[0].Score)
			assert.Equal(t, tt.wantLabel, c.Classify(tt.in).Label)
		})
	}
}

func TestClassify_DefaultTaxonomyBoundary(t *testing.T) {
	c := defaultClassifier(t)

	got := c.Classify(industry.Input{Description: "a firewall with threat intel"})

	assert.Equal(t, "Cybersecurity", got.Label)
	assert.Equal(t, 8, got.Score)
	assert.Equal(t, 40, got.Confidence)
}

func TestClassify_ContextTermsCountOncePerTerm(t *testing.T) {
	c := fixtureClassifier(t, []industry.Category{
		{Label: "Widgets", Secondary: []string{"widget"}, Context: []string{"gear"}},
	}, nil)

	scores := c.Scores(industry.Input{Description: "widget gear gear gear"})

	require.Len(t, scores, 1)
	assert.Equal(t, 8, scores[0].Score)
}

func TestClassify_GeneralStageReturnsFirstQualifying(t *testing.T) {
	c := defaultClassifier(t)

	// Financial Services would score 9 here but Technology qualifies first with 6.
	got := c.Classify(industry.Input{Description: "tech and finance, financial money, software"})

	assert.Equal(t, "Technology", got.Label)
	assert.Equal(t, industry.StageGeneral, got.Stage)
	assert.Equal(t, 6, got.Score)
	assert.Equal(t, 30, got.Confidence)
	assert.Equal(t, []industry.Match{
		{Kind: industry.MatchKeyword, Term: "tech"},
		{Kind: industry.MatchKeyword, Term: "software"},
	}, got.Matches)
}

func TestClassify_GeneralStageNameWeight(t *testing.T) {
	c := fixtureClassifier(t,
		[]industry.Category{{Label: "Unused", Primary: []string{"never matches anything"}}},
		[]industry.GeneralCategory{{Label: "Health", Keywords: []string{"health", "care", "clinic"}}},
	)

	tests := []struct {
		name  string
		in    industry.Input
		label string
	}{
		// 3 + 1 + 1
		{name: "description plus name", in: industry.Input{Name: "care clinic", Description: "health"}, label: "Health"},
		// 1 + 1 + 1
		{name: "name only", in: industry.Input{Name: "health care clinic"}, label: industry.OtherLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, c.Classify(tt.in).Label)
		})
	}
}

func TestClassify_Options(t *testing.T) {
	in := industry.Input{Description: "we offer digital marketing"}

	assert.Equal(t, "Digital Marketing", defaultClassifier(t).Classify(in).Label)
	assert.Equal(t, industry.OtherLabel, defaultClassifier(t, industry.WithMinScore(20)).Classify(in).Label)

	// Thresholds below 1 are ignored.
	assert.Equal(t, "Digital Marketing", defaultClassifier(t, industry.WithMinScore(0)).Classify(in).Label)

	general := industry.Input{Description: "a professional service firm"}
	assert.Equal(t, "Professional Services", defaultClassifier(t).Classify(general).Label)
	assert.Equal(t, industry.OtherLabel, defaultClassifier(t, industry.WithGeneralMinScore(7)).Classify(general).Label)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := defaultClassifier(t)

	lower := c.Classify(industry.Input{Description: "cloud computing"})
	upper := c.Classify(industry.Input{Description: "CLOUD COMPUTING"})

	assert.Equal(t, lower, upper)
}

func TestClassify_Deterministic(t *testing.T) {
	c := defaultClassifier(t)
	in := industry.Input{
		Domain:      "brightpath.io",
		Name:        "BrightPath Analytics",
		Description: "We build business intelligence dashboards and machine learning models for retailers",
	}

	first := c.Classify(in)
	for range 20 {
		assert.Equal(t, first, c.Classify(in))
	}
}

func TestClassify_ConcurrentUse(t *testing.T) {
	c := defaultClassifier(t)
	inputs := referenceInputs()
	want := make([]industry.Result, len(inputs))
	for i, in := range inputs {
		want[i] = c.Classify(in)
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range inputs {
				idx := (i + w) % len(inputs)
				assert.Equal(t, want[idx], c.Classify(inputs[idx]))
			}
		}(w)
	}
	wg.Wait()
}

func TestExplain_IncludesCandidates(t *testing.T) {
	c := defaultClassifier(t)

	exp := c.Explain(industry.Input{
		Description: "we provide software development and web development for healthcare clinics",
	})

	assert.Equal(t, "Software Development", exp.Result.Label)
	assert.Equal(t, 35, exp.Result.Score)
	require.Len(t, exp.Candidates, 2)
	assert.Equal(t, "Software Development", exp.Candidates[0].Label)
	assert.Equal(t, "Healthcare Services", exp.Candidates[1].Label)
	assert.Equal(t, 10, exp.Candidates[1].Score)
}

func TestNew_NilTaxonomy(t *testing.T) {
	c := industry.New(nil)

	assert.Equal(t, industry.OtherLabel, c.Classify(industry.Input{Description: "cloud computing"}).Label)
}

func TestWithTelemetry_RecordsClassifications(t *testing.T) {
	provider := telemetry.NewProvider()
	c := defaultClassifier(t, industry.WithTelemetry(provider))

	c.Classify(industry.Input{Description: "cloud computing"})
	c.Classify(industry.Input{})

	assert.InDelta(t, 1, testutil.ToFloat64(provider.Metrics.Classifications.WithLabelValues("Cloud Services", "taxonomy")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(provider.Metrics.Classifications.WithLabelValues("Other", "fallback")), 0)
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		conf int
		want string
	}{
		{100, industry.LevelHigh},
		{80, industry.LevelHigh},
		{79, industry.LevelMedium},
		{60, industry.LevelMedium},
		{40, industry.LevelLow},
		{39, industry.LevelVeryLow},
		{5, industry.LevelVeryLow},
		{0, industry.LevelUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("conf_%d", tt.conf), func(t *testing.T) {
			assert.Equal(t, tt.want, industry.ConfidenceLevel(tt.conf))
		})
	}
}

// referenceScore scores a category with plain substring scans.
func referenceScore(c industry.Category, primary, secondary string) (int, []industry.Match) {
	var (
		score    int
		matches  []industry.Match
		hasPrim  bool
		nameOnly bool
		ctx      int
	)
	for _, p := range c.Primary {
		if strings.Contains(primary, p) {
			score += 10
			if strings.Contains(p, " ") {
				score += 5
			}
			hasPrim = true
			matches = append(matches, industry.Match{Kind: industry.MatchPrimary, Term: p})
		}
	}
	for _, s := range c.Secondary {
		if strings.Contains(primary, s) {
			score += 5
			matches = append(matches, industry.Match{Kind: industry.MatchSecondary, Term: s})
		} else if strings.Contains(secondary, s) {
			score += 2
			nameOnly = true
			matches = append(matches, industry.Match{Kind: industry.MatchName, Term: s})
		}
	}
	for _, k := range c.Context {
		if strings.Contains(primary, k) {
			ctx++
			matches = append(matches, industry.Match{Kind: industry.MatchContext, Term: k})
		}
	}
	score += 3 * ctx
	if nameOnly && !hasPrim {
		score = max(0, score-5)
	}
	return score, matches
}

func referenceInputs() []industry.Input {
	return []industry.Input{
		{},
		{Description: "we provide cloud computing and cloud infrastructure services to enterprises"},
		{Domain: "acme.com", Name: "Acme Legal Services", Description: "award winning leading provider of software solutions"},
		{Domain: "northwind.co.uk", Name: "Northwind Logistics", Description: "Freight forwarding and last mile delivery across Europe with a modern fleet management platform"},
		{Name: "Helix Bio", Description: "A life sciences company focused on gene therapy research in our laboratory"},
		{Name: "Pay Fast", Description: "digital payments and payment processing for online checkout, wallet and lending"},
		{Domain: "legalbeagle.law", Name: "Legal Beagle Attorneys"},
		{Description: "We are a management consulting firm helping clients with strategy and digital transformation"},
		{Description: "Renewable energy developer building solar energy and wind energy projects connected to the grid"},
		{Description: "tech and finance, financial money, software"},
		{Description: "health care for every patient"},
		{Name: "Sunny Hotel Group", Description: "travel agency and tour operator for guests seeking new destinations"},
		{Description: "An award-winning creative agency running ad campaigns and programmatic advertising for brands"},
		{Description: "ÜBER Cloud Computing GmbH bietet Software-Lösungen"},
	}
}

func TestScores_MatchNaiveSubstringReference(t *testing.T) {
	tax, err := industry.DefaultTaxonomy()
	require.NoError(t, err)
	c := industry.New(tax)

	for i, in := range referenceInputs() {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			primary := strings.ToLower(in.Description)
			secondary := strings.ToLower(in.Domain) + " " + strings.ToLower(in.Name)

			var want []industry.CategoryScore
			for _, cat := range tax.Categories() {
				score, matches := referenceScore(cat, primary, secondary)
				if score > 0 {
					want = append(want, industry.CategoryScore{Label: cat.Label, Score: score, Matches: matches})
				}
			}

			assert.Equal(t, want, c.Scores(in))
		})
	}
}

func BenchmarkClassify(b *testing.B) {
	c := defaultClassifier(b)
	in := industry.Input{
		Domain:      "northwind.co.uk",
		Name:        "Northwind Logistics",
		Description: strings.Repeat("Freight forwarding and last mile delivery with fleet management software. ", 8),
	}

	b.ResetTimer()
	for b.Loop() {
		_ = c.Classify(in)
	}
}
