package industry

import (
	"time"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/telemetry"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/termmatch"
)

// OtherLabel is returned when no category qualifies.
const OtherLabel = "Other"

// Default thresholds and the confidence scale.
const (
	DefaultMinScore        = 8
	DefaultGeneralMinScore = 5
	confidenceFactor       = 5
	maxConfidence          = 100
)

// Stage identifies which step of the cascade produced a result.
type Stage string

const (
	StageTaxonomy Stage = "taxonomy"
	StageGeneral  Stage = "general"
	StageFallback Stage = "fallback"
)

// Input is the text bundle describing one company. Empty fields are fine.
type Input struct {
	Domain      string `json:"domain"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Result is the outcome of classifying one Input.
type Result struct {
	Label      string  `json:"label"`
	Score      int     `json:"score"`
	Confidence int     `json:"confidence"`
	Stage      Stage   `json:"stage"`
	Matches    []Match `json:"matched_terms"`
}

// Explanation is a Result together with every taxonomy category that scored.
type Explanation struct {
	Result     Result          `json:"result"`
	Candidates []CategoryScore `json:"candidates"`
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMinScore sets the stage one acceptance threshold. Values below 1 are ignored.
func WithMinScore(n int) Option {
	return func(c *Classifier) {
		if n >= 1 {
			c.minScore = n
		}
	}
}

// WithGeneralMinScore sets the stage two acceptance threshold. Values below 1 are ignored.
func WithGeneralMinScore(n int) Option {
	return func(c *Classifier) {
		if n >= 1 {
			c.generalMinScore = n
		}
	}
}

// WithTelemetry records one metric sample per classification.
func WithTelemetry(p *telemetry.Provider) Option {
	return func(c *Classifier) {
		c.telemetry = p
	}
}

// Classifier scores inputs against a taxonomy. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	taxonomy        *Taxonomy
	matcher         *termmatch.Matcher
	categories      []compiledCategory
	general         []compiledGeneral
	minScore        int
	generalMinScore int
	telemetry       *telemetry.Provider
}

// New compiles the taxonomy into a Classifier. A nil taxonomy yields a
// classifier that always answers "Other".
func New(t *Taxonomy, opts ...Option) *Classifier {
	if t == nil {
		t = &Taxonomy{}
	}

	matcher, categories, general := compile(t)
	c := &Classifier{
		taxonomy:        t,
		matcher:         matcher,
		categories:      categories,
		general:         general,
		minScore:        DefaultMinScore,
		generalMinScore: DefaultGeneralMinScore,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Taxonomy returns the taxonomy the classifier was built from.
func (c *Classifier) Taxonomy() *Taxonomy {
	return c.taxonomy
}

// Classify runs the three stage cascade over in.
func (c *Classifier) Classify(in Input) Result {
	start := time.Now()
	result, _ := c.evaluate(in)
	c.telemetry.RecordClassification(result.Label, string(result.Stage), time.Since(start))
	return result
}

// Scores returns every taxonomy category with a positive stage one score,
// in declaration order.
func (c *Classifier) Scores(in Input) []CategoryScore {
	return c.scoreAll(c.scan(in))
}

// Explain classifies in and also returns the stage one candidates.
func (c *Classifier) Explain(in Input) Explanation {
	start := time.Now()
	result, candidates := c.evaluate(in)
	c.telemetry.RecordClassification(result.Label, string(result.Stage), time.Since(start))
	return Explanation{Result: result, Candidates: candidates}
}

func (c *Classifier) scan(in Input) texts {
	primary := normalizeText(in.Description)
	secondary := normalizeText(in.Domain) + " " + normalizeText(in.Name)
	return texts{
		primary:   c.matcher.Find(primary),
		secondary: c.matcher.Find(secondary),
	}
}

func (c *Classifier) scoreAll(in texts) []CategoryScore {
	var out []CategoryScore
	for i := range c.categories {
		score, matches := scoreCategory(&c.categories[i], in)
		if score > 0 {
			out = append(out, CategoryScore{Label: c.categories[i].label, Score: score, Matches: matches})
		}
	}
	return out
}

func (c *Classifier) evaluate(in Input) (Result, []CategoryScore) {
	scanned := c.scan(in)

	candidates := c.scoreAll(scanned)
	var best *CategoryScore
	for i := range candidates {
		// Strictly greater keeps the earliest declared category on ties.
		if best == nil || candidates[i].Score > best.Score {
			best = &candidates[i]
		}
	}
	if best != nil && best.Score >= c.minScore {
		return Result{
			Label:      best.Label,
			Score:      best.Score,
			Confidence: confidence(best.Score),
			Stage:      StageTaxonomy,
			Matches:    best.Matches,
		}, candidates
	}

	for i := range c.general {
		score, matches := scoreGeneral(&c.general[i], scanned)
		if score >= c.generalMinScore {
			return Result{
				Label:      c.general[i].label,
				Score:      score,
				Confidence: confidence(score),
				Stage:      StageGeneral,
				Matches:    matches,
			}, candidates
		}
	}

	return Result{Label: OtherLabel, Stage: StageFallback}, candidates
}

func confidence(score int) int {
	return min(maxConfidence, score*confidenceFactor)
}

// Confidence level names.
const (
	LevelHigh    = "High"
	LevelMedium  = "Medium"
	LevelLow     = "Low"
	LevelVeryLow = "Very Low"
	LevelUnknown = "Unknown"
)

// ConfidenceLevel buckets a 0-100 confidence into a display level.
func ConfidenceLevel(conf int) string {
	switch {
	case conf >= 80:
		return LevelHigh
	case conf >= 60:
		return LevelMedium
	case conf >= 40:
		return LevelLow
	case conf > 0:
		return LevelVeryLow
	default:
		return LevelUnknown
	}
}
