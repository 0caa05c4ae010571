package enrichment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
)

func TestBusinessActivities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{
			name: "two patterns",
			text: "We provide cloud hosting to retailers. Our services include managed backups.",
			want: "provide cloud hosting to retailers; managed backups",
		},
		{
			name: "leading provider",
			text: "Acme is a leading provider of payroll software.",
			want: "payroll software",
		},
		{
			name: "too short is dropped",
			text: "Solutions for it.",
			want: "",
		},
		{
			name: "capped at three",
			text: "We provide audits. We offer tax advice. We deliver payroll runs. We focus on bookkeeping.",
			want: "provide audits; offer tax advice; deliver payroll runs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enrichment.BusinessActivities(tt.text))
		})
	}
}

func TestSplitActivities(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a b", "c d"}, enrichment.SplitActivities("a b; c d; "))
	assert.Nil(t, enrichment.SplitActivities(""))
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	text := "Software development and software consulting. Cloud software for retail."
	assert.Equal(t,
		[]string{"software", "development", "consulting", "cloud", "retail"},
		enrichment.Keywords(text, 0))
	assert.Equal(t, []string{"software", "development"}, enrichment.Keywords(text, 2))
}

func TestKeywords_FiltersNoise(t *testing.T) {
	t.Parallel()

	got := enrichment.Keywords("2020 abc3 we the data, data! LinkedIn followers", 10)
	assert.Equal(t, []string{"data"}, got)
	assert.Empty(t, enrichment.Keywords("", 10))
}

func TestTechnologyScanner(t *testing.T) {
	t.Parallel()

	scanner := enrichment.NewTechnologyScanner()

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name: "dictionary order",
			text: "We build React and Node.js apps on AWS with Python and Go",
			want: []string{"python", "go", "react", "node.js", "aws"},
		},
		{
			name: "short terms need word boundaries",
			text: "We maintain Java and Google services",
			want: []string{"java"},
		},
		{
			name:  "limit",
			text:  "Machine learning and AI for iOS, Android and mobile app teams using Docker, Kubernetes, Terraform and GitHub",
			limit: 3,
			want:  []string{"kubernetes", "docker", "ai"},
		},
		{
			name: "default limit is eight",
			text: "Machine learning and AI for iOS, Android and mobile app teams using Docker, Kubernetes, Terraform and GitHub",
			want: []string{"kubernetes", "docker", "ai", "machine learning", "mobile", "ios", "android", "app"},
		},
		{name: "none", text: "We bake bread", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scanner.Scan(tt.text, tt.limit))
		})
	}
}

func TestSentimentAnalyzer(t *testing.T) {
	t.Parallel()

	a := enrichment.NewSentimentAnalyzer()

	tests := []struct {
		text string
		want string
	}{
		{"", enrichment.SentimentNeutral},
		{"We sell chairs", enrichment.SentimentNeutral},
		{"An award-winning, leading provider of reliable software", enrichment.SentimentPositive},
		{"We struggle with a crisis", enrichment.SentimentNegative},
		{"excellent quality but a difficult problem", enrichment.SentimentNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Analyze(tt.text), tt.text)
	}
}

func TestSizeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", enrichment.SizeUnknown},
		{"1-10 employees", enrichment.SizeMicro},
		{"11-50 employees", enrichment.SizeSmall},
		{"51-200 employees", enrichment.SizeMedium},
		{"201-500 employees", enrichment.SizeLarge},
		{"1,001-5,000 employees", enrichment.SizeEnterprise},
		{"10,001+ employees", enrichment.SizeEnterprise},
		{"very small team", enrichment.SizeMicro},
		{"small team", enrichment.SizeSmall},
		{"Mid-size firm", enrichment.SizeMedium},
		{"multinational", enrichment.SizeEnterprise},
		{"lots of people", enrichment.SizeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, enrichment.SizeCategory(tt.in), tt.in)
	}
}

func TestDescribeText(t *testing.T) {
	t.Parallel()

	got := enrichment.DescribeText("Hello world. This is great! Really?")
	assert.Equal(t, enrichment.TextStats{Length: 35, Words: 6, Sentences: 3, AvgWordsPerSentence: 2}, got)

	got = enrichment.DescribeText("No punctuation here")
	assert.Equal(t, 1, got.Sentences)
	assert.InDelta(t, 3.0, got.AvgWordsPerSentence, 0.001)

	assert.Equal(t, enrichment.TextStats{}, enrichment.DescribeText("   "))
}

func TestContactExtraction(t *testing.T) {
	t.Parallel()

	text := "Email info@acme.com or Sales@Acme.com. Logo: logo@2x.png. Call +44 20 7946 0958 or 555-1234. Again info@acme.com"
	assert.Equal(t, []string{"info@acme.com", "sales@acme.com"}, enrichment.ExtractEmails(text))
	assert.Equal(t, []string{"+44 20 7946 0958"}, enrichment.ExtractPhones(text))
	assert.Equal(t,
		[]string{"(555) 123-4567", "555.123.4568"},
		enrichment.ExtractPhones("Phone: (555) 123-4567, fax 555.123.4568"))
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	assert.True(t, enrichment.ValidEmail("jane.doe+leads@example.co.uk"))
	assert.False(t, enrichment.ValidEmail("jane@localhost"))
	assert.False(t, enrichment.ValidEmail("not an email"))
	assert.False(t, enrichment.ValidEmail(" jane@example.com"))
}
