package data

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region names.
const (
	RegionEurope       = "Europe"
	RegionNorthAmerica = "North America"
	RegionLatinAmerica = "Latin America"
	RegionAsiaPacific  = "Asia Pacific"
	RegionMiddleEast   = "Middle East & Africa"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a near match.
const fuzzyThreshold = 0.93

// minFuzzyLength keeps short fragments like "uk" or "ny" out of fuzzy matching.
const minFuzzyLength = 5

// Place is the country and region a location resolves to.
type Place struct {
	Country string
	Region  string
}

// places maps normalized city and country names to their place.
// Curated list of the markets leads are usually scraped for.
var places = map[string]Place{
	// United Kingdom and Ireland
	"united kingdom": {Country: "United Kingdom", Region: RegionEurope},
	"uk":             {Country: "United Kingdom", Region: RegionEurope},
	"england":        {Country: "United Kingdom", Region: RegionEurope},
	"scotland":       {Country: "United Kingdom", Region: RegionEurope},
	"wales":          {Country: "United Kingdom", Region: RegionEurope},
	"london":         {Country: "United Kingdom", Region: RegionEurope},
	"manchester":     {Country: "United Kingdom", Region: RegionEurope},
	"birmingham":     {Country: "United Kingdom", Region: RegionEurope},
	"leeds":          {Country: "United Kingdom", Region: RegionEurope},
	"bristol":        {Country: "United Kingdom", Region: RegionEurope},
	"edinburgh":      {Country: "United Kingdom", Region: RegionEurope},
	"glasgow":        {Country: "United Kingdom", Region: RegionEurope},
	"cambridge":      {Country: "United Kingdom", Region: RegionEurope},
	"oxford":         {Country: "United Kingdom", Region: RegionEurope},
	"ireland":        {Country: "Ireland", Region: RegionEurope},
	"dublin":         {Country: "Ireland", Region: RegionEurope},

	// Continental Europe
	"germany":     {Country: "Germany", Region: RegionEurope},
	"berlin":      {Country: "Germany", Region: RegionEurope},
	"munich":      {Country: "Germany", Region: RegionEurope},
	"munchen":     {Country: "Germany", Region: RegionEurope},
	"hamburg":     {Country: "Germany", Region: RegionEurope},
	"frankfurt":   {Country: "Germany", Region: RegionEurope},
	"france":      {Country: "France", Region: RegionEurope},
	"paris":       {Country: "France", Region: RegionEurope},
	"lyon":        {Country: "France", Region: RegionEurope},
	"spain":       {Country: "Spain", Region: RegionEurope},
	"madrid":      {Country: "Spain", Region: RegionEurope},
	"barcelona":   {Country: "Spain", Region: RegionEurope},
	"italy":       {Country: "Italy", Region: RegionEurope},
	"milan":       {Country: "Italy", Region: RegionEurope},
	"rome":        {Country: "Italy", Region: RegionEurope},
	"netherlands": {Country: "Netherlands", Region: RegionEurope},
	"amsterdam":   {Country: "Netherlands", Region: RegionEurope},
	"rotterdam":   {Country: "Netherlands", Region: RegionEurope},
	"belgium":     {Country: "Belgium", Region: RegionEurope},
	"brussels":    {Country: "Belgium", Region: RegionEurope},
	"switzerland": {Country: "Switzerland", Region: RegionEurope},
	"zurich":      {Country: "Switzerland", Region: RegionEurope},
	"geneva":      {Country: "Switzerland", Region: RegionEurope},
	"austria":     {Country: "Austria", Region: RegionEurope},
	"vienna":      {Country: "Austria", Region: RegionEurope},
	"sweden":      {Country: "Sweden", Region: RegionEurope},
	"stockholm":   {Country: "Sweden", Region: RegionEurope},
	"norway":      {Country: "Norway", Region: RegionEurope},
	"oslo":        {Country: "Norway", Region: RegionEurope},
	"denmark":     {Country: "Denmark", Region: RegionEurope},
	"copenhagen":  {Country: "Denmark", Region: RegionEurope},
	"finland":     {Country: "Finland", Region: RegionEurope},
	"helsinki":    {Country: "Finland", Region: RegionEurope},
	"poland":      {Country: "Poland", Region: RegionEurope},
	"warsaw":      {Country: "Poland", Region: RegionEurope},
	"krakow":      {Country: "Poland", Region: RegionEurope},
	"portugal":    {Country: "Portugal", Region: RegionEurope},
	"lisbon":      {Country: "Portugal", Region: RegionEurope},
	"estonia":     {Country: "Estonia", Region: RegionEurope},
	"tallinn":     {Country: "Estonia", Region: RegionEurope},

	// North America
	"united states": {Country: "United States", Region: RegionNorthAmerica},
	"usa":           {Country: "United States", Region: RegionNorthAmerica},
	"new york":      {Country: "United States", Region: RegionNorthAmerica},
	"san francisco": {Country: "United States", Region: RegionNorthAmerica},
	"los angeles":   {Country: "United States", Region: RegionNorthAmerica},
	"seattle":       {Country: "United States", Region: RegionNorthAmerica},
	"boston":        {Country: "United States", Region: RegionNorthAmerica},
	"chicago":       {Country: "United States", Region: RegionNorthAmerica},
	"austin":        {Country: "United States", Region: RegionNorthAmerica},
	"denver":        {Country: "United States", Region: RegionNorthAmerica},
	"atlanta":       {Country: "United States", Region: RegionNorthAmerica},
	"miami":         {Country: "United States", Region: RegionNorthAmerica},
	"california":    {Country: "United States", Region: RegionNorthAmerica},
	"texas":         {Country: "United States", Region: RegionNorthAmerica},
	"canada":        {Country: "Canada", Region: RegionNorthAmerica},
	"toronto":       {Country: "Canada", Region: RegionNorthAmerica},
	"vancouver":     {Country: "Canada", Region: RegionNorthAmerica},
	"montreal":      {Country: "Canada", Region: RegionNorthAmerica},
	"ottawa":        {Country: "Canada", Region: RegionNorthAmerica},
	"calgary":       {Country: "Canada", Region: RegionNorthAmerica},

	// Latin America
	"mexico":       {Country: "Mexico", Region: RegionLatinAmerica},
	"mexico city":  {Country: "Mexico", Region: RegionLatinAmerica},
	"brazil":       {Country: "Brazil", Region: RegionLatinAmerica},
	"sao paulo":    {Country: "Brazil", Region: RegionLatinAmerica},
	"argentina":    {Country: "Argentina", Region: RegionLatinAmerica},
	"buenos aires": {Country: "Argentina", Region: RegionLatinAmerica},
	"colombia":     {Country: "Colombia", Region: RegionLatinAmerica},
	"bogota":       {Country: "Colombia", Region: RegionLatinAmerica},
	"chile":        {Country: "Chile", Region: RegionLatinAmerica},
	"santiago":     {Country: "Chile", Region: RegionLatinAmerica},

	// Asia Pacific
	"india":       {Country: "India", Region: RegionAsiaPacific},
	"bangalore":   {Country: "India", Region: RegionAsiaPacific},
	"bengaluru":   {Country: "India", Region: RegionAsiaPacific},
	"mumbai":      {Country: "India", Region: RegionAsiaPacific},
	"delhi":       {Country: "India", Region: RegionAsiaPacific},
	"new delhi":   {Country: "India", Region: RegionAsiaPacific},
	"hyderabad":   {Country: "India", Region: RegionAsiaPacific},
	"pune":        {Country: "India", Region: RegionAsiaPacific},
	"chennai":     {Country: "India", Region: RegionAsiaPacific},
	"singapore":   {Country: "Singapore", Region: RegionAsiaPacific},
	"australia":   {Country: "Australia", Region: RegionAsiaPacific},
	"sydney":      {Country: "Australia", Region: RegionAsiaPacific},
	"melbourne":   {Country: "Australia", Region: RegionAsiaPacific},
	"new zealand": {Country: "New Zealand", Region: RegionAsiaPacific},
	"auckland":    {Country: "New Zealand", Region: RegionAsiaPacific},
	"japan":       {Country: "Japan", Region: RegionAsiaPacific},
	"tokyo":       {Country: "Japan", Region: RegionAsiaPacific},
	"china":       {Country: "China", Region: RegionAsiaPacific},
	"shanghai":    {Country: "China", Region: RegionAsiaPacific},
	"beijing":     {Country: "China", Region: RegionAsiaPacific},
	"hong kong":   {Country: "Hong Kong", Region: RegionAsiaPacific},
	"south korea": {Country: "South Korea", Region: RegionAsiaPacific},
	"seoul":       {Country: "South Korea", Region: RegionAsiaPacific},

	// Middle East and Africa
	"united arab emirates": {Country: "United Arab Emirates", Region: RegionMiddleEast},
	"uae":                  {Country: "United Arab Emirates", Region: RegionMiddleEast},
	"dubai":                {Country: "United Arab Emirates", Region: RegionMiddleEast},
	"abu dhabi":            {Country: "United Arab Emirates", Region: RegionMiddleEast},
	"israel":               {Country: "Israel", Region: RegionMiddleEast},
	"tel aviv":             {Country: "Israel", Region: RegionMiddleEast},
	"saudi arabia":         {Country: "Saudi Arabia", Region: RegionMiddleEast},
	"riyadh":               {Country: "Saudi Arabia", Region: RegionMiddleEast},
	"south africa":         {Country: "South Africa", Region: RegionMiddleEast},
	"cape town":            {Country: "South Africa", Region: RegionMiddleEast},
	"johannesburg":         {Country: "South Africa", Region: RegionMiddleEast},
	"nigeria":              {Country: "Nigeria", Region: RegionMiddleEast},
	"lagos":                {Country: "Nigeria", Region: RegionMiddleEast},
	"kenya":                {Country: "Kenya", Region: RegionMiddleEast},
	"nairobi":              {Country: "Kenya", Region: RegionMiddleEast},
	"egypt":                {Country: "Egypt", Region: RegionMiddleEast},
	"cairo":                {Country: "Egypt", Region: RegionMiddleEast},
}

// prefixesToRemove are lead-ins scraped pages put before the place name.
var prefixesToRemove = []string{
	"headquarters ",
	"headquartered in ",
	"based in ",
	"located in ",
	"location ",
	"hq ",
	"greater ",
	"city of ",
}

var (
	segmentSplitter = regexp.MustCompile(`[,;|/·\n]+`)
	nonWord         = regexp.MustCompile(`[^a-z0-9 ]+`)
	spaces          = regexp.MustCompile(`\s+`)
)

// placeKeys is the sorted key list, so fuzzy ties resolve deterministically.
var placeKeys = func() []string {
	keys := make([]string, 0, len(places))
	for k := range places {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// LookupPlace resolves free-form location text such as
// "Headquarters: München, Bavaria" to a country and region. Comma separated
// segments are tried left to right, exact matches before near matches.
func LookupPlace(location string) (Place, bool) {
	segments := locationSegments(location)
	if len(segments) == 0 {
		return Place{}, false
	}

	for _, seg := range segments {
		if p, ok := places[seg]; ok {
			return p, true
		}
	}

	for _, seg := range segments {
		if p, ok := fuzzyLookup(seg); ok {
			return p, true
		}
	}

	return Place{}, false
}

// RegionFor returns just the region name for a location, or "" when unknown.
func RegionFor(location string) string {
	p, ok := LookupPlace(location)
	if !ok {
		return ""
	}
	return p.Region
}

func locationSegments(location string) []string {
	var out []string
	for _, raw := range segmentSplitter.Split(location, -1) {
		seg := normalizeForLookup(raw)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func fuzzyLookup(seg string) (Place, bool) {
	if len(seg) < minFuzzyLength {
		return Place{}, false
	}

	bestKey := ""
	bestScore := 0.0
	for _, key := range placeKeys {
		if len(key) < minFuzzyLength {
			continue
		}
		score := smetrics.JaroWinkler(seg, key, 0.7, 4)
		if score > bestScore {
			bestKey, bestScore = key, score
		}
	}

	if bestScore < fuzzyThreshold {
		return Place{}, false
	}
	return places[bestKey], true
}

// normalizeForLookup prepares a location fragment for map lookup.
func normalizeForLookup(s string) string {
	s = removeAccents(strings.ToLower(s))
	s = nonWord.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaces.ReplaceAllString(s, " "))

	for _, prefix := range prefixesToRemove {
		if after, found := strings.CutPrefix(s, prefix); found {
			s = after
			break
		}
	}

	return s
}

// removeAccents strips diacritical marks from a string.
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
