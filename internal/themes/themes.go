package themes

import (
	"sort"
	"strings"
)

// Label identifies a macro-economic topic assigned to an article batch.
type Label string

const (
	MonetaryPolicy Label = "monetary_policy"
	Inflation      Label = "inflation"
	Growth         Label = "growth"
	Employment     Label = "employment"
	Markets        Label = "markets"
)

// maxLabels caps the ranked output.
const maxLabels = 3

// Article is the slice of a raw news article the classifier reads.
type Article struct {
	Title       string
	Description string
}

// table lists every theme with its keywords. Declaration order doubles as
// the tie-break order when two themes match the same number of articles.
var table = []struct {
	label    Label
	keywords []string
}{
	{MonetaryPolicy, []string{"fed", "federal reserve", "powell", "interest rates", "hawkish", "dovish", "policy"}},
	{Inflation, []string{"inflation", "cpi", "prices", "pce", "deflation"}},
	{Growth, []string{"gdp", "growth", "recession", "expansion", "contraction"}},
	{Employment, []string{"jobs", "unemployment", "payrolls", "labor", "wages"}},
	{Markets, []string{"stocks", "equities", "bonds", "yields", "volatility"}},
}

// Extract returns up to three theme labels for the batch, most frequent
// first. A theme counts at most once per article regardless of how many of
// its keywords appear; themes that never match are excluded entirely.
func Extract(articles []Article) []Label {
	counts := make(map[Label]int, len(table))
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for _, t := range table {
			for _, kw := range t.keywords {
				if strings.Contains(text, kw) {
					counts[t.label]++
					break
				}
			}
		}
	}

	type ranked struct {
		label Label
		count int
		ord   int
	}

	pairs := make([]ranked, 0, len(table))
	for i, t := range table {
		if counts[t.label] > 0 {
			pairs = append(pairs, ranked{label: t.label, count: counts[t.label], ord: i})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].ord < pairs[j].ord
		}
		return pairs[i].count > pairs[j].count
	})

	max := maxLabels
	if max > len(pairs) {
		max = len(pairs)
	}

	labels := make([]Label, 0, max)
	for i := 0; i < max; i++ {
		labels = append(labels, pairs[i].label)
	}

	return labels
}
