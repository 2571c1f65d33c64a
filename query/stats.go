// ABOUTME: Aggregate pipeline statistics for the report view
// ABOUTME: Counts, open pipeline value, won value and per-stage breakdown
package query

import (
	"math"

	"github.com/harperreed/simplecrm/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StageCount is one bar of the stage breakdown. Ratio is count over the
// largest stage count, floored at one, so it is zero rather than NaN when empty.
type StageCount struct {
	Stage   models.Stage
	Label   string
	Count   int
	Ratio   float64
	Percent int
}

type Stats struct {
	Contacts      int
	Deals         int
	PipelineValue int64
	WonValue      int64
	MaxCount      int
	Stages        []StageCount
}

// ComputeStats derives the report figures from the document.
func ComputeStats(doc *models.Document) Stats {
	st := Stats{Contacts: len(doc.Contacts)}
	counts := make(map[models.Stage]int, len(models.Stages))

	for _, c := range doc.Contacts {
		for _, d := range c.Deals {
			st.Deals++
			counts[d.Stage]++
			switch {
			case d.Stage == models.StageWon:
				st.WonValue += d.Value.OrZero()
			case d.IsOpen():
				st.PipelineValue += d.Value.OrZero()
			}
		}
	}

	maxCount := 1
	for _, s := range models.Stages {
		if counts[s] > maxCount {
			maxCount = counts[s]
		}
	}
	st.MaxCount = maxCount

	st.Stages = make([]StageCount, 0, len(models.Stages))
	for _, s := range models.Stages {
		ratio := float64(counts[s]) / float64(maxCount)
		st.Stages = append(st.Stages, StageCount{
			Stage:   s,
			Label:   s.Label(),
			Count:   counts[s],
			Ratio:   ratio,
			Percent: int(math.Round(ratio * 100)),
		})
	}
	return st
}

// FormatMoney renders a whole amount with thousands grouping, e.g. 42,000.
func FormatMoney(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", amount)
}

// FormatDealValue renders a deal value, or "" when it is unset.
func FormatDealValue(v models.DealValue) string {
	amount, ok := v.Amount()
	if !ok {
		return ""
	}
	return FormatMoney(amount)
}
