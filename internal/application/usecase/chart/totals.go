package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

func countDataset(key, label string, values []float64) Dataset {
	total := Sum(values)
	return Dataset{
		Key:          key,
		Label:        label,
		Values:       values,
		Total:        total,
		TotalDisplay: humanize.Comma(int64(math.Round(total))),
	}
}

// moneyDataset totals with decimal arithmetic so cents do not drift.
func moneyDataset(key, label string, values []float64) Dataset {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	total = total.Round(2)

	return Dataset{
		Key:          key,
		Label:        label,
		Values:       values,
		Total:        total.InexactFloat64(),
		TotalDisplay: formatMoney(total),
	}
}

// rateDataset totals a percentage series as the overall rate Σcount/Σsum.
func rateDataset(key, label string, rates, counts, sums []float64) Dataset {
	total := overallRate(Sum(counts), Sum(sums))
	return Dataset{
		Key:          key,
		Label:        label,
		Values:       rates,
		Total:        total,
		TotalDisplay: formatPercent(total),
	}
}

func overallRate(count, sum float64) float64 {
	if sum <= 0 {
		return 0
	}
	return math.Round(count / sum * 100)
}

func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + d.StringFixed(2)
	}
	return sign + humanize.Comma(n) + "." + frac
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int64(math.Round(v)))
}
