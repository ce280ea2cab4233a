package stats

import (
	"fmt"
	"strings"
)

// Render produces the report text for r.
func Render(r Report) string {
	if r.Kind == LongForm && r.Baseline != nil {
		return renderLong(r)
	}
	return renderShort(r)
}

// Verdict is the closing remark on the monthly goal.
func (r Report) Verdict() string {
	if r.GoalMet {
		return "congrats."
	}
	return "better luck next time."
}

func renderLong(r Report) string {
	b := r.Baseline
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ready for some statistics? There were %d shopping days last month.\n", r.EntryCount)
	sb.WriteString("This is how last month's expenses compare to the average of the previous 3 months...\n")
	fmt.Fprintf(&sb, "Last month's total average is %d %s, compared to %d %s in the previous months.\n",
		r.Average.AvgTotal, r.Currency, b.AvgTotal, r.Currency)
	fmt.Fprintf(&sb, "Meat expenses: %d %s last month and %d %s in the previous 3 months.\n",
		r.Average.AvgMeat, r.Currency, b.AvgMeat, r.Currency)
	fmt.Fprintf(&sb, "You spent on average %d %s a week on extra items, %d %s in the compared period.\n",
		r.Average.AvgExtra, r.Currency, b.AvgExtra, r.Currency)
	fmt.Fprintf(&sb, "In total you spent %d last month. In %s it was %d. ",
		r.Sums.Total, r.BaselineKeys[0], b.PreviousTotal)
	fmt.Fprintf(&sb, "Your goal is to spend no more than %d. So %s", r.Goal, r.Verdict())
	return sb.String()
}

func renderShort(r Report) string {
	var sb strings.Builder
	sb.WriteString("Ready for statistics?\n")
	fmt.Fprintf(&sb, "There were %d shopping days last month.\n", r.EntryCount)
	fmt.Fprintf(&sb, "You spent %d %s in total. ", r.Sums.Total, r.Currency)
	fmt.Fprintf(&sb, "Your goal is to spend no more than %d, so %s\n", r.Goal, r.Verdict())
	fmt.Fprintf(&sb, "On average you spent %d %s a week, %d on meat and %d on extra items.\n",
		r.Average.AvgTotal, r.Currency, r.Average.AvgMeat, r.Average.AvgExtra)
	sb.WriteString("When there is enough data, I will tell you how the reported month compares to the average of the three previous ones.\n")
	sb.WriteString("Stay tuned.")
	return sb.String()
}
