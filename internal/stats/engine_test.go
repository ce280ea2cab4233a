package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"shoppingstats/internal/core"
	"shoppingstats/internal/ledger"
)

var (
	jan   = core.MonthKey{Year: 2019, Month: time.January}
	feb   = core.MonthKey{Year: 2019, Month: time.February}
	mar   = core.MonthKey{Year: 2019, Month: time.March}
	april = core.MonthKey{Year: 2019, Month: time.April}
	may   = core.MonthKey{Year: 2019, Month: time.May}

	today = time.Date(2019, time.May, 8, 0, 0, 0, 0, time.UTC)
)

const longText = "Ready for some statistics? There were 3 shopping days last month.\n" +
	"This is how last month's expenses compare to the average of the previous 3 months...\n" +
	"Last month's total average is 234 PLN, compared to 272 PLN in the previous months.\n" +
	"Meat expenses: 15 PLN last month and 52 PLN in the previous 3 months.\n" +
	"You spent on average 27 PLN a week on extra items, 59 PLN in the compared period.\n" +
	"In total you spent 702 last month. In March 2019 it was 1600. " +
	"Your goal is to spend no more than 500. So better luck next time."

const shortText = "Ready for statistics?\n" +
	"There were 2 shopping days last month.\n" +
	"You spent 323 PLN in total. Your goal is to spend no more than 500, so congrats.\n" +
	"On average you spent 162 PLN a week, 37 on meat and 42 on extra items.\n" +
	"When there is enough data, I will tell you how the reported month compares to the average of the three previous ones.\n" +
	"Stay tuned."

type EngineTestSuite struct {
	suite.Suite
	full  *ledger.Ledger
	short *ledger.Ledger
	p     Params
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.full = &ledger.Ledger{
		Weekly: map[core.MonthKey][]core.Entry{
			april: {core.NewEntry(123, 23, 23), core.NewEntry(456, 23, 34), core.NewEntry(123, 0, 23)},
			may:   {core.NewEntry(145, 23, 23), core.NewEntry(1, 2, 3)},
		},
		Average: map[core.MonthKey]core.AverageRecord{
			jan:   {AvgTotal: 120, AvgMeat: 55, AvgExtra: 44, TotalSum: 600},
			feb:   {AvgTotal: 240, AvgMeat: 88, AvgExtra: 99, TotalSum: 900},
			mar:   {AvgTotal: 455, AvgMeat: 12, AvgExtra: 34, TotalSum: 1600},
			april: {AvgTotal: 700, AvgMeat: 23, AvgExtra: 34, TotalSum: 2000},
		},
	}
	s.short = &ledger.Ledger{
		Weekly: map[core.MonthKey][]core.Entry{
			april: {core.NewEntry(123, 23, 23), core.NewEntry(200, 50, 60)},
		},
	}
	s.p = Params{Currency: "PLN", Goal: 500}
}

func (s *EngineTestSuite) TestComputedValues() {
	r, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)

	s.Equal(april, r.Month)
	s.Equal([BaselineMonths]core.MonthKey{mar, feb, jan}, r.BaselineKeys)
	s.Equal(3, r.EntryCount)
	s.Equal(Sums{Total: 702, Meat: 46, Extra: 80}, r.Sums)
	s.Equal(core.AverageRecord{AvgTotal: 234, AvgMeat: 15, AvgExtra: 27, TotalSum: 702}, r.Average)
	s.Equal(core.AverageRecord{AvgTotal: 234, AvgMeat: 15, AvgExtra: 27, TotalSum: 702}, s.full.Average[april])
}

func (s *EngineTestSuite) TestLongForm() {
	r, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)

	s.Equal(LongForm, r.Kind)
	s.Require().NotNil(r.Baseline)
	s.Equal(Baseline{AvgTotal: 272, AvgMeat: 52, AvgExtra: 59, PreviousTotal: 1600}, *r.Baseline)
	s.False(r.GoalMet)
	s.Equal(longText, r.Text)
}

func (s *EngineTestSuite) TestShortForm() {
	r, err := ComputeReport(s.short, s.p, today)
	s.Require().NoError(err)

	s.Equal(ShortForm, r.Kind)
	s.Nil(r.Baseline)
	s.True(r.GoalMet)
	s.Contains(r.Text, "There were 2 shopping days")
	s.Contains(r.Text, "323 PLN in total")
	s.Contains(r.Text, "congrats")
	s.NotContains(r.Text, "compared to")
	s.Equal(shortText, r.Text)
	s.Equal(core.AverageRecord{AvgTotal: 162, AvgMeat: 37, AvgExtra: 42, TotalSum: 323}, s.short.Average[april])
}

func (s *EngineTestSuite) TestShortFormWhenOneBaselineMonthMissing() {
	delete(s.full.Average, feb)

	r, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)
	s.Equal(ShortForm, r.Kind)
	s.Nil(r.Baseline)
	s.Contains(r.Text, "Stay tuned.")
}

func (s *EngineTestSuite) TestIdempotent() {
	first, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)
	stored := s.full.Average[april]

	second, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)

	s.Equal(first.Text, second.Text)
	s.Equal(stored, s.full.Average[april])
	s.Equal(first, second)
}

func (s *EngineTestSuite) TestGoalBoundary() {
	s.p.Goal = 702
	r, err := ComputeReport(s.full, s.p, today)
	s.Require().NoError(err)
	s.True(r.GoalMet)
	s.Contains(r.Text, "So congrats.")
}

func (s *EngineTestSuite) TestMissingReportMonth() {
	_, err := ComputeReport(s.short, s.p, time.Date(2019, time.July, 1, 0, 0, 0, 0, time.UTC))
	s.Require().Error(err)
	s.ErrorIs(err, core.ErrMissingMonth)

	var mm *core.MissingMonthError
	s.Require().ErrorAs(err, &mm)
	s.Equal(core.MonthKey{Year: 2019, Month: time.June}, mm.Month)
}

func TestShouldRun(t *testing.T) {
	l := ledger.New()

	// very first entry ever: nothing to report on
	l.Append(time.Date(2019, time.April, 2, 0, 0, 0, 0, time.UTC), core.NewEntry(123, 23, 23))
	assert.False(t, ShouldRun(l, time.Date(2019, time.April, 2, 0, 0, 0, 0, time.UTC)))

	// second entry in the same month
	l.Append(time.Date(2019, time.April, 9, 0, 0, 0, 0, time.UTC), core.NewEntry(200, 50, 60))
	assert.False(t, ShouldRun(l, time.Date(2019, time.April, 9, 0, 0, 0, 0, time.UTC)))

	// first entry of a new month
	l.Append(today, core.NewEntry(145, 23, 23))
	assert.True(t, ShouldRun(l, today))

	// later entries of that month never re-trigger
	l.Append(today.AddDate(0, 0, 7), core.NewEntry(1, 2, 3))
	assert.False(t, ShouldRun(l, today.AddDate(0, 0, 7)))
}

func TestReportMonthAcrossYear(t *testing.T) {
	r := ReportMonth(time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC))
	require.Equal(t, core.MonthKey{Year: 2019, Month: time.December}, r)
}

func TestLongFormAcrossYearBoundary(t *testing.T) {
	l := ledger.New()
	dec := core.MonthKey{Year: 2019, Month: time.December}
	l.Weekly[dec] = []core.Entry{core.NewEntry(100, 10, 10)}
	l.SetAverage(core.MonthKey{Year: 2019, Month: time.November}, core.AverageRecord{AvgTotal: 90, TotalSum: 360})
	l.SetAverage(core.MonthKey{Year: 2019, Month: time.October}, core.AverageRecord{AvgTotal: 90, TotalSum: 360})
	l.SetAverage(core.MonthKey{Year: 2019, Month: time.September}, core.AverageRecord{AvgTotal: 90, TotalSum: 360})

	r, err := ComputeReport(l, Params{Currency: "EUR", Goal: 50}, time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, LongForm, r.Kind)
	assert.Equal(t, dec, r.Month)
	assert.Contains(t, r.Text, "In November 2019 it was 360.")
	assert.Contains(t, r.Text, "better luck next time.")
}
