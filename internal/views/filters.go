package views

import (
	"math"
	"slices"
	"strings"
	"time"

	"beemine-admin/internal/models"
)

// Pager holds the pagination controls of a list page
type Pager struct {
	Page         int
	TotalPages   int
	PrevPage     int
	NextPage     int
	PrevDisabled bool
	NextDisabled bool
}

// NewPager builds the controls for page of totalPages. totalPages is at least 1.
// Prev is disabled only on the first page, Next only on the last.
func NewPager(page, totalPages int) Pager {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	p := Pager{
		Page:         page,
		TotalPages:   totalPages,
		PrevPage:     page - 1,
		NextPage:     page + 1,
		PrevDisabled: page == 1,
		NextDisabled: page >= totalPages,
	}
	return p
}

// Age groups of the users filter
const (
	AgeGroup18to24 = "18-24"
	AgeGroup25to30 = "25-30"
	AgeGroup31to40 = "31-40"
	AgeGroupOver40 = "40+"
)

// AgeGroups lists the selectable age groups in display order
var AgeGroups = []string{AgeGroup18to24, AgeGroup25to30, AgeGroup31to40, AgeGroupOver40}

// InAgeGroup reports whether age falls into group. Bounds are inclusive; "40+" means
// strictly older than 40. An unknown or empty group matches every age.
func InAgeGroup(age int, group string) bool {
	switch group {
	case AgeGroup18to24:
		return age >= 18 && age <= 24
	case AgeGroup25to30:
		return age >= 25 && age <= 30
	case AgeGroup31to40:
		return age >= 31 && age <= 40
	case AgeGroupOver40:
		return age > 40
	}
	return true
}

// FilterByAge keeps the rows whose age falls into group
func FilterByAge(rows []models.UserRow, group string) []models.UserRow {
	if !slices.Contains(AgeGroups, group) {
		return rows
	}
	out := make([]models.UserRow, 0, len(rows))
	for _, r := range rows {
		if InAgeGroup(r.Age.Int(), group) {
			out = append(out, r)
		}
	}
	return out
}

// StateToken returns the second comma separated segment of a location, trimmed.
// "Pune, Maharashtra, India" gives "Maharashtra"; a location without one gives "".
func StateToken(location string) string {
	parts := strings.Split(location, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Sort orders of the state column
const (
	SortAZ = "az"
	SortZA = "za"
)

// SortByState orders rows by their state token. The sort is stable, so rows with the
// same state keep their server order. Any order other than az or za leaves rows as is.
func SortByState(rows []models.UserRow, order string) []models.UserRow {
	if order != SortAZ && order != SortZA {
		return rows
	}
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b models.UserRow) int {
		c := compareFold(StateToken(a.Location), StateToken(b.Location))
		if order == SortZA {
			return -c
		}
		return c
	})
	return out
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// FilterSeries keeps the points whose label date lies within [from, to]. Empty bounds
// are open. Labels that are not dates are dropped once any bound is set.
func FilterSeries(s models.Series, from, to string) models.Series {
	fromT, hasFrom := parseDate(from)
	toT, hasTo := parseDate(to)
	if !hasFrom && !hasTo {
		return s
	}

	out := models.Series{Labels: []string{}, Values: []float64{}}
	for i, label := range s.Labels {
		if i >= len(s.Values) {
			break
		}
		d, ok := parseDate(label)
		if !ok {
			continue
		}
		if hasFrom && d.Before(fromT) {
			continue
		}
		if hasTo && d.After(toT) {
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "Jan 2, 2006", "02 Jan 2006"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Bar is one bar of a server-rendered bar chart
type Bar struct {
	Label   string
	Value   float64
	Percent float64
}

// Bars scales a series to the largest value, so the tallest bar is 100 percent.
func Bars(s models.Series) []Bar {
	n := min(len(s.Labels), len(s.Values))
	maxValue := 0.0
	for i := 0; i < n; i++ {
		maxValue = math.Max(maxValue, s.Values[i])
	}

	bars := make([]Bar, 0, n)
	for i := 0; i < n; i++ {
		b := Bar{Label: s.Labels[i], Value: s.Values[i]}
		if maxValue > 0 && s.Values[i] > 0 {
			b.Percent = math.Round(s.Values[i]/maxValue*1000) / 10
		}
		bars = append(bars, b)
	}
	return bars
}

// DailyBars turns the revenue series into bars
func DailyBars(daily []models.DailyRevenue) []Bar {
	s := models.Series{Labels: make([]string, 0, len(daily)), Values: make([]float64, 0, len(daily))}
	for _, d := range daily {
		s.Labels = append(s.Labels, d.Day)
		s.Values = append(s.Values, d.Revenue.Float())
	}
	return Bars(s)
}
