package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"beemine-admin/internal/models"
)

func users(ages ...int) []models.UserRow {
	rows := make([]models.UserRow, 0, len(ages))
	for _, a := range ages {
		rows = append(rows, models.UserRow{Age: models.Number(a)})
	}
	return rows
}

func ages(rows []models.UserRow) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Age.Int())
	}
	return out
}

func TestNewPager(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		wantPrev   bool
		wantNext   bool
		wantTotal  int
	}{
		{name: "first of many", page: 1, totalPages: 3, wantPrev: true, wantNext: false, wantTotal: 3},
		{name: "middle", page: 2, totalPages: 3, wantPrev: false, wantNext: false, wantTotal: 3},
		{name: "last", page: 3, totalPages: 3, wantPrev: false, wantNext: true, wantTotal: 3},
		{name: "single page", page: 1, totalPages: 1, wantPrev: true, wantNext: true, wantTotal: 1},
		{name: "no pages", page: 1, totalPages: 0, wantPrev: true, wantNext: true, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(tt.page, tt.totalPages)
			assert.Equal(t, tt.wantPrev, p.PrevDisabled)
			assert.Equal(t, tt.wantNext, p.NextDisabled)
			assert.Equal(t, tt.wantTotal, p.TotalPages)
			assert.Equal(t, tt.page-1, p.PrevPage)
			assert.Equal(t, tt.page+1, p.NextPage)
		})
	}
}

func TestFilterByAge(t *testing.T) {
	rows := users(17, 18, 24, 25, 30, 31, 40, 41, 60)

	assert.Equal(t, []int{18, 24}, ages(FilterByAge(rows, AgeGroup18to24)))
	assert.Equal(t, []int{25, 30}, ages(FilterByAge(rows, AgeGroup25to30)))
	assert.Equal(t, []int{31, 40}, ages(FilterByAge(rows, AgeGroup31to40)))
	assert.Equal(t, []int{41, 60}, ages(FilterByAge(rows, AgeGroupOver40)))
	assert.Equal(t, ages(rows), ages(FilterByAge(rows, "")))
	assert.Equal(t, ages(rows), ages(FilterByAge(rows, "90-99")))
}

func TestFilterByAge_BoundaryExample(t *testing.T) {
	assert.Equal(t, []int{25, 30}, ages(FilterByAge(users(24, 25, 30, 31), AgeGroup25to30)))
}

func TestStateToken(t *testing.T) {
	assert.Equal(t, "Maharashtra", StateToken("Pune, Maharashtra, India"))
	assert.Equal(t, "Goa", StateToken("Panaji,Goa"))
	assert.Equal(t, "", StateToken("Delhi"))
	assert.Equal(t, "", StateToken(""))
	assert.Equal(t, "", StateToken("City, , India"))
}

func TestSortByState(t *testing.T) {
	rows := []models.UserRow{
		{Username: "a", Location: "Pune, Maharashtra, India"},
		{Username: "b", Location: "Delhi"},
		{Username: "c", Location: "Chennai, Tamil Nadu, India"},
		{Username: "d", Location: "Panaji, goa, India"},
		{Username: "e", Location: "Mumbai, Maharashtra, India"},
	}

	names := func(rows []models.UserRow) []string {
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Username)
		}
		return out
	}

	assert.Equal(t, []string{"b", "d", "a", "e", "c"}, names(SortByState(rows, SortAZ)))
	assert.Equal(t, []string{"c", "a", "e", "d", "b"}, names(SortByState(rows, SortZA)))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(SortByState(rows, "")))
	assert.Equal(t, "a", rows[0].Username, "input is not reordered")
}

func TestFilterSeries(t *testing.T) {
	s := models.Series{
		Labels: []string{"2026-01-01", "2026-01-02", "not a date", "2026-01-03", "2026-01-04"},
		Values: []float64{1, 2, 99, 3, 4},
	}

	got := FilterSeries(s, "2026-01-02", "2026-01-03")
	assert.Equal(t, []string{"2026-01-02", "2026-01-03"}, got.Labels)
	assert.Equal(t, []float64{2, 3}, got.Values)

	got = FilterSeries(s, "2026-01-03", "")
	assert.Equal(t, []string{"2026-01-03", "2026-01-04"}, got.Labels)

	got = FilterSeries(s, "", "2026-01-01")
	assert.Equal(t, []float64{1}, got.Values)

	assert.Equal(t, s, FilterSeries(s, "", ""))
	assert.Empty(t, FilterSeries(s, "2027-01-01", "").Labels)
}

func TestBars(t *testing.T) {
	bars := Bars(models.Series{Labels: []string{"a", "b", "c"}, Values: []float64{50, 100, 0}})
	assert.Len(t, bars, 3)
	assert.Equal(t, 50.0, bars[0].Percent)
	assert.Equal(t, 100.0, bars[1].Percent)
	assert.Equal(t, 0.0, bars[2].Percent)

	assert.Empty(t, Bars(models.Series{}))

	daily := DailyBars([]models.DailyRevenue{{Day: "2026-01-01", Revenue: 10}, {Day: "2026-01-02", Revenue: 40}})
	assert.Equal(t, 25.0, daily[0].Percent)
	assert.Equal(t, "2026-01-02", daily[1].Label)
}
