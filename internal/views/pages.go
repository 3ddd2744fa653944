package views

import (
	"net/url"
	"strconv"

	"beemine-admin/internal/models"
)

// LoginData backs the login page
type LoginData struct {
	Email string
}

// DashboardData backs the dashboard page
type DashboardData struct {
	Stats    models.DashboardStats
	From     string
	To       string
	Bars     []Bar
	Activity []models.AuditEntry
}

// UsersData backs the users page
type UsersData struct {
	Users     []models.UserRow
	Filter    models.UserFilter
	Age       string
	StateSort string
	Total     int
	Pager     Pager
	AgeGroups []string
}

// Query returns the filter query string for page, keeping every active filter
func (d UsersData) Query(page int) string {
	return usersQuery(d.Filter, d.Age, d.StateSort, page)
}

// ProfileData backs the profile details page
type ProfileData struct {
	Profile models.Profile
	Back    string
}

// RevenueData backs the revenue page
type RevenueData struct {
	Analytics models.RevenueAnalytics
	From      string
	To        string
	Bars      []Bar
}

// ListData backs every paged moderation queue
type ListData[T any] struct {
	Items []T
	Pager Pager
	// Path is the page path the forms post back to
	Path string
}

func usersQuery(f models.UserFilter, age, stateSort string, page int) string {
	q := url.Values{}
	for k, v := range map[string]string{
		"search":     f.Search,
		"gender":     f.Gender,
		"verified":   f.Verified,
		"age":        age,
		"state_sort": stateSort,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
