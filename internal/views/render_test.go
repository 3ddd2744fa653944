package views

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beemine-admin/internal/models"
)

var admin = models.Credentials{Token: "tok", Name: "Asha Rao", Role: "admin"}

func render(t *testing.T, name string, page Page) *httptest.ResponseRecorder {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, name, page))
	return rec
}

func TestRenderer_ParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, name := range []string{
		PageLogin, PageDashboard, PageUsers, PageProfile, PageRevenue,
		PagePhotoVerification, PageProfileVerification, PageReports, PageReviews,
	} {
		assert.Contains(t, r.pages, name)
	}
}

func TestRender_LoginHasNoSidebar(t *testing.T) {
	rec := render(t, PageLogin, Page{Title: "Login", Error: "Invalid credentials", Data: LoginData{Email: "a@b.c"}})

	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `value="a@b.c"`)
	assert.NotContains(t, body, "Logout")
}

func TestRender_LayoutShowsAdminAndNav(t *testing.T) {
	rec := render(t, PageDashboard, Page{
		Title:  "Dashboard",
		Active: "/dashboard",
		Admin:  admin,
		Notice: &Notice{Kind: "success", Message: "Saved"},
		Data: DashboardData{
			Stats: models.DashboardStats{TotalUsers: 1200, TotalRevenue: 12345.5},
			Bars:  Bars(models.Series{Labels: []string{"2026-01-01"}, Values: []float64{10}}),
		},
	})

	body := rec.Body.String()
	assert.Contains(t, body, "Asha Rao")
	assert.Contains(t, body, ">AR<")
	assert.Contains(t, body, `href="/dashboard" class="active"`)
	assert.Contains(t, body, "Review Verification")
	assert.Contains(t, body, "Saved")
	assert.Contains(t, body, "1,200")
	assert.Contains(t, body, "₹12,345.50")
}

func TestRender_ErrorStateReplacesContent(t *testing.T) {
	rec := render(t, PageReports, Page{Active: "/reports", Admin: admin, Error: "Could not reach the server."})

	body := rec.Body.String()
	assert.Contains(t, body, "Could not reach the server.")
	assert.NotContains(t, body, "Reports Management")
}

func TestRender_EmptyStates(t *testing.T) {
	rec := render(t, PageReports, Page{Active: "/reports", Admin: admin, Data: ListData[models.Report]{Items: []models.Report{}, Pager: NewPager(1, 1), Path: "/reports"}})
	assert.Contains(t, rec.Body.String(), "No reports found")

	rec = render(t, PageUsers, Page{Active: "/users", Admin: admin, Data: UsersData{Pager: NewPager(1, 1), AgeGroups: AgeGroups}})
	assert.Contains(t, rec.Body.String(), "No users found")
}

func TestRender_ReportActionsFollowStatus(t *testing.T) {
	rec := render(t, PageReports, Page{
		Active:    "/reports",
		Admin:     admin,
		LiveQueue: "reports",
		Data: ListData[models.Report]{
			Items: []models.Report{
				{ReportID: "1", Status: "pending", Reported: models.ReportParty{ProfileID: "7", Username: "spammer"}},
				{ReportID: "2", Status: "resolved"},
			},
			Pager: NewPager(1, 2),
			Path:  "/reports",
		},
	})

	body := rec.Body.String()
	assert.Contains(t, body, `action="/reports/1"`)
	assert.NotContains(t, body, `action="/reports/2"`)
	assert.Contains(t, body, "No actions")
	assert.Contains(t, body, `href="/profiles/7"`)
	assert.Contains(t, body, `href="?page=2"`)
	assert.Contains(t, body, "new WebSocket")
}

func TestRender_ReviewsOnlyInReviewHaveActions(t *testing.T) {
	rec := render(t, PageReviews, Page{
		Active: "/reviews",
		Admin:  admin,
		Data: ListData[models.AppReview]{
			Items: []models.AppReview{
				{ReviewID: "1", Status: "in_review"},
				{ReviewID: "2", Status: "approved"},
			},
			Pager: NewPager(1, 1),
			Path:  "/reviews",
		},
	})

	body := rec.Body.String()
	assert.Contains(t, body, `action="/reviews/1"`)
	assert.NotContains(t, body, `action="/reviews/2"`)
	assert.Contains(t, body, "in review")
	assert.Contains(t, body, "No text review provided")
}

func TestUsersData_QueryKeepsFilters(t *testing.T) {
	d := UsersData{Filter: models.UserFilter{Search: "ravi", Gender: "Man"}, Age: "25-30", StateSort: "az"}
	assert.Equal(t, "?age=25-30&gender=Man&page=2&search=ravi&state_sort=az", d.Query(2))
	assert.Equal(t, "?age=25-30&gender=Man&search=ravi&state_sort=az", d.Query(1))
	assert.Equal(t, "", UsersData{}.Query(1))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹0", formatMoney(0.0))
	assert.Equal(t, "₹1,234,567", formatMoney(1234567.0))
	assert.Equal(t, "₹12.50", formatMoney(models.Number(12.5)))
	assert.Equal(t, "-₹5", formatMoney(-5.0))
	assert.Equal(t, "₹7", formatMoney(7))
}
