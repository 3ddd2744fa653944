package services

import (
	"context"

	"beemine-admin/internal/models"
)

// DashboardService loads the dashboard counters
type DashboardService struct {
	client Caller
	audit  AuditRecorder
}

// NewDashboardService creates a new dashboard service. audit may be nil.
func NewDashboardService(client Caller, audit AuditRecorder) *DashboardService {
	return &DashboardService{client: client, audit: audit}
}

type dashboardResponse struct {
	Data struct {
		Users struct {
			TotalActive models.Number `json:"total_active"`
			Men         models.Number `json:"men"`
			Women       models.Number `json:"women"`
		} `json:"users"`
		ActiveUsers struct {
			Daily models.Number `json:"daily"`
		} `json:"active_users"`
		Verification struct {
			PendingProfiles models.Number `json:"pending_profiles"`
		} `json:"verification"`
		Reports struct {
			Pending models.Number `json:"pending"`
		} `json:"reports"`
		Revenue struct {
			Platform85Percent models.Number `json:"platform_85_percent"`
			Graph             struct {
				Labels []string        `json:"labels"`
				Values []models.Number `json:"values"`
			} `json:"graph"`
		} `json:"revenue"`
	} `json:"data"`
}

// Stats returns the dashboard counters. Missing sections default to zero.
func (s *DashboardService) Stats(ctx context.Context, creds models.Credentials) (models.DashboardStats, error) {
	if err := requireToken(creds); err != nil {
		return models.DashboardStats{}, err
	}

	var resp dashboardResponse
	if err := s.client.Call(ctx, "admin_dashboard_stats.php", tokenBody{Token: creds.Token}, &resp); err != nil {
		return models.DashboardStats{}, err
	}

	d := resp.Data
	stats := models.DashboardStats{
		TotalUsers:           d.Users.TotalActive.Int(),
		TotalMen:             d.Users.Men.Int(),
		TotalWomen:           d.Users.Women.Int(),
		DailyActiveUsers:     d.ActiveUsers.Daily.Int(),
		PendingVerifications: d.Verification.PendingProfiles.Int(),
		PendingReports:       d.Reports.Pending.Int(),
		TotalRevenue:         d.Revenue.Platform85Percent.Float(),
	}

	// labels and values are zipped; extra entries on either side are dropped
	n := min(len(d.Revenue.Graph.Labels), len(d.Revenue.Graph.Values))
	stats.RevenueGraph = models.Series{
		Labels: make([]string, 0, n),
		Values: make([]float64, 0, n),
	}
	for i := 0; i < n; i++ {
		stats.RevenueGraph.Labels = append(stats.RevenueGraph.Labels, d.Revenue.Graph.Labels[i])
		stats.RevenueGraph.Values = append(stats.RevenueGraph.Values, d.Revenue.Graph.Values[i].Float())
	}

	return stats, nil
}

// RecentActivity returns the latest moderation actions taken through this console.
// It returns nothing when no audit log is configured.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.Recent(ctx, limit)
}
