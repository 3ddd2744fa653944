package services

import (
	"context"
	"errors"
	"time"

	"beemine-admin/internal/models"
)

// DateLayout is the date format of every date range sent to the remote API
const DateLayout = "2006-01-02"

// ErrInvalidDateRange is returned when a date bound is malformed or from is after to
var ErrInvalidDateRange = errors.New("invalid date range")

// RevenueService loads revenue analytics
type RevenueService struct {
	client Caller
}

// NewRevenueService creates a new revenue service
func NewRevenueService(client Caller) *RevenueService {
	return &RevenueService{client: client}
}

type revenueRequest struct {
	Token    string `json:"token"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

type revenueCharts struct {
	DailyRevenue []models.DailyRevenue `json:"daily_revenue"`
}

type revenueResponse struct {
	Summary *models.RevenueSummary `json:"summary"`
	Charts  *revenueCharts         `json:"charts"`
	Data    *struct {
		Summary models.RevenueSummary `json:"summary"`
		Charts  revenueCharts         `json:"charts"`
	} `json:"data"`
}

// DefaultRange returns the range shown when the admin has not picked one: the 30 days
// ending on now.
func DefaultRange(now time.Time) (string, string) {
	return now.AddDate(0, 0, -29).Format(DateLayout), now.Format(DateLayout)
}

// ValidateRange checks both bounds parse as dates and from is not after to
func ValidateRange(from, to string) error {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return ErrInvalidDateRange
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return ErrInvalidDateRange
	}
	if f.After(t) {
		return ErrInvalidDateRange
	}
	return nil
}

// Analytics returns the revenue summary and daily series for [from, to]
func (s *RevenueService) Analytics(ctx context.Context, creds models.Credentials, from, to string) (models.RevenueAnalytics, error) {
	if err := requireToken(creds); err != nil {
		return models.RevenueAnalytics{}, err
	}
	if err := ValidateRange(from, to); err != nil {
		return models.RevenueAnalytics{}, err
	}

	var resp revenueResponse
	if err := s.client.Call(ctx, "get_revenue_analytics.php", revenueRequest{Token: creds.Token, FromDate: from, ToDate: to}, &resp); err != nil {
		return models.RevenueAnalytics{}, err
	}

	out := models.RevenueAnalytics{From: from, To: to}
	switch {
	case resp.Summary != nil || resp.Charts != nil:
		if resp.Summary != nil {
			out.Summary = *resp.Summary
		}
		if resp.Charts != nil {
			out.Daily = resp.Charts.DailyRevenue
		}
	case resp.Data != nil:
		out.Summary = resp.Data.Summary
		out.Daily = resp.Data.Charts.DailyRevenue
	}
	if out.Daily == nil {
		out.Daily = []models.DailyRevenue{}
	}
	return out, nil
}
