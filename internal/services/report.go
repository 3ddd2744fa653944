package services

import (
	"context"
	"strings"

	"beemine-admin/internal/models"
)

// Report actions accepted by update_report.php
const (
	ReportActionBan     = "ban"
	ReportActionWarn    = "warn"
	ReportActionDismiss = "dismiss"
	ReportActionResolve = "resolve"
)

// ReportService handles reported profiles
type ReportService struct {
	client Caller
	hooks  Hooks
}

// NewReportService creates a new report service
func NewReportService(client Caller, hooks Hooks) *ReportService {
	return &ReportService{client: client, hooks: hooks}
}

// List returns one page of reported profiles
func (s *ReportService) List(ctx context.Context, creds models.Credentials, page, limit int) (models.Page[models.Report], error) {
	if err := requireToken(creds); err != nil {
		return models.Page[models.Report]{}, err
	}
	page, limit = normalizePaging(page, limit)

	var env listEnvelope
	if err := s.client.Call(ctx, "get_report_profiles.php", pageBody{Token: creds.Token, Page: page, Limit: limit}, &env); err != nil {
		return models.Page[models.Report]{}, err
	}
	p, err := toPage[models.Report](env, page, limit)
	if err != nil {
		return p, err
	}
	for i := range p.Items {
		p.Items[i].Evidence = s.hooks.resolve(ctx, p.Items[i].Evidence)
	}
	return p, nil
}

type updateReportRequest struct {
	Token    string `json:"token"`
	ReportID string `json:"report_id"`
	Action   string `json:"action"`
	Remarks  string `json:"remarks"`
}

// Update applies a moderation action to a report. Remarks are mandatory for every action.
func (s *ReportService) Update(ctx context.Context, creds models.Credentials, reportID, action, remarks string) (string, error) {
	if err := requireToken(creds); err != nil {
		return "", err
	}
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return "", ErrMissingID
	}
	switch action {
	case ReportActionBan, ReportActionWarn, ReportActionDismiss, ReportActionResolve:
	default:
		return "", ErrInvalidAction
	}
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return "", ErrRemarksRequired
	}

	req := updateReportRequest{
		Token:    creds.Token,
		ReportID: reportID,
		Action:   action,
		Remarks:  remarks,
	}
	var resp mutationResponse
	if err := s.client.Call(ctx, "update_report.php", req, &resp); err != nil {
		return "", err
	}

	s.hooks.moderated(ctx, creds, QueueReports, reportID, action, remarks)
	if resp.Message == "" {
		resp.Message = "Report updated"
	}
	return resp.Message, nil
}
