package services

import (
	"context"
	"strings"

	"beemine-admin/internal/models"
)

// Review actions accepted by update_app_review_status.php
const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// ReviewService handles app review verifications
type ReviewService struct {
	client Caller
	hooks  Hooks
}

// NewReviewService creates a new review service
func NewReviewService(client Caller, hooks Hooks) *ReviewService {
	return &ReviewService{client: client, hooks: hooks}
}

// List returns one page of app reviews
func (s *ReviewService) List(ctx context.Context, creds models.Credentials, page, limit int) (models.Page[models.AppReview], error) {
	if err := requireToken(creds); err != nil {
		return models.Page[models.AppReview]{}, err
	}
	page, limit = normalizePaging(page, limit)

	var env listEnvelope
	if err := s.client.Call(ctx, "get_app_review_verification.php", pageBody{Token: creds.Token, Page: page, Limit: limit}, &env); err != nil {
		return models.Page[models.AppReview]{}, err
	}
	p, err := toPage[models.AppReview](env, page, limit)
	if err != nil {
		return p, err
	}
	for i := range p.Items {
		p.Items[i].ScreenshotURL = s.hooks.resolve(ctx, p.Items[i].ScreenshotURL)
	}
	return p, nil
}

type updateReviewRequest struct {
	Token    string `json:"token"`
	ReviewID string `json:"review_id"`
	Action   string `json:"action"`
	Remarks  string `json:"remarks"`
}

// Update approves (granting the coin reward) or rejects a review
func (s *ReviewService) Update(ctx context.Context, creds models.Credentials, reviewID, action string) (string, error) {
	if err := requireToken(creds); err != nil {
		return "", err
	}
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return "", ErrMissingID
	}

	var remarks string
	switch action {
	case ReviewActionApprove:
		remarks = "Approved"
	case ReviewActionReject:
		remarks = "Rejected"
	default:
		return "", ErrInvalidAction
	}

	req := updateReviewRequest{
		Token:    creds.Token,
		ReviewID: reviewID,
		Action:   action,
		Remarks:  remarks,
	}
	var resp mutationResponse
	if err := s.client.Call(ctx, "update_app_review_status.php", req, &resp); err != nil {
		return "", err
	}

	s.hooks.moderated(ctx, creds, QueueReviews, reviewID, action, remarks)
	if resp.Message == "" {
		resp.Message = "Review " + strings.ToLower(remarks)
	}
	return resp.Message, nil
}
