package services

import (
	"context"
	"strings"

	"beemine-admin/internal/models"
)

// Photo verification actions accepted by update_photo_verification.php
const (
	PhotoActionApprove = "approve"
	PhotoActionReject  = "reject"
)

// Reasons sent when the admin leaves the reason empty
const (
	defaultPhotoApproveReason = "Photo verified successfully"
	defaultPhotoRejectReason  = "Photo is blurred or not clear"
)

// PhotoVerificationService handles the photo verification queue
type PhotoVerificationService struct {
	client Caller
	hooks  Hooks
}

// NewPhotoVerificationService creates a new photo verification service
func NewPhotoVerificationService(client Caller, hooks Hooks) *PhotoVerificationService {
	return &PhotoVerificationService{client: client, hooks: hooks}
}

// List returns one page of pending photo verifications with media URLs resolved
func (s *PhotoVerificationService) List(ctx context.Context, creds models.Credentials, page, limit int) (models.Page[models.PhotoVerification], error) {
	if err := requireToken(creds); err != nil {
		return models.Page[models.PhotoVerification]{}, err
	}
	page, limit = normalizePaging(page, limit)

	var env listEnvelope
	if err := s.client.Call(ctx, "get_photo_verification.php", pageBody{Token: creds.Token, Page: page, Limit: limit}, &env); err != nil {
		return models.Page[models.PhotoVerification]{}, err
	}
	p, err := toPage[models.PhotoVerification](env, page, limit)
	if err != nil {
		return p, err
	}
	for i := range p.Items {
		p.Items[i].PhotoURL = s.hooks.resolve(ctx, p.Items[i].PhotoURL)
		p.Items[i].SelfieURL = s.hooks.resolve(ctx, p.Items[i].SelfieURL)
	}
	return p, nil
}

type updatePhotoRequest struct {
	Token   string `json:"token"`
	PhotoID string `json:"photo_id"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// Update approves or rejects a photo
func (s *PhotoVerificationService) Update(ctx context.Context, creds models.Credentials, photoID, action, reason string) (string, error) {
	if err := requireToken(creds); err != nil {
		return "", err
	}
	photoID = strings.TrimSpace(photoID)
	if photoID == "" {
		return "", ErrMissingID
	}

	reason = strings.TrimSpace(reason)
	switch action {
	case PhotoActionApprove:
		if reason == "" {
			reason = defaultPhotoApproveReason
		}
	case PhotoActionReject:
		if reason == "" {
			reason = defaultPhotoRejectReason
		}
	default:
		return "", ErrInvalidAction
	}

	req := updatePhotoRequest{
		Token:   creds.Token,
		PhotoID: photoID,
		Action:  action,
		Reason:  reason,
	}
	var resp mutationResponse
	if err := s.client.Call(ctx, "update_photo_verification.php", req, &resp); err != nil {
		return "", err
	}

	s.hooks.moderated(ctx, creds, QueuePhotoVerification, photoID, action, reason)
	if resp.Message == "" {
		resp.Message = "Photo verification updated"
	}
	return resp.Message, nil
}
