package services

import (
	"context"
	"strings"

	"beemine-admin/internal/models"
)

// Profile verification actions accepted by update_profile_verification.php
const (
	ProfileActionApproved = "approved"
	ProfileActionRejected = "rejected"
)

const (
	defaultProfileApproveRemarks = "Selfie clear, document verified, face matched"
	defaultProfileRejectRemarks  = "Document unclear or face mismatch"
)

// ProfileVerificationService handles the identity document verification queue
type ProfileVerificationService struct {
	client Caller
	hooks  Hooks
}

// NewProfileVerificationService creates a new profile verification service
func NewProfileVerificationService(client Caller, hooks Hooks) *ProfileVerificationService {
	return &ProfileVerificationService{client: client, hooks: hooks}
}

// List returns one page of pending profile verifications
func (s *ProfileVerificationService) List(ctx context.Context, creds models.Credentials, page, limit int) (models.Page[models.ProfileVerification], error) {
	if err := requireToken(creds); err != nil {
		return models.Page[models.ProfileVerification]{}, err
	}
	page, limit = normalizePaging(page, limit)

	var env listEnvelope
	if err := s.client.Call(ctx, "get_profile_verification.php", pageBody{Token: creds.Token, Page: page, Limit: limit}, &env); err != nil {
		return models.Page[models.ProfileVerification]{}, err
	}
	p, err := toPage[models.ProfileVerification](env, page, limit)
	if err != nil {
		return p, err
	}
	for i := range p.Items {
		p.Items[i].SelfieURL = s.hooks.resolve(ctx, p.Items[i].SelfieURL)
		p.Items[i].DocumentURL = s.hooks.resolve(ctx, p.Items[i].DocumentURL)
	}
	return p, nil
}

type updateProfileVerificationRequest struct {
	Token          string `json:"token"`
	VerificationID string `json:"verification_id"`
	Action         string `json:"action"`
	Remarks        string `json:"remarks"`
}

// Update approves or rejects a profile verification
func (s *ProfileVerificationService) Update(ctx context.Context, creds models.Credentials, verificationID, action, remarks string) (string, error) {
	if err := requireToken(creds); err != nil {
		return "", err
	}
	verificationID = strings.TrimSpace(verificationID)
	if verificationID == "" {
		return "", ErrMissingID
	}

	remarks = strings.TrimSpace(remarks)
	switch action {
	case ProfileActionApproved:
		if remarks == "" {
			remarks = defaultProfileApproveRemarks
		}
	case ProfileActionRejected:
		if remarks == "" {
			remarks = defaultProfileRejectRemarks
		}
	default:
		return "", ErrInvalidAction
	}

	req := updateProfileVerificationRequest{
		Token:          creds.Token,
		VerificationID: verificationID,
		Action:         action,
		Remarks:        remarks,
	}
	var resp mutationResponse
	if err := s.client.Call(ctx, "update_profile_verification.php", req, &resp); err != nil {
		return "", err
	}

	s.hooks.moderated(ctx, creds, QueueProfileVerification, verificationID, action, remarks)
	if resp.Message == "" {
		resp.Message = "Profile verification updated"
	}
	return resp.Message, nil
}
