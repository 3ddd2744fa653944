package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/models"
	"beemine-admin/internal/upstream"
)

// Moderation queues, used for audit entries and queue-changed events
const (
	QueuePhotoVerification   = "photo_verification"
	QueueProfileVerification = "profile_verification"
	QueueReports             = "reports"
	QueueReviews             = "reviews"
)

var (
	// ErrInvalidAction is returned for a moderation action the endpoint does not accept
	ErrInvalidAction = errors.New("invalid action")
	// ErrRemarksRequired is returned when a moderation action needs remarks and got none
	ErrRemarksRequired = errors.New("remarks are required")
	// ErrMissingID is returned when a mutation names no record
	ErrMissingID = errors.New("missing id")
	// ErrNotAuthenticated is returned when a call is attempted without a token
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Caller performs one validated JSON call against the remote admin API
type Caller interface {
	Call(ctx context.Context, endpoint string, body, out any) error
}

// AuditRecorder persists moderation actions
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// QueueNotifier tells open moderation pages that a queue changed
type QueueNotifier interface {
	NotifyQueueChanged(queue, itemID, action string)
}

// MediaResolver turns stored media references into URLs the browser can load
type MediaResolver interface {
	Resolve(ctx context.Context, ref string) string
}

// Hooks bundles the side effects of a successful moderation action.
// Nil members are skipped.
type Hooks struct {
	Audit    AuditRecorder
	Notifier QueueNotifier
	Media    MediaResolver
}

func (h Hooks) resolve(ctx context.Context, ref string) string {
	if h.Media == nil || ref == "" {
		return ref
	}
	return h.Media.Resolve(ctx, ref)
}

// moderated records and broadcasts a completed moderation action. Audit failures are
// logged and never undo the remote mutation.
func (h Hooks) moderated(ctx context.Context, creds models.Credentials, queue, itemID, action, remarks string) {
	if h.Audit != nil {
		entry := models.AuditEntry{
			AdminName: creds.Name,
			Queue:     queue,
			ItemID:    itemID,
			Action:    action,
			Remarks:   remarks,
		}
		if err := h.Audit.Record(ctx, entry); err != nil {
			log.Error().
				Err(err).
				Str("queue", queue).
				Str("item_id", itemID).
				Msg("Failed to record moderation action")
		}
	}
	if h.Notifier != nil {
		h.Notifier.NotifyQueueChanged(queue, itemID, action)
	}
}

// tokenBody is the body shared by every authenticated call: the remote API expects the
// token in the JSON body, not in a header.
type tokenBody struct {
	Token string `json:"token"`
}

type pageBody struct {
	Token string `json:"token"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// mutationResponse is the body of every update endpoint
type mutationResponse struct {
	Message string `json:"message"`
}

func requireToken(creds models.Credentials) error {
	if !creds.Valid() {
		return ErrNotAuthenticated
	}
	return nil
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// listEnvelope accepts every list shape the remote API has returned:
// {data, total}, {reports, total}, {data, pagination: {page, total_pages}} and bare {data}.
type listEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Reports    json.RawMessage `json:"reports"`
	Total      *models.Number  `json:"total"`
	Pagination *struct {
		Page       models.Number  `json:"page"`
		Limit      models.Number  `json:"limit"`
		TotalPages models.Number  `json:"total_pages"`
		Total      *models.Number `json:"total"`
	} `json:"pagination"`
}

// toPage normalizes an envelope into the canonical page type.
func toPage[T any](env listEnvelope, page, limit int) (models.Page[T], error) {
	items, err := decodeItems[T](env.Data)
	if err != nil {
		return models.Page[T]{}, err
	}
	if len(items) == 0 {
		if items, err = decodeItems[T](env.Reports); err != nil {
			return models.Page[T]{}, err
		}
	}

	p := models.Page[T]{Items: items, Page: page, Limit: limit}

	switch {
	case env.Pagination != nil:
		if n := env.Pagination.Page.Int(); n > 0 {
			p.Page = n
		}
		if n := env.Pagination.Limit.Int(); n > 0 {
			p.Limit = n
		}
		p.TotalPages = env.Pagination.TotalPages.Int()
		switch {
		case env.Pagination.Total != nil:
			p.Total = env.Pagination.Total.Int()
		case env.Total != nil:
			p.Total = env.Total.Int()
		}
	case env.Total != nil:
		p.Total = env.Total.Int()
		p.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	default:
		// No count at all: offer a next page only while pages come back full.
		p.Total = (p.Page-1)*p.Limit + len(items)
		p.TotalPages = p.Page
		if len(items) >= p.Limit {
			p.TotalPages = p.Page + 1
		}
	}

	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p, nil
}

func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode list items: %w", upstream.ErrInvalidResponse, err)
	}
	return items, nil
}
