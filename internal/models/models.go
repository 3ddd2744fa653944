package models

import (
	"strings"
	"time"
)

// Credentials is the per-request view of the admin session passed to every remote call.
type Credentials struct {
	SessionID string
	Token     string
	Name      string
	Role      string
	Expiry    string
}

// Valid reports whether a bearer token is present
func (c Credentials) Valid() bool {
	return c.Token != ""
}

// Initials returns up to two upper-case initials of the display name for the header badge
func (c Credentials) Initials() string {
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return "AD"
	}
	var initials []rune
	for _, f := range fields {
		if len(initials) == 2 {
			break
		}
		initials = append(initials, []rune(f)[0])
	}
	return strings.ToUpper(string(initials))
}

// LoginResult is returned by the remote login endpoint
type LoginResult struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	TokenExpiry string `json:"token_expiry"`
}

// Page is the canonical pagination result every list call is normalized into
type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// UserRow is a row of the users list
type UserRow struct {
	ProfileID      ID     `json:"profile_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Gender         string `json:"gender"`
	Age            Number `json:"age"`
	Location       string `json:"location"`
	IsUserVerified Flag   `json:"is_user_verified"`
	LastOnline     string `json:"last_online"`
}

// UserFilter holds the server-side filters of the users list
type UserFilter struct {
	Search   string
	Gender   string // "Man" | "Woman" | ""
	Verified string // "1" | "0" | ""
}

// Profile is the full profile record shown in the profile details view
type Profile struct {
	ProfileID       ID             `json:"profile_id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Gender          string         `json:"gender"`
	DOB             string         `json:"dob"`
	Age             Number         `json:"age"`
	Country         string         `json:"country"`
	State           string         `json:"state"`
	City            string         `json:"city"`
	Height          string         `json:"height"`
	Occupation      string         `json:"occupation"`
	Education       string         `json:"education"`
	Description     string         `json:"description"`
	LookingFor      string         `json:"looking_for"`
	Relationship    string         `json:"relationship_type"`
	IsUserVerified  Flag           `json:"is_user_verified"`
	IsPhotoVerified Flag           `json:"is_photo_verified"`
	LastOnline      string         `json:"last_online"`
	Photos          []ProfilePhoto `json:"photos"`
}

// ProfilePhoto is one entry of a profile's photo list
type ProfilePhoto struct {
	PhotoID   ID     `json:"photo_id"`
	PhotoURL  string `json:"photo_url"`
	IsPrimary Flag   `json:"is_primary"`
}

// ReportParty identifies the reporter or the reported profile
type ReportParty struct {
	ProfileID ID     `json:"profile_id"`
	Username  string `json:"username"`
}

// Report is a reported profile awaiting moderation
type Report struct {
	ReportID  ID          `json:"report_id"`
	Reporter  ReportParty `json:"reporter"`
	Reported  ReportParty `json:"reported"`
	Reason    string      `json:"reason"`
	Evidence  string      `json:"evidence"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}

// Actionable reports whether moderation actions are still offered for the report
func (r Report) Actionable() bool {
	switch r.Status {
	case "resolved", "dismissed":
		return false
	}
	return true
}

// PhotoVerification is a pending photo verification request
type PhotoVerification struct {
	PhotoID    ID     `json:"photo_id"`
	ProfileID  ID     `json:"profile_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Gender     string `json:"gender"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PhotoURL   string `json:"photo_url"`
	SelfieURL  string `json:"selfie_url"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

// ProfileVerification is a pending profile (identity document) verification request
type ProfileVerification struct {
	VerificationID ID     `json:"verification_id"`
	ProfileID      ID     `json:"profile_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Gender         string `json:"gender"`
	DOB            string `json:"dob"`
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	DocumentType   string `json:"document_type"`
	SelfieURL      string `json:"selfie_url"`
	DocumentURL    string `json:"document_url"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submitted_at"`
}

// AppReview is an app store review submitted for a coin reward
type AppReview struct {
	ReviewID      ID     `json:"review_id"`
	ProfileID     ID     `json:"profile_id"`
	Username      string `json:"username"`
	ReviewText    string `json:"review_text"`
	ScreenshotURL string `json:"screenshot_url"`
	RewardAmount  Number `json:"reward_amount"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// InReview reports whether the review still awaits a decision
func (r AppReview) InReview() bool {
	return r.Status == "in_review"
}

// StatusLabel renders the status with spaces instead of underscores
func (r AppReview) StatusLabel() string {
	return strings.ReplaceAll(r.Status, "_", " ")
}

// Series is a labelled numeric time series
type Series struct {
	Labels []string
	Values []float64
}

// DashboardStats holds the dashboard counters and the revenue trend
type DashboardStats struct {
	TotalUsers           int
	TotalMen             int
	TotalWomen           int
	DailyActiveUsers     int
	PendingVerifications int
	PendingReports       int
	TotalRevenue         float64
	RevenueGraph         Series
}

// RevenueSummary holds the revenue summary cards
type RevenueSummary struct {
	TotalRevenue      Number `json:"total_revenue"`
	NetRevenue        Number `json:"net_revenue"`
	TotalSpent        Number `json:"total_spent"`
	TotalTransactions Number `json:"total_transactions"`
	AverageTopup      Number `json:"average_topup"`
	RewardGiven       Number `json:"reward_given"`
	GiftRevenue       Number `json:"gift_revenue"`
}

// DailyRevenue is one point of the daily revenue series
type DailyRevenue struct {
	Day     string `json:"day"`
	Revenue Number `json:"revenue"`
}

// RevenueAnalytics is the revenue page payload
type RevenueAnalytics struct {
	From    string
	To      string
	Summary RevenueSummary
	Daily   []DailyRevenue
}

// AuditEntry records one moderation action taken through the console
type AuditEntry struct {
	ID        string    `json:"id"`
	AdminName string    `json:"admin_name"`
	Queue     string    `json:"queue"`
	ItemID    string    `json:"item_id"`
	Action    string    `json:"action"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
}
