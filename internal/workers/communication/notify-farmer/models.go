package notifyfarmer

import "kisan-scheme-workers/internal/scheme"

type Input struct {
	FarmerID         string                  `json:"farmerId"`
	NotificationType string                  `json:"notificationType"`
	EligibleSchemes  []scheme.EligibleScheme `json:"eligibleSchemes"`
	ReadinessStatus  string                  `json:"readinessStatus,omitempty"`
	MissingDocuments []string                `json:"missingDocuments,omitempty"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeSchemesMatched   = "schemes_matched"
	TypeDocumentsPending = "documents_pending"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
