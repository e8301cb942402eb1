package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses
const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
	ReportRejected = "rejected"
)

// Report severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Report is an append-oriented content report stored in MongoDB and resolved
// in place by the moderation engine.
type Report struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TargetID   string             `json:"target_id" bson:"target_id"`
	TargetType string             `json:"target_type" bson:"target_type"` // post, comment, user, story
	ReporterID uint               `json:"reporter_id" bson:"reporter_id"`
	Reason     string             `json:"reason" bson:"reason"`
	Severity   string             `json:"severity" bson:"severity"`
	Status     string             `json:"status" bson:"status"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"` // moderator free text
	HandledBy  uint               `json:"handled_by,omitempty" bson:"handled_by,omitempty"`
	HandledAt  *time.Time         `json:"handled_at,omitempty" bson:"handled_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// ReportStats aggregates report counts for the admin dashboard
type ReportStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	BySeverity map[string]int64 `json:"by_severity"`
}

// CreateReportRequest defines the request body for reporting content
type CreateReportRequest struct {
	TargetID   string `json:"target_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=post comment user story"`
	Reason     string `json:"reason" validate:"required,min=3,max=500"`
	Severity   string `json:"severity" validate:"required,oneof=low medium high critical"`
}

// HandleReportRequest defines the request body for resolving a report
type HandleReportRequest struct {
	Action string `json:"action" validate:"required"`
	Notes  string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
