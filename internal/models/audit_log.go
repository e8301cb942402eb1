package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLogEntry records a single administrative action in MongoDB. Entries
// are strictly append-only; nothing in the system updates or deletes them.
type AuditLogEntry struct {
	ID         primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	AdminID    uint                   `json:"admin_id" bson:"admin_id"`
	Action     string                 `json:"action" bson:"action"`
	TargetType string                 `json:"target_type" bson:"target_type"`
	TargetID   string                 `json:"target_id" bson:"target_id"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
}

// AuditLogFilter narrows audit log reads. Zero values mean "no constraint";
// the date range is half-open on either side.
type AuditLogFilter struct {
	AdminID    uint
	Action     string // substring match
	TargetType string
	DateFrom   *time.Time // timestamp >= DateFrom
	DateTo     *time.Time // timestamp <= DateTo
	Page       int
	Limit      int
}

// AuditStats aggregates audit log counts for the admin dashboard
type AuditStats struct {
	Total    int64            `json:"total"`
	ByAction map[string]int64 `json:"by_action"`
	ByAdmin  map[uint]int64   `json:"by_admin"`
}
