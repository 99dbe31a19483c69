package models

import (
	"time"
)

// Report statuses. pending is the sole initial state; the other three are terminal.
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report target kinds. A tagged reference replaces the loose
// content_type/content_id pair so moderators can resolve targets safely.
const (
	TargetProduct    = "product"
	TargetProperty   = "property"
	TargetRestaurant = "restaurant"
	TargetLostItem   = "lost_item"
	TargetUser       = "user"
)

// TargetKinds lists every reportable content kind
var TargetKinds = []string{TargetProduct, TargetProperty, TargetRestaurant, TargetLostItem, TargetUser}

// ReportReasons lists accepted report reasons
var ReportReasons = []string{"spam", "scam", "inappropriate", "harassment", "other"}

// Report flags content or a user for moderation. The target may no longer
// exist by the time a moderator looks at it; that is shown as removed
// content, not treated as an error.
type Report struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ReporterID uint       `gorm:"index;not null" json:"reporter_id"`
	Reporter   *User      `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	TargetKind string     `gorm:"size:20;not null;index" json:"target_kind"` // product, property, restaurant, lost_item, user
	TargetID   uint       `gorm:"not null" json:"target_id"`
	Reason     string     `gorm:"size:20;not null" json:"reason"` // spam, scam, inappropriate, harassment, other
	Details    string     `gorm:"type:text" json:"details,omitempty"`
	Status     string     `gorm:"size:20;default:pending;index" json:"status"` // pending, reviewed, resolved, dismissed
	ReviewerID *uint      `gorm:"index" json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Report model
func (Report) TableName() string {
	return "reports"
}

// Terminal reports whether no further status transition is allowed
func (r *Report) Terminal() bool {
	return r.Status != ReportPending
}
