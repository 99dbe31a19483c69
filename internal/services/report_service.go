package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campus-classifieds/internal/auth"
	"campus-classifieds/internal/models"
)

// ReportService handles content flagging and the moderation queue
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ReportInput carries a new report submission
type ReportInput struct {
	TargetKind string
	TargetID   uint
	Reason     string
	Details    string
}

// Create files a report. The target is a tagged reference; it may be
// deleted later without invalidating the report.
func (s *ReportService) Create(actor auth.Actor, in ReportInput) (*models.Report, error) {
	v := &validator{}
	v.oneOf("target_kind", in.TargetKind, models.TargetKinds)
	if in.TargetID == 0 {
		v.add("target_id", "is required")
	}
	v.oneOf("reason", in.Reason, models.ReportReasons)
	if err := v.err(); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID: actor.ID,
		TargetKind: in.TargetKind,
		TargetID:   in.TargetID,
		Reason:     in.Reason,
		Details:    in.Details,
		Status:     models.ReportPending,
	}
	if err := s.db.Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// Transition moves a pending report to reviewed, resolved or dismissed.
// Staff only; the three right-hand states are terminal.
func (s *ReportService) Transition(actor auth.Actor, reportID uint, status string) (*models.Report, error) {
	if !actor.CanReviewReports() {
		return nil, &PermissionError{Op: "review report"}
	}

	v := &validator{}
	v.oneOf("status", status, []string{models.ReportReviewed, models.ReportResolved, models.ReportDismissed})
	if err := v.err(); err != nil {
		return nil, err
	}

	var report models.Report
	if err := s.db.First(&report, reportID).Error; err != nil {
		return nil, wrapNotFound(err, "report", reportID)
	}
	if report.Terminal() {
		return nil, &ConflictError{Message: "report has already been " + report.Status}
	}

	now := time.Now()
	report.Status = status
	report.ReviewerID = &actor.ID
	report.ReviewedAt = &now
	if err := s.db.Save(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportEntry pairs a report with a short description of its target for
// the moderation queue.
type ReportEntry struct {
	Report models.Report `json:"report"`
	Target string        `json:"target"`
}

// List returns the moderation queue, optionally narrowed by status. Staff
// only.
func (s *ReportService) List(actor auth.Actor, status string) ([]ReportEntry, error) {
	if !actor.CanReviewReports() {
		return nil, &PermissionError{Op: "list reports"}
	}

	q := s.db.Preload("Reporter").Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, err
	}

	entries := make([]ReportEntry, 0, len(reports))
	for _, r := range reports {
		entries = append(entries, ReportEntry{Report: r, Target: s.describeTarget(r)})
	}
	return entries, nil
}

// describeTarget resolves the tagged reference to a short label. A target
// deleted since the report was filed shows as removed content, not an
// error.
func (s *ReportService) describeTarget(r models.Report) string {
	var (
		label string
		err   error
	)
	switch r.TargetKind {
	case models.TargetProduct:
		var p models.Product
		if err = s.db.First(&p, r.TargetID).Error; err == nil {
			label = fmt.Sprintf("product: %s", p.Title)
		}
	case models.TargetProperty:
		var p models.Property
		if err = s.db.First(&p, r.TargetID).Error; err == nil {
			label = fmt.Sprintf("property: %s", p.Title)
		}
	case models.TargetRestaurant:
		var rest models.Restaurant
		if err = s.db.First(&rest, r.TargetID).Error; err == nil {
			label = fmt.Sprintf("restaurant: %s", rest.Name)
		}
	case models.TargetLostItem:
		var item models.LostItem
		if err = s.db.First(&item, r.TargetID).Error; err == nil {
			label = fmt.Sprintf("lost item: %s", item.ItemName)
		}
	case models.TargetUser:
		var u models.User
		if err = s.db.First(&u, r.TargetID).Error; err == nil {
			label = fmt.Sprintf("user: %s", u.Username)
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || label == "" {
		return "content removed"
	}
	return label
}
