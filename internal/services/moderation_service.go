package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/novagram/backend/internal/models"
	"github.com/novagram/backend/internal/repositories"
	"github.com/sirupsen/logrus"
)

// Moderation actions accepted by ModerateContent
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionFlag    = "flag"
)

// ErrUnsupportedAction is returned for a moderation action outside
// approve/reject/flag.
var ErrUnsupportedAction = errors.New("unsupported moderation action")

// moderatedContent is the per-kind dispatch target for content moderation:
// one implementation per content type that can carry a moderation status.
type moderatedContent interface {
	// SetStatus applies the status and reports how many rows matched.
	SetStatus(ctx context.Context, id string, status string) (int64, error)
}

type moderatedPosts struct {
	repo repositories.PostRepository
}

func (m moderatedPosts) SetStatus(ctx context.Context, id string, status string) (int64, error) {
	return m.repo.SetStatus(ctx, id, status)
}

type moderatedComments struct {
	repo repositories.CommentRepository
}

func (m moderatedComments) SetStatus(ctx context.Context, id string, status string) (int64, error) {
	commentID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, nil
	}
	return m.repo.SetStatus(uint(commentID), status)
}

// ModerationService owns the report queue, direct content moderation, and
// the append-only audit log. Reports and audit entries live in schemaless
// storage apart from the primary entity stores; they are write-mostly and
// never joined back into business invariants.
type ModerationService struct {
	reportRepo repositories.ReportRepository
	auditRepo  repositories.AuditRepository
	content    map[string]moderatedContent
	log        *logrus.Logger
}

// NewModerationService creates a ModerationService dispatching over posts
// and comments
func NewModerationService(
	reportRepo repositories.ReportRepository,
	auditRepo repositories.AuditRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	log *logrus.Logger,
) *ModerationService {
	return &ModerationService{
		reportRepo: reportRepo,
		auditRepo:  auditRepo,
		content: map[string]moderatedContent{
			"post":    moderatedPosts{repo: postRepo},
			"comment": moderatedComments{repo: commentRepo},
		},
		log: log,
	}
}

// ReportContent appends a pending report to the queue
func (s *ModerationService) ReportContent(ctx context.Context, reporterID uint, targetID, targetType, reason, severity string) (*models.Report, error) {
	report := &models.Report{
		TargetID:   targetID,
		TargetType: targetType,
		ReporterID: reporterID,
		Reason:     reason,
		Severity:   severity,
	}
	if err := s.reportRepo.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetPendingReports pages through the unhandled report queue
func (s *ModerationService) GetPendingReports(ctx context.Context, page, limit int) ([]models.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.GetPendingReports(ctx, page, limit)
}

// GetReportStats returns aggregate report counts
func (s *ModerationService) GetReportStats(ctx context.Context) (*models.ReportStats, error) {
	return s.reportRepo.GetStats(ctx)
}

// HandleReport resolves a report: action "approve" marks it resolved, any
// other action marks it rejected. The handling admin and time are recorded
// on the report, and one audit entry documents the action. A report id that
// matches nothing is ErrReportNotFound.
func (s *ModerationService) HandleReport(ctx context.Context, reportID, action string, adminID uint, notes, ip string) error {
	status := models.ReportRejected
	if action == ActionApprove {
		status = models.ReportResolved
	}

	matched, err := s.reportRepo.Resolve(ctx, reportID, status, adminID, notes)
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrReportNotFound
	}

	return s.LogAuditAction(ctx, adminID, "report_handled_"+action, "report", reportID, map[string]interface{}{
		"status": status,
		"notes":  notes,
	}, ip)
}

// ModerateContent applies a moderation action directly to a post or
// comment. Unknown content types fail with ErrUnsupportedContentType;
// unknown ids with the kind's not-found error.
func (s *ModerationService) ModerateContent(ctx context.Context, contentID, contentType, action string) error {
	target, ok := s.content[contentType]
	if !ok {
		return ErrUnsupportedContentType
	}

	var status string
	switch action {
	case ActionApprove:
		status = models.ModerationApproved
	case ActionReject:
		status = models.ModerationRejected
	case ActionFlag:
		status = models.ModerationFlagged
	default:
		return ErrUnsupportedAction
	}

	matched, err := target.SetStatus(ctx, contentID, status)
	if err != nil {
		return err
	}
	if matched == 0 {
		if contentType == "comment" {
			return ErrCommentNotFound
		}
		return ErrPostNotFound
	}
	return nil
}

// LogAuditAction appends one entry to the audit log; entries are never
// mutated afterwards
func (s *ModerationService) LogAuditAction(ctx context.Context, adminID uint, action, targetType, targetID string, details map[string]interface{}, ip string) error {
	entry := &models.AuditLogEntry{
		AdminID:    adminID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		IPAddress:  ip,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		// an unlogged admin action is worth surfacing loudly
		s.log.WithError(err).WithField("action", action).Error("audit append failed")
		return err
	}
	return nil
}

// GetAuditLogs reads audit entries through the given filter
func (s *ModerationService) GetAuditLogs(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, int64, error) {
	return s.auditRepo.Find(ctx, filter)
}

// GetAuditStats returns aggregate audit log counts
func (s *ModerationService) GetAuditStats(ctx context.Context) (*models.AuditStats, error) {
	return s.auditRepo.GetStats(ctx)
}
