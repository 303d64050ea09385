package complaint

import (
	"context"
	"io"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/auth"
	"github.com/frahmantamala/complaint-management/internal/core/events"

	complaintDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/complaint"
)

// numberRetries bounds how often creation retries after a complaint-number
// collision before giving up.
const numberRetries = 3

// RepositoryAPI defines the data access methods for complaints. Multi-row
// writes (creation, status transition) are transactional: either every row
// lands or none does.
type RepositoryAPI interface {
	CreateWithInitialUpdate(c *complaintDatamodel.Complaint, attachments []*complaintDatamodel.Attachment, note string) error
	GetByID(id int64) (*complaintDatamodel.ComplaintWithOwner, error)
	GetUpdates(complaintID int64) ([]*complaintDatamodel.StatusUpdateWithAuthor, error)
	GetAttachments(complaintID int64) ([]*complaintDatamodel.Attachment, error)
	ListByUser(userID int64, f ListFilters) ([]*complaintDatamodel.ComplaintWithOwner, error)
	ListAll(f ListFilters) ([]*complaintDatamodel.ComplaintWithOwner, error)
	UpdateStatusWithHistory(complaintID, updatedBy int64, newStatus, note string) (oldStatus, appliedNote string, err error)
	GetStats() (*complaintDatamodel.StatusSummary, []*complaintDatamodel.CategoryCount, error)
}

// FileStore persists uploaded attachment content and returns the stored path.
type FileStore interface {
	Save(ctx context.Context, fileName string, content io.Reader) (string, error)
}

// CategoryChecker validates that a category id exists in the catalog.
type CategoryChecker interface {
	Exists(id int64) (bool, error)
}

// EventPublisher dispatches lifecycle events; failures never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service is the complaint lifecycle service: creation, retrieval and
// role-gated status transitions, each transition recorded in the ledger.
type Service struct {
	repo       RepositoryAPI
	files      FileStore
	categories CategoryChecker
	bus        EventPublisher
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, files FileStore, categories CategoryChecker, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		files:      files,
		categories: categories,
		bus:        bus,
		logger:     logger,
	}
}

// Create submits a new complaint: persists uploaded files, then writes the
// complaint row, the initial ledger entry and the attachment rows in one
// transaction. A complaint-number collision is retried with a fresh number.
func (s *Service) Create(ctx context.Context, userID int64, dto CreateComplaintDTO, uploads []*AttachmentUpload) (*CreateComplaintResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("complaint validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	exists, err := s.categories.Exists(dto.CategoryID)
	if err != nil {
		s.logger.Error("failed to check category", "error", err, "category_id", dto.CategoryID)
		return nil, errors.NewInternalError("Failed to submit complaint", err)
	}
	if !exists {
		return nil, errors.NewValidationFieldError("category_id", "unknown category", errors.ErrCodeInvalidCategory)
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	attachments, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var record *complaintDatamodel.Complaint
	for attempt := 0; attempt < numberRetries; attempt++ {
		now := time.Now()
		record = &complaintDatamodel.Complaint{
			ComplaintNumber: NewComplaintNumber(),
			UserID:          userID,
			CategoryID:      dto.CategoryID,
			Subject:         dto.Subject,
			Description:     dto.Description,
			Priority:        priority,
			Status:          StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err = s.repo.CreateWithInitialUpdate(record, attachments, InitialStatusNote)
		if err == nil {
			break
		}
		if appErr, ok := errors.IsAppError(err); ok && appErr.Code == errors.ErrCodeDuplicateNumber {
			s.logger.Warn("complaint number collision, retrying",
				"complaint_number", record.ComplaintNumber,
				"attempt", attempt+1)
			continue
		}
		s.logger.Error("failed to create complaint", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to submit complaint", err)
	}
	if err != nil {
		s.logger.Error("complaint number collisions exhausted retries", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to submit complaint", err)
	}

	s.publish(ctx, events.NewComplaintCreatedEvent(record.ID, record.ComplaintNumber, userID, priority))

	s.logger.Info("complaint created",
		"complaint_id", record.ID,
		"complaint_number", record.ComplaintNumber,
		"user_id", userID,
		"priority", priority,
		"attachments", len(attachments))

	return &CreateComplaintResponse{
		Message:         "Complaint submitted successfully",
		ComplaintID:     record.ID,
		ComplaintNumber: record.ComplaintNumber,
	}, nil
}

// Get returns the full complaint detail with ledger history (newest first)
// and attachments. Only the owner or an admin may read it.
func (s *Service) Get(complaintID int64, requester *auth.User) (*Detail, error) {
	row, err := s.repo.GetByID(complaintID)
	if err != nil {
		s.logger.Error("failed to get complaint", "error", err, "complaint_id", complaintID)
		return nil, errors.NewInternalError("Failed to fetch complaint details", err)
	}
	if row == nil {
		return nil, errors.ErrComplaintNotFound
	}

	if !requester.IsAdmin() && row.UserID != requester.ID {
		s.logger.Warn("unauthorized complaint access",
			"complaint_id", complaintID,
			"requester_id", requester.ID,
			"owner_id", row.UserID)
		return nil, errors.ErrAccessDenied
	}

	updateRows, err := s.repo.GetUpdates(complaintID)
	if err != nil {
		s.logger.Error("failed to get complaint updates", "error", err, "complaint_id", complaintID)
		return nil, errors.NewInternalError("Failed to fetch complaint details", err)
	}

	attachmentRows, err := s.repo.GetAttachments(complaintID)
	if err != nil {
		s.logger.Error("failed to get attachments", "error", err, "complaint_id", complaintID)
		return nil, errors.NewInternalError("Failed to fetch complaint details", err)
	}

	detail := &Detail{
		Complaint:   *FromDataModel(row),
		Updates:     make([]*StatusUpdate, 0, len(updateRows)),
		Attachments: make([]*Attachment, 0, len(attachmentRows)),
	}
	for _, u := range updateRows {
		detail.Updates = append(detail.Updates, UpdateFromDataModel(u))
	}
	for _, a := range attachmentRows {
		detail.Attachments = append(detail.Attachments, AttachmentFromDataModel(a))
	}

	return detail, nil
}

// ListForUser returns the caller's complaints newest first, optionally
// filtered by status and a case-insensitive search term.
func (s *Service) ListForUser(userID int64, f ListFilters) ([]*Complaint, error) {
	rows, err := s.repo.ListByUser(userID, f.Normalize())
	if err != nil {
		s.logger.Error("failed to list user complaints", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to fetch complaints", err)
	}
	return FromDataModelSlice(rows), nil
}

// ListAll returns complaints across all users; admin only.
func (s *Service) ListAll(requester *auth.User, f ListFilters) ([]*Complaint, error) {
	if !requester.IsAdmin() {
		s.logger.Warn("list all complaints denied", "requester_id", requester.ID, "role", requester.Role)
		return nil, errors.ErrAdminRequired
	}

	rows, err := s.repo.ListAll(f.Normalize())
	if err != nil {
		s.logger.Error("failed to list complaints", "error", err)
		return nil, errors.NewInternalError("Failed to fetch complaints", err)
	}
	return FromDataModelSlice(rows), nil
}

// UpdateStatus transitions a complaint to a new status and appends the
// matching ledger entry in one transaction; admin only. The requested status
// must be a known one, but any known-to-known transition is accepted.
func (s *Service) UpdateStatus(ctx context.Context, complaintID int64, requester *auth.User, dto UpdateStatusDTO) error {
	if !requester.IsAdmin() {
		s.logger.Warn("status update denied", "complaint_id", complaintID, "requester_id", requester.ID, "role", requester.Role)
		return errors.ErrAdminRequired
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	row, err := s.repo.GetByID(complaintID)
	if err != nil {
		s.logger.Error("failed to load complaint for status update", "error", err, "complaint_id", complaintID)
		return errors.NewInternalError("Failed to update complaint status", err)
	}
	if row == nil {
		return errors.ErrComplaintNotFound
	}

	oldStatus, appliedNote, err := s.repo.UpdateStatusWithHistory(complaintID, requester.ID, dto.Status, dto.Note)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return appErr
		}
		s.logger.Error("failed to update complaint status", "error", err, "complaint_id", complaintID)
		return errors.NewInternalError("Failed to update complaint status", err)
	}

	s.publish(ctx, events.NewComplaintStatusChangedEvent(
		complaintID, row.ComplaintNumber, row.UserID, requester.ID, oldStatus, dto.Status, appliedNote))

	s.logger.Info("complaint status updated",
		"complaint_id", complaintID,
		"old_status", oldStatus,
		"new_status", dto.Status,
		"updated_by", requester.ID)

	return nil
}

// DashboardStats aggregates live counts for the admin dashboard.
func (s *Service) DashboardStats(requester *auth.User) (*DashboardStats, error) {
	if !requester.IsAdmin() {
		s.logger.Warn("dashboard stats denied", "requester_id", requester.ID, "role", requester.Role)
		return nil, errors.ErrAdminRequired
	}

	summary, byCategory, err := s.repo.GetStats()
	if err != nil {
		s.logger.Error("failed to compute dashboard stats", "error", err)
		return nil, errors.NewInternalError("Failed to fetch statistics", err)
	}

	stats := &DashboardStats{
		Summary: StatusSummary{
			Total:        summary.Total,
			Pending:      summary.Pending,
			InProgress:   summary.InProgress,
			Resolved:     summary.Resolved,
			Closed:       summary.Closed,
			HighPriority: summary.HighPriority,
		},
		ByCategory: make([]CategoryCount, 0, len(byCategory)),
	}
	for _, c := range byCategory {
		stats.ByCategory = append(stats.ByCategory, CategoryCount{
			CategoryName: c.CategoryName,
			Count:        c.Count,
		})
	}

	return stats, nil
}

func (s *Service) storeUploads(ctx context.Context, uploads []*AttachmentUpload) ([]*complaintDatamodel.Attachment, error) {
	attachments := make([]*complaintDatamodel.Attachment, 0, len(uploads))
	for _, up := range uploads {
		path, err := s.files.Save(ctx, up.FileName, up.Content)
		if err != nil {
			s.logger.Error("failed to store attachment", "error", err, "file_name", up.FileName)
			return nil, errors.NewInternalError("Failed to submit complaint", err)
		}
		attachments = append(attachments, &complaintDatamodel.Attachment{
			FileName:   up.FileName,
			FilePath:   path,
			FileType:   up.ContentType,
			FileSize:   up.Size,
			UploadedAt: time.Now(),
		})
	}
	return attachments, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "error", err, "event_type", event.EventType())
	}
}
