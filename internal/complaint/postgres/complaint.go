package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/complaint"
	complaintDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/complaint"
)

const ownerSelect = `complaints.*,
	categories.category_name AS category_name,
	users.name AS user_name,
	users.email AS user_email,
	users.phone AS user_phone`

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) complaint.RepositoryAPI {
	return &ComplaintRepository{db: db}
}

// CreateWithInitialUpdate writes the complaint, its first ledger entry and
// any attachment rows in one transaction. A duplicate complaint number
// surfaces as complaint.ErrDuplicateNumber so the caller can retry.
func (r *ComplaintRepository) CreateWithInitialUpdate(c *complaintDatamodel.Complaint, attachments []*complaintDatamodel.Attachment, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return complaint.ErrDuplicateNumber
			}
			return err
		}

		update := &complaintDatamodel.StatusUpdate{
			ComplaintID: c.ID,
			UpdatedBy:   c.UserID,
			OldStatus:   nil,
			NewStatus:   c.Status,
			Note:        note,
			CreatedAt:   c.CreatedAt,
		}
		if err := tx.Create(update).Error; err != nil {
			return err
		}

		for _, a := range attachments {
			a.ComplaintID = c.ID
			if err := tx.Create(a).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *ComplaintRepository) GetByID(id int64) (*complaintDatamodel.ComplaintWithOwner, error) {
	var row complaintDatamodel.ComplaintWithOwner
	result := r.db.Table("complaints").
		Select(ownerSelect).
		Joins("JOIN categories ON complaints.category_id = categories.category_id").
		Joins("JOIN users ON complaints.user_id = users.user_id").
		Where("complaints.complaint_id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *ComplaintRepository) GetUpdates(complaintID int64) ([]*complaintDatamodel.StatusUpdateWithAuthor, error) {
	var rows []*complaintDatamodel.StatusUpdateWithAuthor
	err := r.db.Table("complaint_updates").
		Select("complaint_updates.*, users.name AS updated_by_name").
		Joins("JOIN users ON complaint_updates.updated_by = users.user_id").
		Where("complaint_updates.complaint_id = ?", complaintID).
		Order("complaint_updates.created_at DESC, complaint_updates.update_id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ComplaintRepository) GetAttachments(complaintID int64) ([]*complaintDatamodel.Attachment, error) {
	var rows []*complaintDatamodel.Attachment
	err := r.db.Where("complaint_id = ?", complaintID).
		Order("uploaded_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ComplaintRepository) ListByUser(userID int64, f complaint.ListFilters) ([]*complaintDatamodel.ComplaintWithOwner, error) {
	return r.list(r.db.Where("complaints.user_id = ?", userID), f)
}

func (r *ComplaintRepository) ListAll(f complaint.ListFilters) ([]*complaintDatamodel.ComplaintWithOwner, error) {
	return r.list(r.db, f)
}

func (r *ComplaintRepository) list(tx *gorm.DB, f complaint.ListFilters) ([]*complaintDatamodel.ComplaintWithOwner, error) {
	query := tx.Table("complaints").
		Select(ownerSelect).
		Joins("JOIN categories ON complaints.category_id = categories.category_id").
		Joins("JOIN users ON complaints.user_id = users.user_id")

	if f.Status != "" {
		query = query.Where("complaints.status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("complaints.priority = ?", f.Priority)
	}
	if f.Search != "" {
		// LOWER + LIKE keeps the search portable across postgres and sqlite.
		pattern := "%" + f.Search + "%"
		query = query.Where(
			"LOWER(complaints.subject) LIKE LOWER(?) OR LOWER(complaints.complaint_number) LIKE LOWER(?) OR LOWER(categories.category_name) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}

	var rows []*complaintDatamodel.ComplaintWithOwner
	err := query.Order("complaints.created_at DESC").Scan(&rows).Error
	return rows, err
}

// UpdateStatusWithHistory applies the status change and appends the ledger
// entry in one transaction, returning the previous status and the note that
// was recorded. Terminal statuses stamp resolved_at.
func (r *ComplaintRepository) UpdateStatusWithHistory(complaintID, updatedBy int64, newStatus, note string) (string, string, error) {
	var oldStatus, appliedNote string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current complaintDatamodel.Complaint
		if err := tx.Where("complaint_id = ?", complaintID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrComplaintNotFound
			}
			return err
		}
		oldStatus = current.Status

		now := time.Now()
		changes := map[string]interface{}{
			"status":     newStatus,
			"updated_at": now,
		}
		if complaint.IsTerminal(newStatus) {
			changes["resolved_at"] = now
		}
		if err := tx.Model(&complaintDatamodel.Complaint{}).
			Where("complaint_id = ?", complaintID).
			Updates(changes).Error; err != nil {
			return err
		}

		appliedNote = note
		if appliedNote == "" {
			appliedNote = complaint.DefaultStatusNote(oldStatus, newStatus)
		}

		entry := &complaintDatamodel.StatusUpdate{
			ComplaintID: complaintID,
			UpdatedBy:   updatedBy,
			OldStatus:   &oldStatus,
			NewStatus:   newStatus,
			Note:        appliedNote,
			CreatedAt:   now,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return "", "", err
	}

	return oldStatus, appliedNote, nil
}

// GetStats computes the dashboard aggregates in two queries: a single-row
// status summary and a per-category breakdown.
func (r *ComplaintRepository) GetStats() (*complaintDatamodel.StatusSummary, []*complaintDatamodel.CategoryCount, error) {
	var summary complaintDatamodel.StatusSummary
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending,
			SUM(CASE WHEN status = 'in-progress' THEN 1 ELSE 0 END) AS in_progress,
			SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END) AS resolved,
			SUM(CASE WHEN status = 'closed' THEN 1 ELSE 0 END) AS closed,
			SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END) AS high_priority
		FROM complaints`).Scan(&summary).Error
	if err != nil {
		return nil, nil, err
	}

	var byCategory []*complaintDatamodel.CategoryCount
	err = r.db.Raw(`
		SELECT categories.category_name AS category_name, COUNT(*) AS count
		FROM complaints
		JOIN categories ON complaints.category_id = categories.category_id
		GROUP BY categories.category_name
		ORDER BY count DESC`).Scan(&byCategory).Error
	if err != nil {
		return nil, nil, err
	}

	return &summary, byCategory, nil
}
