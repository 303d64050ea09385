package complaint

import (
	"fmt"
	"math/rand/v2"
	"time"

	errors "github.com/frahmantamala/complaint-management/internal"
	complaintDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/complaint"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const NumberPrefix = "CMP"

// Any known status may follow any other; no transition graph is enforced,
// only membership in the known set.
var KnownStatuses = []string{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

var KnownPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

var ErrDuplicateNumber = errors.NewConflictError("Complaint number already exists", errors.ErrCodeDuplicateNumber)

// IsTerminal reports whether the status marks the complaint resolved,
// which stamps resolved_at.
func IsTerminal(status string) bool {
	return status == StatusResolved || status == StatusClosed
}

// NewComplaintNumber builds a human-facing complaint number from the current
// unix-millisecond timestamp and a random 3-digit suffix. Uniqueness is
// enforced by the database; on collision the caller retries with a fresh one.
func NewComplaintNumber() string {
	return fmt.Sprintf("%s%d%03d", NumberPrefix, time.Now().UnixMilli(), rand.IntN(1000))
}

// InitialStatusNote is the ledger note written at submission time.
const InitialStatusNote = "Complaint submitted"

// DefaultStatusNote is used when an admin updates a status without a note.
func DefaultStatusNote(oldStatus, newStatus string) string {
	return fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
}

type Complaint struct {
	ID              int64      `json:"complaint_id"`
	ComplaintNumber string     `json:"complaint_number"`
	UserID          int64      `json:"user_id"`
	CategoryID      int64      `json:"category_id"`
	CategoryName    string     `json:"category_name"`
	Subject         string     `json:"subject"`
	Description     string     `json:"description"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	UserName        string     `json:"user_name,omitempty"`
	UserEmail       string     `json:"user_email,omitempty"`
	UserPhone       *string    `json:"user_phone,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// StatusUpdate is one entry of the append-only audit ledger.
type StatusUpdate struct {
	ID            int64     `json:"update_id"`
	ComplaintID   int64     `json:"complaint_id"`
	UpdatedBy     int64     `json:"updated_by"`
	UpdatedByName string    `json:"updated_by_name"`
	OldStatus     *string   `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

type Attachment struct {
	ID          int64     `json:"attachment_id"`
	ComplaintID int64     `json:"complaint_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileType    string    `json:"file_type"`
	FileSize    int64     `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Detail is the full read shape: the complaint, its ledger newest first,
// and its attachments.
type Detail struct {
	Complaint
	Updates     []*StatusUpdate `json:"updates"`
	Attachments []*Attachment   `json:"attachments"`
}

func FromDataModel(c *complaintDatamodel.ComplaintWithOwner) *Complaint {
	return &Complaint{
		ID:              c.ID,
		ComplaintNumber: c.ComplaintNumber,
		UserID:          c.UserID,
		CategoryID:      c.CategoryID,
		CategoryName:    c.CategoryName,
		Subject:         c.Subject,
		Description:     c.Description,
		Priority:        c.Priority,
		Status:          c.Status,
		UserName:        c.UserName,
		UserEmail:       c.UserEmail,
		UserPhone:       c.UserPhone,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		ResolvedAt:      c.ResolvedAt,
	}
}

func FromDataModelSlice(rows []*complaintDatamodel.ComplaintWithOwner) []*Complaint {
	result := make([]*Complaint, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

func UpdateFromDataModel(u *complaintDatamodel.StatusUpdateWithAuthor) *StatusUpdate {
	return &StatusUpdate{
		ID:            u.ID,
		ComplaintID:   u.ComplaintID,
		UpdatedBy:     u.UpdatedBy,
		UpdatedByName: u.UpdatedByName,
		OldStatus:     u.OldStatus,
		NewStatus:     u.NewStatus,
		Note:          u.Note,
		CreatedAt:     u.CreatedAt,
	}
}

func AttachmentFromDataModel(a *complaintDatamodel.Attachment) *Attachment {
	return &Attachment{
		ID:          a.ID,
		ComplaintID: a.ComplaintID,
		FileName:    a.FileName,
		FilePath:    a.FilePath,
		FileType:    a.FileType,
		FileSize:    a.FileSize,
		UploadedAt:  a.UploadedAt,
	}
}
