package complaint

import (
	"io"

	errors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/core/common/validation"
)

// CreateComplaintDTO carries the multipart form fields of a submission.
type CreateComplaintDTO struct {
	CategoryID  int64  `json:"category_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
}

func (dto CreateComplaintDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("category_id", dto.CategoryID).Required()
	v.Field("subject", dto.Subject).Required(errors.ErrCodeInvalidSubject).MaxLength(255, errors.ErrCodeInvalidSubject)
	v.Field("description", dto.Description).Required(errors.ErrCodeInvalidDescription).MaxLength(5000, errors.ErrCodeInvalidDescription)
	v.Field("priority", dto.Priority).OneOf(KnownPriorities, errors.ErrCodeInvalidPriority)
	return v.Validate()
}

// AttachmentUpload is one uploaded file handed to the lifecycle service.
// Content is consumed exactly once when the file store persists it.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UpdateStatusDTO is the admin status-transition request.
type UpdateStatusDTO struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

func (dto UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(KnownStatuses, errors.ErrCodeInvalidStatus)
	return v.Validate()
}

// ListFilters are the optional query filters on list endpoints. A status or
// priority of "all" means unfiltered, matching the HTTP query convention.
type ListFilters struct {
	Status   string
	Priority string
	Search   string
}

func (f ListFilters) Normalize() ListFilters {
	if f.Status == "all" {
		f.Status = ""
	}
	if f.Priority == "all" {
		f.Priority = ""
	}
	return f
}

type CreateComplaintResponse struct {
	Message         string `json:"message"`
	ComplaintID     int64  `json:"complaintId"`
	ComplaintNumber string `json:"complaintNumber"`
}

type UpdateStatusResponse struct {
	Message string `json:"message"`
}

type StatusSummary struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"in_progress"`
	Resolved     int64 `json:"resolved"`
	Closed       int64 `json:"closed"`
	HighPriority int64 `json:"high_priority"`
}

type CategoryCount struct {
	CategoryName string `json:"category_name"`
	Count        int64  `json:"count"`
}

type DashboardStats struct {
	Summary    StatusSummary   `json:"summary"`
	ByCategory []CategoryCount `json:"by_category"`
}
