package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeComplaintCreated       = "complaint.created"
	EventTypeComplaintStatusChanged = "complaint.status_changed"
)

type ComplaintCreatedEvent struct {
	BaseEvent
	ComplaintID     int64  `json:"complaint_id"`
	ComplaintNumber string `json:"complaint_number"`
	UserID          int64  `json:"user_id"`
	Priority        string `json:"priority"`
}

func NewComplaintCreatedEvent(complaintID int64, complaintNumber string, userID int64, priority string) *ComplaintCreatedEvent {
	return &ComplaintCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeComplaintCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"complaint_id":     complaintID,
				"complaint_number": complaintNumber,
				"user_id":          userID,
				"priority":         priority,
			},
		},
		ComplaintID:     complaintID,
		ComplaintNumber: complaintNumber,
		UserID:          userID,
		Priority:        priority,
	}
}

type ComplaintStatusChangedEvent struct {
	BaseEvent
	ComplaintID     int64  `json:"complaint_id"`
	ComplaintNumber string `json:"complaint_number"`
	OwnerID         int64  `json:"owner_id"`
	UpdatedBy       int64  `json:"updated_by"`
	OldStatus       string `json:"old_status"`
	NewStatus       string `json:"new_status"`
	Note            string `json:"note"`
}

func NewComplaintStatusChangedEvent(complaintID int64, complaintNumber string, ownerID, updatedBy int64, oldStatus, newStatus, note string) *ComplaintStatusChangedEvent {
	return &ComplaintStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeComplaintStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"complaint_id":     complaintID,
				"complaint_number": complaintNumber,
				"owner_id":         ownerID,
				"updated_by":       updatedBy,
				"old_status":       oldStatus,
				"new_status":       newStatus,
				"note":             note,
			},
		},
		ComplaintID:     complaintID,
		ComplaintNumber: complaintNumber,
		OwnerID:         ownerID,
		UpdatedBy:       updatedBy,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		Note:            note,
	}
}
