package complaint

import "time"

type Complaint struct {
	ID              int64      `gorm:"primaryKey;column:complaint_id"`
	ComplaintNumber string     `gorm:"column:complaint_number;uniqueIndex;not null"`
	UserID          int64      `gorm:"column:user_id;not null"`
	CategoryID      int64      `gorm:"column:category_id;not null"`
	Subject         string     `gorm:"column:subject;not null"`
	Description     string     `gorm:"column:description;not null"`
	Priority        string     `gorm:"column:priority;default:medium"`
	Status          string     `gorm:"column:status;default:pending"`
	CreatedAt       time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;default:now()"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// StatusUpdate is one row of the append-only status ledger. Rows are never
// updated or deleted; the complaint row's status is a projection of the
// latest entry.
type StatusUpdate struct {
	ID          int64     `gorm:"primaryKey;column:update_id"`
	ComplaintID int64     `gorm:"column:complaint_id;not null"`
	UpdatedBy   int64     `gorm:"column:updated_by;not null"`
	OldStatus   *string   `gorm:"column:old_status"`
	NewStatus   string    `gorm:"column:new_status;not null"`
	Note        string    `gorm:"column:note"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (StatusUpdate) TableName() string {
	return "complaint_updates"
}

type Attachment struct {
	ID          int64     `gorm:"primaryKey;column:attachment_id"`
	ComplaintID int64     `gorm:"column:complaint_id;not null"`
	FileName    string    `gorm:"column:file_name;not null"`
	FilePath    string    `gorm:"column:file_path;not null"`
	FileType    string    `gorm:"column:file_type"`
	FileSize    int64     `gorm:"column:file_size"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;default:now()"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// ComplaintWithOwner is the read shape joined with the category name and
// owner identity, used by list and detail queries.
type ComplaintWithOwner struct {
	Complaint    `gorm:"embedded"`
	CategoryName string  `gorm:"column:category_name"`
	UserName     string  `gorm:"column:user_name"`
	UserEmail    string  `gorm:"column:user_email"`
	UserPhone    *string `gorm:"column:user_phone"`
}

// StatusUpdateWithAuthor joins a ledger row with the updater's name.
type StatusUpdateWithAuthor struct {
	StatusUpdate  `gorm:"embedded"`
	UpdatedByName string `gorm:"column:updated_by_name"`
}

type StatusSummary struct {
	Total        int64 `gorm:"column:total"`
	Pending      int64 `gorm:"column:pending"`
	InProgress   int64 `gorm:"column:in_progress"`
	Resolved     int64 `gorm:"column:resolved"`
	Closed       int64 `gorm:"column:closed"`
	HighPriority int64 `gorm:"column:high_priority"`
}

type CategoryCount struct {
	CategoryName string `gorm:"column:category_name"`
	Count        int64  `gorm:"column:count"`
}
