package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	apperrors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/complaint"
	complaintPostgres "github.com/frahmantamala/complaint-management/internal/complaint/postgres"
	complaintDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/complaint"
)

func TestComplaintRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Complaint Repository Suite")
}

// SQLite-compatible models for testing

type SQLiteUser struct {
	ID           int64   `gorm:"primaryKey;column:user_id"`
	Name         string  `gorm:"column:name;not null"`
	Email        string  `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string `gorm:"column:phone"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Role         string  `gorm:"column:role"`
	CreatedAt    time.Time
}

func (SQLiteUser) TableName() string { return "users" }

type SQLiteCategory struct {
	ID   int64  `gorm:"primaryKey;column:category_id"`
	Name string `gorm:"column:category_name;uniqueIndex;not null"`
}

func (SQLiteCategory) TableName() string { return "categories" }

type SQLiteComplaint struct {
	ID              int64  `gorm:"primaryKey;column:complaint_id"`
	ComplaintNumber string `gorm:"column:complaint_number;uniqueIndex;not null"`
	UserID          int64  `gorm:"column:user_id;not null"`
	CategoryID      int64  `gorm:"column:category_id;not null"`
	Subject         string `gorm:"column:subject;not null"`
	Description     string `gorm:"column:description;not null"`
	Priority        string `gorm:"column:priority"`
	Status          string `gorm:"column:status"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time `gorm:"column:resolved_at"`
}

func (SQLiteComplaint) TableName() string { return "complaints" }

type SQLiteStatusUpdate struct {
	ID          int64   `gorm:"primaryKey;column:update_id"`
	ComplaintID int64   `gorm:"column:complaint_id;not null"`
	UpdatedBy   int64   `gorm:"column:updated_by;not null"`
	OldStatus   *string `gorm:"column:old_status"`
	NewStatus   string  `gorm:"column:new_status;not null"`
	Note        string  `gorm:"column:note"`
	CreatedAt   time.Time
}

func (SQLiteStatusUpdate) TableName() string { return "complaint_updates" }

type SQLiteAttachment struct {
	ID          int64  `gorm:"primaryKey;column:attachment_id"`
	ComplaintID int64  `gorm:"column:complaint_id;not null"`
	FileName    string `gorm:"column:file_name;not null"`
	FilePath    string `gorm:"column:file_path;not null"`
	FileType    string `gorm:"column:file_type"`
	FileSize    int64  `gorm:"column:file_size"`
	UploadedAt  time.Time `gorm:"column:uploaded_at"`
}

func (SQLiteAttachment) TableName() string { return "attachments" }

var _ = Describe("Complaint Repository", func() {
	var (
		db   *gorm.DB
		repo complaint.RepositoryAPI
	)

	const (
		ownerID  = int64(1)
		adminID  = int64(2)
		billing  = int64(1)
		delivery = int64(2)
	)

	newComplaint := func(number, subject, priority string) *complaintDatamodel.Complaint {
		now := time.Now()
		return &complaintDatamodel.Complaint{
			ComplaintNumber: number,
			UserID:          ownerID,
			CategoryID:      billing,
			Subject:         subject,
			Description:     "something went wrong",
			Priority:        priority,
			Status:          complaint.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&SQLiteUser{}, &SQLiteCategory{}, &SQLiteComplaint{},
			&SQLiteStatusUpdate{}, &SQLiteAttachment{},
		)
		Expect(err).NotTo(HaveOccurred())

		phone := "555-0100"
		Expect(db.Create(&SQLiteUser{ID: ownerID, Name: "Owner", Email: "owner@mail.com", Phone: &phone, PasswordHash: "x", Role: "user"}).Error).To(Succeed())
		Expect(db.Create(&SQLiteUser{ID: adminID, Name: "Admin", Email: "admin@mail.com", PasswordHash: "x", Role: "admin"}).Error).To(Succeed())
		Expect(db.Create(&SQLiteCategory{ID: billing, Name: "Billing & Payments"}).Error).To(Succeed())
		Expect(db.Create(&SQLiteCategory{ID: delivery, Name: "Delivery & Shipping"}).Error).To(Succeed())

		repo = complaintPostgres.NewComplaintRepository(db)
	})

	Describe("CreateWithInitialUpdate", func() {
		It("should create the complaint with one ledger entry", func() {
			c := newComplaint("CMP1700000000001123", "Broken invoice", complaint.PriorityHigh)

			err := repo.CreateWithInitialUpdate(c, nil, "Complaint submitted")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))

			updates, err := repo.GetUpdates(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(HaveLen(1))
			Expect(updates[0].OldStatus).To(BeNil())
			Expect(updates[0].NewStatus).To(Equal(complaint.StatusPending))
			Expect(updates[0].Note).To(Equal("Complaint submitted"))
			Expect(updates[0].UpdatedByName).To(Equal("Owner"))
		})

		It("should store attachment rows bound to the complaint", func() {
			c := newComplaint("CMP1700000000002123", "Broken invoice", complaint.PriorityLow)
			attachments := []*complaintDatamodel.Attachment{
				{FileName: "receipt.pdf", FilePath: "uploads/1-receipt.pdf", FileType: "application/pdf", FileSize: 1024, UploadedAt: time.Now()},
			}

			err := repo.CreateWithInitialUpdate(c, attachments, "Complaint submitted")
			Expect(err).NotTo(HaveOccurred())

			stored, err := repo.GetAttachments(c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(HaveLen(1))
			Expect(stored[0].ComplaintID).To(Equal(c.ID))
			Expect(stored[0].FileName).To(Equal("receipt.pdf"))
		})

		It("should report a duplicate complaint number as a conflict", func() {
			first := newComplaint("CMP1700000000003123", "First", complaint.PriorityMedium)
			Expect(repo.CreateWithInitialUpdate(first, nil, "Complaint submitted")).To(Succeed())

			dup := newComplaint("CMP1700000000003123", "Second", complaint.PriorityMedium)
			err := repo.CreateWithInitialUpdate(dup, nil, "Complaint submitted")

			Expect(err).To(Equal(complaint.ErrDuplicateNumber))
		})

		It("should not leave a complaint row behind when the transaction fails", func() {
			first := newComplaint("CMP1700000000004123", "First", complaint.PriorityMedium)
			Expect(repo.CreateWithInitialUpdate(first, nil, "Complaint submitted")).To(Succeed())

			dup := newComplaint("CMP1700000000004123", "Second", complaint.PriorityMedium)
			_ = repo.CreateWithInitialUpdate(dup, nil, "Complaint submitted")

			var count int64
			Expect(db.Table("complaints").Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("should join the category and owner identity", func() {
			c := newComplaint("CMP1700000000005123", "Broken invoice", complaint.PriorityHigh)
			Expect(repo.CreateWithInitialUpdate(c, nil, "Complaint submitted")).To(Succeed())

			row, err := repo.GetByID(c.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(row).NotTo(BeNil())
			Expect(row.CategoryName).To(Equal("Billing & Payments"))
			Expect(row.UserName).To(Equal("Owner"))
			Expect(row.UserEmail).To(Equal("owner@mail.com"))
			Expect(row.UserPhone).NotTo(BeNil())
		})

		It("should return nil for a missing complaint", func() {
			row, err := repo.GetByID(9999)

			Expect(err).NotTo(HaveOccurred())
			Expect(row).To(BeNil())
		})
	})

	Describe("ListByUser and ListAll", func() {
		BeforeEach(func() {
			a := newComplaint("CMP1700000000006123", "Slow delivery", complaint.PriorityLow)
			a.CategoryID = delivery
			Expect(repo.CreateWithInitialUpdate(a, nil, "Complaint submitted")).To(Succeed())

			b := newComplaint("CMP1700000000007123", "Wrong charge", complaint.PriorityHigh)
			Expect(repo.CreateWithInitialUpdate(b, nil, "Complaint submitted")).To(Succeed())

			other := newComplaint("CMP1700000000008123", "Admin-owned issue", complaint.PriorityMedium)
			other.UserID = adminID
			Expect(repo.CreateWithInitialUpdate(other, nil, "Complaint submitted")).To(Succeed())
		})

		It("should scope ListByUser to the owner", func() {
			rows, err := repo.ListByUser(ownerID, complaint.ListFilters{})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			for _, row := range rows {
				Expect(row.UserID).To(Equal(ownerID))
			}
		})

		It("should return every complaint from ListAll", func() {
			rows, err := repo.ListAll(complaint.ListFilters{})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})

		It("should filter by priority", func() {
			rows, err := repo.ListAll(complaint.ListFilters{Priority: complaint.PriorityHigh})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Subject).To(Equal("Wrong charge"))
		})

		It("should search subjects case-insensitively", func() {
			rows, err := repo.ListAll(complaint.ListFilters{Search: "wrong CHARGE"})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Subject).To(Equal("Wrong charge"))
		})

		It("should search complaint numbers", func() {
			rows, err := repo.ListAll(complaint.ListFilters{Search: "CMP1700000000006123"})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Subject).To(Equal("Slow delivery"))
		})

		It("should search category names case-insensitively", func() {
			rows, err := repo.ListAll(complaint.ListFilters{Search: "billing"})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			for _, row := range rows {
				Expect(row.CategoryName).To(Equal("Billing & Payments"))
			}
		})

		It("should scope category-name search to the owner in ListByUser", func() {
			rows, err := repo.ListByUser(ownerID, complaint.ListFilters{Search: "shipping"})

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Subject).To(Equal("Slow delivery"))
		})
	})

	Describe("UpdateStatusWithHistory", func() {
		var complaintID int64

		BeforeEach(func() {
			c := newComplaint("CMP1700000000009123", "Broken invoice", complaint.PriorityHigh)
			Expect(repo.CreateWithInitialUpdate(c, nil, "Complaint submitted")).To(Succeed())
			complaintID = c.ID
		})

		It("should apply the status and append a ledger entry", func() {
			oldStatus, note, err := repo.UpdateStatusWithHistory(complaintID, adminID, complaint.StatusInProgress, "Investigating")

			Expect(err).NotTo(HaveOccurred())
			Expect(oldStatus).To(Equal(complaint.StatusPending))
			Expect(note).To(Equal("Investigating"))

			row, err := repo.GetByID(complaintID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Status).To(Equal(complaint.StatusInProgress))
			Expect(row.ResolvedAt).To(BeNil())

			updates, err := repo.GetUpdates(complaintID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(HaveLen(2))
			Expect(*updates[0].OldStatus).To(Equal(complaint.StatusPending))
			Expect(updates[0].NewStatus).To(Equal(complaint.StatusInProgress))
			Expect(updates[0].UpdatedByName).To(Equal("Admin"))
		})

		It("should compose the default note when none is given", func() {
			_, note, err := repo.UpdateStatusWithHistory(complaintID, adminID, complaint.StatusResolved, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(note).To(Equal("Status changed from pending to resolved"))
		})

		It("should stamp resolved_at on terminal statuses", func() {
			_, _, err := repo.UpdateStatusWithHistory(complaintID, adminID, complaint.StatusClosed, "")
			Expect(err).NotTo(HaveOccurred())

			row, err := repo.GetByID(complaintID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ResolvedAt).NotTo(BeNil())
		})

		It("should keep the ledger ordered newest first", func() {
			_, _, err := repo.UpdateStatusWithHistory(complaintID, adminID, complaint.StatusInProgress, "")
			Expect(err).NotTo(HaveOccurred())
			_, _, err = repo.UpdateStatusWithHistory(complaintID, adminID, complaint.StatusResolved, "")
			Expect(err).NotTo(HaveOccurred())

			updates, err := repo.GetUpdates(complaintID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updates).To(HaveLen(3))
			Expect(updates[0].NewStatus).To(Equal(complaint.StatusResolved))
			Expect(updates[2].OldStatus).To(BeNil())
		})

		It("should return not found for a missing complaint", func() {
			_, _, err := repo.UpdateStatusWithHistory(9999, adminID, complaint.StatusInProgress, "")

			Expect(err).To(Equal(apperrors.ErrComplaintNotFound))
		})
	})

	Describe("GetStats", func() {
		BeforeEach(func() {
			seed := []struct {
				number   string
				category int64
				priority string
				status   string
			}{
				{"CMP1700000000010123", billing, complaint.PriorityHigh, complaint.StatusPending},
				{"CMP1700000000011123", billing, complaint.PriorityLow, complaint.StatusInProgress},
				{"CMP1700000000012123", delivery, complaint.PriorityHigh, complaint.StatusResolved},
				{"CMP1700000000013123", billing, complaint.PriorityMedium, complaint.StatusClosed},
			}
			for _, s := range seed {
				c := newComplaint(s.number, "Subject", s.priority)
				c.CategoryID = s.category
				Expect(repo.CreateWithInitialUpdate(c, nil, "Complaint submitted")).To(Succeed())
				if s.status != complaint.StatusPending {
					_, _, err := repo.UpdateStatusWithHistory(c.ID, adminID, s.status, "")
					Expect(err).NotTo(HaveOccurred())
				}
			}
		})

		It("should aggregate status and priority counts", func() {
			summary, _, err := repo.GetStats()

			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Total).To(Equal(int64(4)))
			Expect(summary.Pending).To(Equal(int64(1)))
			Expect(summary.InProgress).To(Equal(int64(1)))
			Expect(summary.Resolved).To(Equal(int64(1)))
			Expect(summary.Closed).To(Equal(int64(1)))
			Expect(summary.HighPriority).To(Equal(int64(2)))
		})

		It("should break counts down by category, largest first", func() {
			_, byCategory, err := repo.GetStats()

			Expect(err).NotTo(HaveOccurred())
			Expect(byCategory).To(HaveLen(2))
			Expect(byCategory[0].CategoryName).To(Equal("Billing & Payments"))
			Expect(byCategory[0].Count).To(Equal(int64(3)))
			Expect(byCategory[1].Count).To(Equal(int64(1)))
		})
	})
})
