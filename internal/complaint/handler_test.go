package complaint_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/complaint-management/internal/auth"
	"github.com/frahmantamala/complaint-management/internal/complaint"
	"github.com/frahmantamala/complaint-management/internal/transport"
)

// Stub service that records what the handler passed through
type stubComplaintService struct {
	createDTO     complaint.CreateComplaintDTO
	createUploads []*complaint.AttachmentUpload
	createCalled  bool
	createErr     error
	listFilters   complaint.ListFilters
}

func (s *stubComplaintService) Create(ctx context.Context, userID int64, dto complaint.CreateComplaintDTO, uploads []*complaint.AttachmentUpload) (*complaint.CreateComplaintResponse, error) {
	s.createCalled = true
	s.createDTO = dto
	s.createUploads = uploads
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &complaint.CreateComplaintResponse{
		Message:         "Complaint submitted successfully",
		ComplaintID:     1,
		ComplaintNumber: "CMP1700000000000123",
	}, nil
}

func (s *stubComplaintService) Get(complaintID int64, requester *auth.User) (*complaint.Detail, error) {
	return &complaint.Detail{}, nil
}

func (s *stubComplaintService) ListForUser(userID int64, f complaint.ListFilters) ([]*complaint.Complaint, error) {
	s.listFilters = f
	return []*complaint.Complaint{}, nil
}

func (s *stubComplaintService) ListAll(requester *auth.User, f complaint.ListFilters) ([]*complaint.Complaint, error) {
	s.listFilters = f
	return []*complaint.Complaint{}, nil
}

func (s *stubComplaintService) UpdateStatus(ctx context.Context, complaintID int64, requester *auth.User, dto complaint.UpdateStatusDTO) error {
	return nil
}

func (s *stubComplaintService) DashboardStats(requester *auth.User) (*complaint.DashboardStats, error) {
	return &complaint.DashboardStats{}, nil
}

func multipartBody(fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	for name, content := range files {
		part, _ := writer.CreateFormFile("attachments", name)
		part.Write(content)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

var _ = Describe("Complaint Handler", func() {
	var (
		handler *complaint.Handler
		stub    *stubComplaintService
		user    *auth.User
	)

	const maxFileSize = 5 * 1024 * 1024

	BeforeEach(func() {
		stub = &stubComplaintService{}
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = complaint.NewHandler(&transport.BaseHandler{Logger: testLogger}, stub, maxFileSize, 5)
		user = &auth.User{ID: 10, Email: "user@mail.com", Role: auth.RoleUser}
	})

	request := func(body io.Reader, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
		req.Header.Set("Content-Type", contentType)
		req = req.WithContext(auth.ContextWithUser(req.Context(), user))
		w := httptest.NewRecorder()
		handler.CreateComplaint(w, req)
		return w
	}

	Describe("CreateComplaint", func() {
		It("should parse form fields and files into the submission", func() {
			body, contentType := multipartBody(map[string]string{
				"category_id": "1",
				"subject":     "Broken product",
				"description": "Arrived damaged",
				"priority":    "high",
			}, map[string][]byte{
				"photo.png": []byte("fake image bytes"),
			})

			w := request(body, contentType)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(stub.createCalled).To(BeTrue())
			Expect(stub.createDTO.CategoryID).To(Equal(int64(1)))
			Expect(stub.createDTO.Subject).To(Equal("Broken product"))
			Expect(stub.createDTO.Priority).To(Equal("high"))
			Expect(stub.createUploads).To(HaveLen(1))
			Expect(stub.createUploads[0].FileName).To(Equal("photo.png"))

			var resp complaint.CreateComplaintResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.ComplaintNumber).To(HavePrefix("CMP"))
		})

		It("should return 401 without an authenticated user", func() {
			body, contentType := multipartBody(map[string]string{"subject": "x"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.CreateComplaint(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(stub.createCalled).To(BeFalse())
		})

		It("should reject more than the allowed number of attachments", func() {
			files := map[string][]byte{
				"a.png": []byte("1"), "b.png": []byte("2"), "c.png": []byte("3"),
				"d.png": []byte("4"), "e.png": []byte("5"), "f.png": []byte("6"),
			}
			body, contentType := multipartBody(map[string]string{
				"category_id": "1",
				"subject":     "s",
				"description": "d",
			}, files)

			w := request(body, contentType)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.createCalled).To(BeFalse())
		})

		It("should reject a disallowed file type", func() {
			body, contentType := multipartBody(map[string]string{
				"category_id": "1",
				"subject":     "s",
				"description": "d",
			}, map[string][]byte{
				"malware.exe": []byte("binary"),
			})

			w := request(body, contentType)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.createCalled).To(BeFalse())
		})

		It("should reject a malformed body", func() {
			w := request(bytes.NewReader([]byte("not multipart")), "multipart/form-data; boundary=xyz")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.createCalled).To(BeFalse())
		})
	})

	Describe("GetMyComplaints", func() {
		It("should pass query filters through", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/complaints/my-complaints?status=pending&search=invoice", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), user))
			w := httptest.NewRecorder()

			handler.GetMyComplaints(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(stub.listFilters.Status).To(Equal("pending"))
			Expect(stub.listFilters.Search).To(Equal("invoice"))
		})
	})
})
