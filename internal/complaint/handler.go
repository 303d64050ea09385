package complaint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/complaint-management/internal"
	"github.com/frahmantamala/complaint-management/internal/auth"
	"github.com/frahmantamala/complaint-management/internal/transport"
)

// allowedExtensions are the upload types accepted alongside a complaint:
// images, PDFs and Word documents.
var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateComplaintDTO, uploads []*AttachmentUpload) (*CreateComplaintResponse, error)
	Get(complaintID int64, requester *auth.User) (*Detail, error)
	ListForUser(userID int64, f ListFilters) ([]*Complaint, error)
	ListAll(requester *auth.User, f ListFilters) ([]*Complaint, error)
	UpdateStatus(ctx context.Context, complaintID int64, requester *auth.User, dto UpdateStatusDTO) error
	DashboardStats(requester *auth.User) (*DashboardStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxFileSize    int64
	MaxAttachments int
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxFileSize int64, maxAttachments int) *Handler {
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		MaxFileSize:    maxFileSize,
		MaxAttachments: maxAttachments,
	}
}

// CreateComplaint handles the multipart submission form: text fields plus up
// to MaxAttachments files under the "attachments" field.
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	maxBody := h.MaxFileSize*int64(h.MaxAttachments) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(h.MaxFileSize); err != nil {
		h.Logger.Warn("CreateComplaint: failed to parse multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid multipart form data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	categoryID, _ := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	dto := CreateComplaintDTO{
		CategoryID:  categoryID,
		Subject:     strings.TrimSpace(r.FormValue("subject")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Priority:    r.FormValue("priority"),
	}

	uploads, appErr := h.collectUploads(r)
	if appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}
	defer func() {
		for _, up := range uploads {
			if closer, ok := up.Content.(interface{ Close() error }); ok {
				closer.Close()
			}
		}
	}()

	resp, err := h.Service.Create(r.Context(), user.ID, dto, uploads)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// GetMyComplaints lists the caller's own complaints.
func (h *Handler) GetMyComplaints(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	complaints, err := h.Service.ListForUser(user.ID, filtersFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, complaints)
}

// GetAllComplaints lists complaints across all users; admin only.
func (h *Handler) GetAllComplaints(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	complaints, err := h.Service.ListAll(user, filtersFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, complaints)
}

// GetComplaint returns one complaint with its status history and attachments.
func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	detail, err := h.Service.Get(id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// UpdateStatus transitions a complaint's status; admin only.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("UpdateStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.UpdateStatus(r.Context(), id, user, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UpdateStatusResponse{
		Message: "Complaint status updated successfully",
	})
}

// GetDashboardStats returns aggregate counts for the admin dashboard.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, errors.ErrMissingToken)
		return
	}

	stats, err := h.Service.DashboardStats(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) collectUploads(r *http.Request) ([]*AttachmentUpload, *errors.AppError) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["attachments"]
	if len(files) > h.MaxAttachments {
		return nil, errors.NewValidationError(
			fmt.Sprintf("Maximum %d attachments allowed", h.MaxAttachments),
			errors.ErrCodeTooManyAttachments)
	}

	uploads := make([]*AttachmentUpload, 0, len(files))
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			return nil, errors.NewValidationError(
				"Only images, PDFs and Word documents are allowed",
				errors.ErrCodeInvalidFileType)
		}
		if header.Size > h.MaxFileSize {
			return nil, errors.NewValidationError(
				fmt.Sprintf("File %s exceeds the %dMB size limit", header.Filename, h.MaxFileSize/(1<<20)),
				errors.ErrCodeFileTooLarge)
		}

		file, err := header.Open()
		if err != nil {
			h.Logger.Error("collectUploads: failed to open uploaded file", "error", err, "file_name", header.Filename)
			return nil, errors.NewInternalError("Failed to read uploaded file", err)
		}

		uploads = append(uploads, &AttachmentUpload{
			FileName:    filepath.Base(header.Filename),
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		})
	}

	return uploads, nil
}

func filtersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	return ListFilters{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   strings.TrimSpace(q.Get("search")),
	}
}
