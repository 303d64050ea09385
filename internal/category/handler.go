package category

import (
	"net/http"

	"github.com/frahmantamala/complaint-management/internal/transport"
)

type ServiceAPI interface {
	GetAllCategories() ([]*Category, error)
	Exists(id int64) (bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.GetAllCategories()
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	h.WriteJSON(w, http.StatusOK, categories)
}
