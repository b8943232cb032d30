package verse

import (
	"log"
	"net/http"

	"github.com/versele/versele-api/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) TodayHandler(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Today(r.Context())
	if err != nil {
		log.Printf("error getting verse of the day: %v", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	response.JSON(w, http.StatusOK, v)
}
