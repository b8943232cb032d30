package guess

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

func (h *Handler) GetCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		log.Printf("error getting guess count: %v", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"count": count})
}

// SetCountHandler increments the counter. The route name predates the
// backend and is kept for deployed clients.
func (h *Handler) SetCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Increment(r.Context())
	if err != nil {
		log.Printf("error incrementing guess count: %v", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"count": count})
}
