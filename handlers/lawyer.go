package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"justissimo-api/usecases"
)

type LawyerLister interface {
	Execute(ctx context.Context, req usecases.ListLawyersRequest) ([]usecases.LawyerSummary, error)
}

type LawyerHandler struct {
	lister LawyerLister
}

func NewLawyerHandler(lister LawyerLister) *LawyerHandler {
	return &LawyerHandler{lister: lister}
}

func (h *LawyerHandler) ListLawyers(c *gin.Context) {
	lawyers, err := h.lister.Execute(c.Request.Context(), usecases.ListLawyersRequest{
		Name:  c.Query("name"),
		City:  c.Query("city"),
		State: c.Query("state"),
		Rate:  c.Query("rate"),
		Area:  c.Query("area"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lawyers)
}
