package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"justissimo-api/apperrors"
	"justissimo-api/usecases"
)

type SchedulingCloser interface {
	Execute(ctx context.Context, req usecases.CloseSchedulingRequest) error
}

type SchedulingHandler struct {
	closer SchedulingCloser
}

func NewSchedulingHandler(closer SchedulingCloser) *SchedulingHandler {
	return &SchedulingHandler{closer: closer}
}

var errInvalidBody = apperrors.NewDomainError("Corpo da requisição inválido! Informe justification, reason e id_user como texto.")

type CloseSchedulingBody struct {
	Justification string `json:"justification"`
	Reason        string `json:"reason"`
	UserID        string `json:"id_user"`
}

func (h *SchedulingHandler) CloseScheduling(c *gin.Context) {
	var body CloseSchedulingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errInvalidBody)
		return
	}

	err := h.closer.Execute(c.Request.Context(), usecases.CloseSchedulingRequest{
		SchedulingID:  c.Param("id"),
		Justification: body.Justification,
		Reason:        body.Reason,
		UserID:        body.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
