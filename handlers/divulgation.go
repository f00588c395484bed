package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"justissimo-api/usecases"
)

type DivulgationMessageLister interface {
	Execute(ctx context.Context, req usecases.ListMessagesDivulgationRequest) (*usecases.DivulgationMessages, error)
}

type DivulgationHandler struct {
	messages DivulgationMessageLister
}

func NewDivulgationHandler(messages DivulgationMessageLister) *DivulgationHandler {
	return &DivulgationHandler{messages: messages}
}

func (h *DivulgationHandler) ListLawyerMessages(c *gin.Context) {
	out, err := h.messages.Execute(c.Request.Context(), usecases.ListMessagesDivulgationRequest{
		DivulgationID: c.Param("id"),
		LawyerID:      c.Query("fk_lawyer"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
