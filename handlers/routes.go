package handlers

import "github.com/gin-gonic/gin"

func RegisterRoutes(api *gin.RouterGroup, schedulings *SchedulingHandler, divulgations *DivulgationHandler, lawyers *LawyerHandler) {
	api.PATCH("/schedulings/:id/close", schedulings.CloseScheduling)
	api.GET("/divulgations/:id/messages", divulgations.ListLawyerMessages)
	api.GET("/lawyers", lawyers.ListLawyers)
}
