package contract

import (
	"net/http"

	"dentops/internal/shared/apperror"
	"dentops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetSalaryInfo(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")
	employeeID := c.Param("employeeId")

	resp, err := h.service.SalaryInfo(ctx, clinicID, employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
