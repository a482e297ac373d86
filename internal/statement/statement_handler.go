package statement

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dentops/internal/shared/apperror"
	"dentops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func periodParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid year", nil)
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid month", nil)
		return 0, 0, false
	}
	return year, month, true
}

func (h *Handler) Preview(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Preview(ctx, clinicID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Save(c *gin.Context) {
	ctx := c.Request.Context()
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(ctx, lk)
		}
	}

	clinicID := c.GetString("clinic_id")
	actorID := c.GetString("user_id_validated")

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Save(ctx, clinicID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(ctx, ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")
	employeeID := c.Param("employeeId")

	year, month, ok := periodParams(c)
	if !ok {
		return
	}

	resp, err := h.service.Get(ctx, clinicID, employeeID, year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")
	employeeID := c.Param("employeeId")

	resp, err := h.service.ListByEmployee(ctx, clinicID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListByPeriod(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")

	year, month, ok := periodParams(c)
	if !ok {
		return
	}

	resp, err := h.service.ListByPeriod(ctx, clinicID, year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	clinicID := c.GetString("clinic_id")
	employeeID := c.Param("employeeId")

	year, month, ok := periodParams(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, clinicID, employeeID, year, month); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
