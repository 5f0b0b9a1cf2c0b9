package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/marketpay/internal/http/middleware"
	"github.com/nurpe/marketpay/internal/model"
	"github.com/nurpe/marketpay/internal/service"
)

type Handler struct {
	contracts *service.ContractService
	payments  *service.PaymentService
	reports   *service.ReportService
	log       zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	payments *service.PaymentService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts: contracts,
		payments:  payments,
		reports:   reports,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, profileAuth, adminAuth gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(profileAuth)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts", h.listContracts)
	protected.GET("/jobs/unpaid", h.listUnpaidJobs)
	protected.POST("/jobs/:id/pay", h.payJob)
	protected.POST("/balances/deposit/:userId", h.deposit)
	protected.GET("/profiles/:userId/statement", h.clientStatement)

	admin := router.Group("/admin")
	admin.Use(adminAuth, middleware.RequireAdmin())
	admin.GET("/best-profession", h.bestProfession)
	admin.GET("/best-clients", h.bestClients)
	admin.POST("/reports/export", h.exportPayments)
}

type contractResponse struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	ContractorID string `json:"contractor_id"`
	Terms        string `json:"terms"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func toContractResponse(contract model.Contract) contractResponse {
	return contractResponse{
		ID:           contract.ID.String(),
		ClientID:     contract.ClientID.String(),
		ContractorID: contract.ContractorID.String(),
		Terms:        contract.Terms,
		Status:       string(contract.Status),
		CreatedAt:    contract.CreatedAt.Format(time.RFC3339),
	}
}

type jobResponse struct {
	ID          string   `json:"id"`
	ContractID  string   `json:"contract_id"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Paid        bool     `json:"paid"`
	PaymentDate *string  `json:"payment_date"`
}

func toJobResponse(job model.Job) jobResponse {
	resp := jobResponse{
		ID:          job.ID.String(),
		ContractID:  job.ContractID.String(),
		Description: job.Description,
		Price:       job.Price,
		Paid:        job.IsPaid(),
	}
	if job.PaymentDate != nil {
		formatted := job.PaymentDate.UTC().Format(time.RFC3339)
		resp.PaymentDate = &formatted
	}
	return resp
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract id"})
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), contractID, principal.ProfileID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractResponse(*contract))
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), principal.ProfileID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]contractResponse, 0, len(contracts))
	for _, contract := range contracts {
		resp = append(resp, toContractResponse(contract))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listUnpaidJobs(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobs, err := h.contracts.ListUnpaidJobs(c.Request.Context(), principal.ProfileID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, toJobResponse(job))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) payJob(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	result, err := h.payments.PayJob(c.Request.Context(), service.PayJobInput{
		CallerID: principal.ProfileID,
		JobID:    jobID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job":     toJobResponse(result.Job),
		"balance": result.Balance,
	})
}

type depositRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	clientID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.payments.Deposit(c.Request.Context(), service.DepositInput{
		ClientID: clientID,
		Amount:   req.Amount,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": result.Balance})
}

func (h *Handler) bestProfession(c *gin.Context) {
	window, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time window"})
		return
	}

	best, err := h.reports.BestProfession(c.Request.Context(), window)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if best == nil {
		c.JSON(http.StatusOK, gin.H{"profession": nil, "total": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profession": best.Profession, "total": best.Total})
}

func (h *Handler) bestClients(c *gin.Context) {
	window, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time window"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
	}

	clients, err := h.reports.BestClients(c.Request.Context(), window, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	type clientItem struct {
		ID       string  `json:"id"`
		FullName string  `json:"full_name"`
		Paid     float64 `json:"paid"`
	}
	resp := make([]clientItem, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, clientItem{
			ID:       client.ID.String(),
			FullName: client.FullName,
			Paid:     client.Total,
		})
	}
	c.JSON(http.StatusOK, resp)
}

type exportPaymentsRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

func (h *Handler) exportPayments(c *gin.Context) {
	var req exportPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := parseWindow(req.PeriodStart, req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time window"})
		return
	}

	result, err := h.reports.ExportPayments(c.Request.Context(), window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

func (h *Handler) clientStatement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	// A caller only gets their own statement; everything else is a 404.
	if userID != principal.ProfileID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	window, err := parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time window"})
		return
	}

	result, err := h.reports.ClientStatement(c.Request.Context(), userID, window)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDepositCapExceeded):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting operation in progress, retry"})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Error().Err(err).Msg("store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

const dateOnlyLayout = "2006-01-02"

func parseWindow(start, end string) (service.TimeWindow, error) {
	parsedStart, _, err := parseDate(start)
	if err != nil {
		return service.TimeWindow{}, err
	}
	parsedEnd, layout, err := parseDate(end)
	if err != nil {
		return service.TimeWindow{}, err
	}
	// A date-only end bound means the whole calendar day, not its
	// midnight; widen it so same-day payments stay inside the window.
	if layout == dateOnlyLayout {
		parsedEnd = parsedEnd.Add(24*time.Hour - time.Nanosecond)
	}
	return service.TimeWindow{Start: parsedStart, End: parsedEnd}, nil
}

func parseDate(raw string) (time.Time, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, "", service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		dateOnlyLayout,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, layout, nil
		}
	}
	return time.Time{}, "", service.ErrInvalidInput
}
