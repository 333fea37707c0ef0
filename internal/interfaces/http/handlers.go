package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TintinDu/BilledApp/internal/application/service"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
	"github.com/TintinDu/BilledApp/internal/export"
)

// maxReceiptSize caps the multipart upload read.
const maxReceiptSize = 10 << 20

// Handlers contains all HTTP handlers
type Handlers struct {
	uploadService service.UploadService
	billService   service.BillService
	triageService service.TriageService
	exporter      *export.Exporter
	logger        Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	uploadService service.UploadService,
	billService service.BillService,
	triageService service.TriageService,
	exporter *export.Exporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		uploadService: uploadService,
		billService:   billService,
		triageService: triageService,
		exporter:      exporter,
		logger:        logger,
	}
}

// Response is the standard API response format
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// UploadReceipt handles POST /api/bills/upload. The request carries one
// multipart "file" part; validation failures come back as a 422 with the
// annotation payload rather than an error envelope, mirroring the inline
// form feedback.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file part is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to open uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to read uploaded file"})
		return
	}

	outcome := h.uploadService.HandleFileSelection(c.Request.Context(), fileHeader.Filename, content)
	if !outcome.Accepted {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Data: outcome})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: outcome})
}

type submitBillRequest struct {
	Type       string `json:"type" form:"type"`
	Name       string `json:"name" form:"name"`
	Amount     string `json:"amount" form:"amount"`
	Date       string `json:"date" form:"date"`
	VAT        string `json:"vat" form:"vat"`
	Pct        string `json:"pct" form:"pct"`
	Commentary string `json:"commentary" form:"commentary"`
}

// SubmitBill handles POST /api/bills. A 202 is deliberate: the persist runs
// in the background and the caller only learns that the submission was
// taken, not that it is durable.
func (h *Handlers) SubmitBill(c *gin.Context) {
	var req submitBillRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	form := service.FormSnapshot{
		Type:       req.Type,
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       req.Date,
		VAT:        req.VAT,
		Pct:        req.Pct,
		Commentary: req.Commentary,
	}

	if err := h.billService.HandleSubmit(c.Request.Context(), form); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, Response{Success: true})
}

// ListBills handles GET /api/bills?status=
func (h *Handlers) ListBills(c *gin.Context) {
	bills, err := h.triageService.LoadBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	if status := c.Query("status"); status != "" {
		if !entity.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("unknown status: %s", status)})
			return
		}
		filtered := make([]*entity.Bill, 0, len(bills))
		for _, bill := range bills {
			if bill.Status == status {
				filtered = append(filtered, bill)
			}
		}
		bills = filtered
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: bills})
}

// ToggleBucket handles POST /api/triage/buckets/:index/toggle
func (h *Handlers) ToggleBucket(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "bucket index must be an integer"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.triageService.ToggleBucket(index)})
}

// ToggleBill handles POST /api/triage/bills/:id/toggle
func (h *Handlers) ToggleBill(c *gin.Context) {
	bill, ok := h.findBill(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.triageService.ToggleBill(bill)})
}

type decisionRequest struct {
	CommentAdmin string `json:"commentAdmin" form:"commentAdmin"`
}

// AcceptBill handles POST /api/triage/bills/:id/accept
func (h *Handlers) AcceptBill(c *gin.Context) {
	h.decide(c, h.triageService.Accept)
}

// RefuseBill handles POST /api/triage/bills/:id/refuse
func (h *Handlers) RefuseBill(c *gin.Context) {
	h.decide(c, h.triageService.Refuse)
}

func (h *Handlers) decide(c *gin.Context, rule func(ctx context.Context, bill *entity.Bill, commentAdmin string) *entity.Bill) {
	bill, ok := h.findBill(c)
	if !ok {
		return
	}

	var req decisionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	updated := rule(c.Request.Context(), bill, req.CommentAdmin)
	if updated == nil {
		c.JSON(http.StatusConflict, Response{Success: false, Error: "decision rejected for current bill state"})
		return
	}

	c.JSON(http.StatusAccepted, Response{Success: true, Data: updated})
}

// ExportDashboard handles GET /api/triage/export and streams the xlsx
// snapshot of every bill grouped by status.
func (h *Handlers) ExportDashboard(c *gin.Context) {
	bills, err := h.triageService.LoadBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	fileName := fmt.Sprintf("dashboard-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.WriteDashboard(bills, c.Writer); err != nil {
		h.logger.Error("Failed to write dashboard export", "error", err)
	}
}

// findBill resolves the :id path parameter against the current bill list.
func (h *Handlers) findBill(c *gin.Context) (*entity.Bill, bool) {
	id := c.Param("id")

	bills, err := h.triageService.LoadBills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return nil, false
	}

	for _, bill := range bills {
		if bill.ID == id {
			return bill, true
		}
	}

	c.JSON(http.StatusNotFound, Response{Success: false, Error: fmt.Sprintf("bill not found: %s", id)})
	return nil, false
}
