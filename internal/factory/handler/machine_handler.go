package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sameed619/FMS/internal/factory/repository"
	"github.com/sameed619/FMS/internal/factory/service"
)

type MachineHandler struct {
	svc *service.MachineService
}

func NewMachineHandler(svc *service.MachineService) *MachineHandler {
	return &MachineHandler{svc: svc}
}

// POST /api/machines
func (h *MachineHandler) Create(c *gin.Context) {
	var req service.CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	machine, err := h.svc.Create(req)
	if err != nil {
		HandleError(c, "failed to create machine", err)
		return
	}
	Created(c, "machine created", machine)
}

// GET /api/machines
func (h *MachineHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.MachineListParams{
		Status:  c.Query("status"),
		Keyword: c.Query("q"),
		SortBy:  c.Query("sort_by"),
		Desc:    c.Query("order") == "desc",
		Page:    page,
		Size:    size,
	}
	machines, total, err := h.svc.List(params)
	if err != nil {
		InternalError(c, "failed to list machines", err)
		return
	}
	Success(c, "machines listed", ListResponse{Items: machines, Pagination: NewPagination(page, size, total)})
}

// GET /api/machines/:id
func (h *MachineHandler) Get(c *gin.Context) {
	machine, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		HandleError(c, "machine not found", err)
		return
	}
	Success(c, "machine", machine)
}

// PUT /api/machines/:id
func (h *MachineHandler) Update(c *gin.Context) {
	var req service.UpdateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	machine, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		HandleError(c, "failed to update machine", err)
		return
	}
	Success(c, "machine updated", machine)
}

// DELETE /api/machines/:id
func (h *MachineHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		HandleError(c, "failed to delete machine", err)
		return
	}
	Success(c, "machine deleted", nil)
}

// POST /api/machine-logs
func (h *MachineHandler) CreateLog(c *gin.Context) {
	var req service.CreateMachineLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	log, err := h.svc.CreateLog(req)
	if err != nil {
		HandleError(c, "failed to create machine log", err)
		return
	}
	Created(c, "machine log created", log)
}

// PUT /api/machine-logs/fulfill
func (h *MachineHandler) Fulfill(c *gin.Context) {
	var req service.CreateMachineLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body", err)
		return
	}
	if req.OrderID == "" {
		BadRequest(c, "order_id is required", nil)
		return
	}
	log, err := h.svc.Fulfill(c.Request.Context(), req)
	if err != nil {
		HandleError(c, "failed to fulfill order", err)
		return
	}
	Success(c, "order fulfilled", log)
}

// GET /api/machine-logs
func (h *MachineHandler) ListLogs(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.MachineLogListParams{
		MachineID: c.Query("machine_id"),
		OrderID:   c.Query("order_id"),
		Shift:     c.Query("shift"),
		Page:      page,
		Size:      size,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			params.To = &t
		}
	}
	logs, total, err := h.svc.ListLogs(params)
	if err != nil {
		InternalError(c, "failed to list machine logs", err)
		return
	}
	Success(c, "machine logs listed", ListResponse{Items: logs, Pagination: NewPagination(page, size, total)})
}

// GET /api/machine-logs/:id
func (h *MachineHandler) GetLog(c *gin.Context) {
	log, err := h.svc.GetLog(c.Param("id"))
	if err != nil {
		HandleError(c, "machine log not found", err)
		return
	}
	Success(c, "machine log", log)
}
