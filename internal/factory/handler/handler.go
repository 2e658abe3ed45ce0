package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sameed619/FMS/internal/factory/ledger"
	"github.com/sameed619/FMS/internal/factory/service"
)

// Handlers bundles every route handler for dependency wiring.
type Handlers struct {
	Inventory  *InventoryHandler
	Recipe     *RecipeHandler
	Production *ProductionHandler
	Purchase   *PurchaseHandler
	Machine    *MachineHandler
	Operator   *OperatorHandler
}

func NewHandlers(
	inventorySvc *service.InventoryService,
	recipeSvc *service.RecipeService,
	productionSvc *service.ProductionService,
	purchaseSvc *service.PurchaseService,
	machineSvc *service.MachineService,
	operatorSvc *service.OperatorService,
) *Handlers {
	return &Handlers{
		Inventory:  NewInventoryHandler(inventorySvc),
		Recipe:     NewRecipeHandler(recipeSvc),
		Production: NewProductionHandler(productionSvc),
		Purchase:   NewPurchaseHandler(purchaseSvc),
		Machine:    NewMachineHandler(machineSvc),
		Operator:   NewOperatorHandler(operatorSvc),
	}
}

// Response is the envelope on every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListResponse wraps paged collections.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, size int, total int64) *Pagination {
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return &Pagination{Page: page, PageSize: size, Total: total, TotalPages: pages}
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(200, Response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(201, Response{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string, err error) {
	resp := Response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func BadRequest(c *gin.Context, message string, err error) {
	Fail(c, 400, message, err)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, 404, message, nil)
}

func Conflict(c *gin.Context, message string, err error) {
	Fail(c, 409, message, err)
}

func InternalError(c *gin.Context, message string, err error) {
	Fail(c, 500, message, err)
}

// HandleError maps service and ledger errors onto statuses: unknown records
// are 404, malformed input is 400, business conflicts are 409 and anything
// else is 500.
func HandleError(c *gin.Context, message string, err error) {
	var shortfall *ledger.InsufficientStockError
	var dangling *ledger.DanglingReferenceError
	var duplicate *ledger.DuplicateError
	var invalid *ledger.ValidationError
	var transition *ledger.InvalidTransitionError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ledger.ErrNotFound):
		NotFound(c, message)
	case errors.Is(err, ledger.ErrInvalidItemCode),
		errors.As(err, &invalid):
		BadRequest(c, message, err)
	case errors.As(err, &shortfall),
		errors.As(err, &dangling),
		errors.As(err, &duplicate),
		errors.As(err, &transition),
		errors.Is(err, ledger.ErrOrderCompleted),
		errors.Is(err, ledger.ErrOperatorInactive),
		errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, message, err)
	default:
		InternalError(c, message, err)
	}
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}
