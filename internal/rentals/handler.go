package rentals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/rentar", h.CreateRental)
	r.PUT("/devolver/:id", h.ReturnRental)
	r.DELETE("/cancelar/:id", h.CancelRental)

	// レポート．集計はクライアント側で行うので生データを返す
	r.GET("/reporte/cliente/:nombre", h.ListByCustomer)
	r.GET("/reporte/pendientes", h.ListPending)
	r.GET("/reporte/general", h.ListAll)
	r.GET("/reporte/populares", h.ListAll)
	r.GET("/reporte/ganancias", h.ListAll)
}

// ---------- handlers ----------

func (h *Handler) CreateRental(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.CreateRental(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ReturnRental(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	res, err := h.svc.ReturnRental(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CancelRental(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	res, err := h.svc.CancelRental(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListByCustomer(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListByCustomer(c.Request.Context(), c.Param("nombre")))
}

func (h *Handler) ListPending(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListPending(c.Request.Context()))
}

func (h *Handler) ListAll(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListAll(c.Request.Context()))
}

// ---------- helpers ----------

// parseID: 整数として読めない id は該当レンタルなしとして扱う。0 や負数は台帳で NOT_FOUND になる
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotFound("rental not found")
	}
	return id, nil
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	var api *APIError
	if errors.As(err, &api) {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
