package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"cmrpai/internal/errors"
	"cmrpai/internal/service"
	"cmrpai/internal/view"
)

// NNAHandler handles minor listing and intake.
type NNAHandler struct {
	nnaService service.NNAService
}

// NewNNAHandler creates a new minor handler.
func NewNNAHandler(nnaService service.NNAService) *NNAHandler {
	return &NNAHandler{nnaService: nnaService}
}

// CreateNNARequest represents the intake form.
type CreateNNARequest struct {
	Name       string `form:"nombre" validate:"required"`
	NationalID string `form:"rut"`
	Status     string `form:"estado"`
}

// List renders all minors, newest intake first.
func (h *NNAHandler) List(c echo.Context) error {
	list, err := h.nnaService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, view.PageNNAList, "NNA", list)
}

// NewForm renders the intake form.
func (h *NNAHandler) NewForm(c echo.Context) error {
	return renderPage(c, http.StatusOK, view.PageNNAForm, "Nuevo NNA", nil)
}

// Create registers a minor from the intake form.
func (h *NNAHandler) Create(c echo.Context) error {
	var req CreateNNARequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Solicitud inválida")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Faltan campos obligatorios")
	}

	if _, err := h.nnaService.Create(c.Request().Context(), service.CreateNNAInput{
		Name:       req.Name,
		NationalID: req.NationalID,
		Status:     req.Status,
	}); err != nil {
		if stderrors.Is(err, errors.ErrNameRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Faltan campos obligatorios").SetInternal(err)
		}
		return err
	}

	addFlash(c, "success", "NNA registrado")
	return c.Redirect(http.StatusSeeOther, "/nna")
}

// ListJSON godoc
// @Summary List minors
// @Description All minors ordered by intake date, newest first.
// @Tags nna
// @Produce json
// @Success 200 {array} model.NNA
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /nna [get]
func (h *NNAHandler) ListJSON(c echo.Context) error {
	list, err := h.nnaService.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, list)
}

// Attentions godoc
// @Summary List attention records of a minor
// @Tags nna
// @Produce json
// @Param id path int true "NNA ID"
// @Success 200 {array} model.Attention
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /nna/{id}/atenciones [get]
func (h *NNAHandler) Attentions(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid nna id",
			Code:  "INVALID_ID",
		})
	}

	list, err := h.nnaService.ListAttentions(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, list)
}
