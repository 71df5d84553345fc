package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/stock"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
)

// StockMovementHandler maneja las peticiones HTTP de movimientos de inventario.
type StockMovementHandler struct {
	svc *stock.StockMovementService
}

func NewStockMovementHandler(svc *stock.StockMovementService) *StockMovementHandler {
	return &StockMovementHandler{svc: svc}
}

// List godoc
// @Summary      Listar movimientos de stock
// @Tags         stock-movements
// @Produce      json
// @Param        include  query  string  false  "Relaciones separadas por coma (stockCard,warehouse,...)"
// @Param        take     query  int     false  "Límite"
// @Param        skip     query  int     false  "Offset"
// @Success      200  {array}   entity.StockMovement
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-movements [get]
func (h *StockMovementHandler) List(c *fiber.Ctx) error {
	take, skip := c.QueryInt("take", 0), c.QueryInt("skip", 0)
	if take < 0 {
		take = 0
	}
	if skip < 0 {
		skip = 0
	}
	rows, err := h.svc.GetAllStockMovements(c.Context(), query.FindOptions{
		Include: includeList(c),
		Take:    take,
		Skip:    skip,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Search godoc
// @Summary      Buscar movimientos con filtros
// @Tags         stock-movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SearchRequest  true  "where / orderBy / take / skip / include"
// @Success      200   {array}   entity.StockMovement
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock-movements/search [post]
func (h *StockMovementHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	filter, opts, err := in.ToQuery()
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.svc.GetStockMovementsWithFilters(c.Context(), filter, opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         stock-movements
// @Produce      json
// @Param        id       path   string  true   "ID del movimiento"
// @Param        include  query  string  false  "Relaciones separadas por coma"
// @Success      200  {object}  entity.StockMovement
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [get]
func (h *StockMovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.svc.GetStockMovementByID(c.Context(), c.Params("id"), query.FindOptions{Include: includeList(c)})
	if err != nil {
		return writeError(c, err)
	}
	if m == nil {
		return notFound(c, "movimiento no encontrado")
	}
	return c.JSON(m)
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock-movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockMovementRequest  true  "Movimiento"
// @Success      201   {object}  entity.StockMovement
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *StockMovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input, err := in.ToInput(GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	created, err := h.svc.CreateStockMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update godoc
// @Summary      Actualizar movimiento de stock
// @Tags         stock-movements
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del movimiento"
// @Param        body  body  dto.UpdateStockMovementRequest  true  "Campos a actualizar"
// @Success      200   {object}  entity.StockMovement
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [put]
func (h *StockMovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	updated, err := h.svc.UpdateStockMovement(c.Context(), c.Params("id"), in.ToPatch(GetUserID(c)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

// Delete godoc
// @Summary      Eliminar movimiento de stock
// @Tags         stock-movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-movements/{id} [delete]
func (h *StockMovementHandler) Delete(c *fiber.Ctx) error {
	ok, err := h.svc.DeleteStockMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{Deleted: ok})
}

func includeList(c *fiber.Ctx) []string {
	raw := c.Query("include")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
