package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hortti-inventory/internal/application/catalog"
	"github.com/jhoicas/hortti-inventory/internal/application/dto"
)

// CatalogHandler exporta el catálogo de productos activos (PDF y XML).
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Report godoc
// @Summary      Catálogo en PDF
// @Tags         products
// @Produce      application/pdf
// @Param        search    query  string  false  "Búsqueda parcial por nombre"
// @Param        category  query  string  false  "fruit | vegetable | legume"
// @Param        sortBy    query  string  false  "name | price | createdAt"
// @Param        order     query  string  false  "ASC | DESC"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/report.pdf [get]
func (h *CatalogHandler) Report(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	data, err := h.uc.ExportPDF(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="catalogo.pdf"`)
	return c.Send(data)
}

// Feed godoc
// @Summary      Catálogo como feed XML
// @Tags         products
// @Produce      xml
// @Param        search    query  string  false  "Búsqueda parcial por nombre"
// @Param        category  query  string  false  "fruit | vegetable | legume"
// @Param        sortBy    query  string  false  "name | price | createdAt"
// @Param        order     query  string  false  "ASC | DESC"
// @Success      200  {string}  string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/feed.xml [get]
func (h *CatalogHandler) Feed(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	data, err := h.uc.ExportFeed(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(data)
}
