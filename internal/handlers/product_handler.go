package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gudang/internal/middleware"
	"gudang/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. Reads are public;
// mutations run behind the auth guard, then the validation gate.
// "/stats" must be registered before "/:id".
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	products := router.Group("/products")

	products.Get("/",
		middleware.ValidateQuery(func() interface{} { return new(ListProductsQuery) }),
		h.HandleList,
	)
	products.Get("/stats", h.HandleStats)
	products.Get("/:id", h.HandleGetByID)

	products.Post("/", auth,
		middleware.ValidateBody(func() interface{} { return new(CreateProductRequest) }),
		h.HandleCreate,
	)
	products.Put("/:id", auth,
		middleware.ValidateBody(func() interface{} { return new(UpdateProductRequest) }),
		h.HandleUpdate,
	)
	products.Delete("/:id", auth, h.HandleDelete)
}

// HandleList returns one page of products matching the query filters.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	q := middleware.Query(c).(*ListProductsQuery)

	products, total, err := h.service.ListProducts(c.UserContext(), q.Filter())
	if err != nil {
		return err
	}

	return respondPage(c, productResponses(products), newPagination(q.Page, q.Limit, total))
}

// HandleStats returns aggregate statistics over the whole collection.
func (h *ProductHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return respondData(c, fiber.StatusOK, stats)
}

// HandleGetByID returns a single product.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondData(c, fiber.StatusOK, newProductResponse(product))
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	req := middleware.Body(c).(*CreateProductRequest)

	product := req.Product()
	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return err
	}
	return respondData(c, fiber.StatusCreated, newProductResponse(product))
}

// HandleUpdate applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	req := middleware.Body(c).(*UpdateProductRequest)

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req.Fields())
	if err != nil {
		return err
	}
	return respondData(c, fiber.StatusOK, newProductResponse(product))
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return respondMessage(c, fiber.StatusOK, "Product deleted")
}
