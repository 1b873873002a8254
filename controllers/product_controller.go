package controllers

import (
	"strconv"
	"strings"

	"moda-store/repositories"
	"moda-store/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalog   *repositories.CatalogRepository
	pagers    *services.PagerRegistry
	filter    *services.FacetFilterEngine
	inventory *services.InventoryService
}

func NewProductController(pageSize int) *ProductController {
	catalog := repositories.NewCatalogRepository()
	inventory := services.NewInventoryService()
	return &ProductController{
		catalog:   catalog,
		pagers:    services.NewPagerRegistry(catalog, pageSize),
		filter:    services.NewFacetFilterEngine(inventory),
		inventory: inventory,
	}
}

// Each browsing session gets its own pager so the loaded window and cursor
// survive between requests. Anonymous visitors are keyed by a client-minted
// session id; without one we fall back to the client address.
func sessionKey(c *gin.Context) string {
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return sid
	}
	if userID := c.GetInt("user_id"); userID > 0 {
		return "user:" + strconv.Itoa(userID)
	}
	return c.ClientIP()
}

func parseFilter(c *gin.Context) services.ProductFilter {
	f := services.ProductFilter{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		Pattern:  c.Query("pattern"),
		Sort:     c.Query("sort"),
	}
	if v := c.Query("min_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("sizes"); v != "" {
		f.Sizes = strings.Split(v, ",")
	}
	if v := c.Query("colors"); v != "" {
		f.Colors = strings.Split(v, ",")
	}
	return f
}

func (ctrl *ProductController) respondWindow(c *gin.Context, pager *services.CatalogPager) {
	window := ctrl.filter.Apply(pager.Window(), parseFilter(c))

	c.JSON(200, gin.H{
		"success": true,
		"message": "Products retrieved",
		"data":    window,
		"meta": gin.H{
			"count":    len(window),
			"has_more": pager.HasMore(),
		},
	})
}

// GetProducts godoc
// @Summary Browse catalog
// @Description Load the first page of the catalog and apply facet filters
// @Tags Products
// @Produce json
// @Param name query string false "Name search"
// @Param category query string false "Category"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param sizes query string false "Comma-separated sizes"
// @Param colors query string false "Comma-separated colors"
// @Param pattern query string false "Pattern"
// @Param sort query string false "Sort order" Enums(price_asc, price_desc, recommended)
// @Success 200 {object} models.Response
// @Router /products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	pager := ctrl.pagers.Get(sessionKey(c))

	if err := pager.LoadFirstPage(c.Request.Context()); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Could not load products"})
		return
	}

	ctrl.respondWindow(c, pager)
}

// GetMoreProducts godoc
// @Summary Load more products
// @Description Append the next catalog page to the session window
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response
// @Router /products/more [get]
func (ctrl *ProductController) GetMoreProducts(c *gin.Context) {
	pager := ctrl.pagers.Get(sessionKey(c))

	if err := pager.LoadNextPage(c.Request.Context()); err != nil {
		c.JSON(502, gin.H{"success": false, "message": "Could not load products"})
		return
	}

	ctrl.respondWindow(c, pager)
}

// GetProductDetail godoc
// @Summary Get product detail
// @Description Get one product with its per-size and per-color availability
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid product id"})
		return
	}

	product, err := ctrl.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil || product == nil {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	colors := ctrl.inventory.AvailableColors(product)
	sizesByColor := gin.H{}
	for _, color := range colors {
		sizesByColor[color] = ctrl.inventory.SizesForColor(product, color)
	}

	c.JSON(200, gin.H{
		"success": true,
		"message": "Product retrieved",
		"data": gin.H{
			"product": product,
			"availability": gin.H{
				"total":          ctrl.inventory.TotalQuantity(product),
				"by_size":        ctrl.inventory.StockBySize(product),
				"colors":         colors,
				"sizes_by_color": sizesByColor,
			},
		},
	})
}
