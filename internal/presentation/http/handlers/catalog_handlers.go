package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// CatalogHandlers contains the catalog administration HTTP handlers.
type CatalogHandlers struct {
	catalog *services.CatalogService
	logger  *logging.ChanneledLogger
}

func NewCatalogHandlers(catalog *services.CatalogService, logger *logging.ChanneledLogger) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog, logger: logger}
}

func (h *CatalogHandlers) GetProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandlers) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandlers) PostProduct(c *gin.Context) {
	var product catalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product body"})
		return
	}

	created, err := h.catalog.CreateProduct(&product)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandlers) PutProduct(c *gin.Context) {
	var product catalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product body"})
		return
	}
	product.ID = c.Param("id")

	if err := h.catalog.UpdateProduct(&product); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandlers) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *CatalogHandlers) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CatalogHandlers) PostCategory(c *gin.Context) {
	var category catalog.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category body"})
		return
	}

	created, err := h.catalog.CreateCategory(&category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandlers) GetStores(c *gin.Context) {
	stores, err := h.catalog.ListStores()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stores"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (h *CatalogHandlers) GetStore(c *gin.Context) {
	store, err := h.catalog.GetStore(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load store"})
		return
	}
	if store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandlers) PostStore(c *gin.Context) {
	var store catalog.Store
	if err := c.ShouldBindJSON(&store); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store body"})
		return
	}

	created, err := h.catalog.CreateStore(&store)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandlers) PutStore(c *gin.Context) {
	var store catalog.Store
	if err := c.ShouldBindJSON(&store); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store body"})
		return
	}
	store.ID = c.Param("id")

	if err := h.catalog.UpdateStore(&store); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update store"})
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandlers) DeleteStore(c *gin.Context) {
	if err := h.catalog.DeleteStore(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete store"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *CatalogHandlers) PostOffer(c *gin.Context) {
	var offer catalog.Offer
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer body"})
		return
	}

	created, err := h.catalog.CreateOffer(&offer)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CatalogHandlers) PutOffer(c *gin.Context) {
	var offer catalog.Offer
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer body"})
		return
	}
	offer.ID = c.Param("id")

	if err := h.catalog.UpdateOffer(&offer); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update offer"})
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *CatalogHandlers) DeleteOffer(c *gin.Context) {
	if err := h.catalog.DeleteOffer(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete offer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
