package product

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store"
	"vastra_back_end/internal/utils"
)

type Handler struct {
	catalog    store.Catalog
	categories store.Categories
	reviews    *services.ReviewService
	search     *services.SearchService
	media      *services.MediaService
	cache      *cache.Cache
}

func NewHandler(catalog store.Catalog, categories store.Categories, reviews *services.ReviewService, search *services.SearchService, media *services.MediaService, c *cache.Cache) *Handler {
	return &Handler{
		catalog:    catalog,
		categories: categories,
		reviews:    reviews,
		search:     search,
		media:      media,
		cache:      c,
	}
}

// GetProducts liste le catalogue avec filtres et pagination
func (h *Handler) GetProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Page:  c.GetInt("page"),
		Limit: c.GetInt("limit"),
		Sort:  c.GetString("sort"),
	}

	if raw := c.Query("category"); raw != "" {
		id, err := gocql.ParseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
			return
		}
		filter.CategoryID = &id
	}
	filter.Name = c.Query("name")
	if v := c.Query("gender_age_category"); v != "" {
		if !models.IsValidGenderAgeCategory(v) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie genre/âge invalide"})
			return
		}
		filter.GenderAgeCategory = v
	}
	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_price invalide"})
			return
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_price invalide"})
			return
		}
		filter.MaxPrice = &v
	}
	if raw := c.Query("colours"); raw != "" {
		filter.Colours = strings.Split(raw, ",")
	}
	if raw := c.Query("sizes"); raw != "" {
		filter.Sizes = strings.Split(raw, ",")
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		log.Printf("❌ Erreur listing produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur listing produits"})
		return
	}

	c.JSON(http.StatusOK, utils.Paginate(products, total, filter.Page, filter.Limit))
}

// GetProductByID retourne un produit (cache Redis devant Scylla)
func (h *Handler) GetProductByID(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := h.cache.GetProduct(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProduct crée un produit (admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var req struct {
		Name              string   `json:"name" binding:"required"`
		Description       string   `json:"description" binding:"required"`
		Price             float64  `json:"price" binding:"required,gt=0"`
		Stock             int      `json:"stock" binding:"min=0,max=255"`
		Colours           []string `json:"colours"`
		Sizes             []string `json:"sizes"`
		Image             string   `json:"image"`
		Images            []string `json:"images"`
		Category          string   `json:"category" binding:"required"`
		GenderAgeCategory string   `json:"gender_age_category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}
	if !models.IsValidGenderAgeCategory(req.GenderAgeCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie genre/âge invalide"})
		return
	}

	categoryID, err := gocql.ParseUUID(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}
	if _, err := h.categories.GetCategory(c.Request.Context(), categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégorie"})
		return
	}

	now := time.Now().UTC()
	p := &models.Product{
		ID:                gocql.TimeUUID(),
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Stock:             req.Stock,
		Colours:           req.Colours,
		Sizes:             req.Sizes,
		Image:             req.Image,
		Images:            req.Images,
		CategoryID:        categoryID,
		GenderAgeCategory: req.GenderAgeCategory,
		DateAdded:         now,
		UpdatedAt:         now,
	}

	if err := h.catalog.InsertProduct(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	h.search.IndexProduct(*p)
	log.Printf("✅ Produit créé: %s (%s)", p.Name, p.ID)

	c.JSON(http.StatusCreated, p)
}

// UpdateProduct modifie un produit existant (admin), champs partiels
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Name              *string   `json:"name"`
		Description       *string   `json:"description"`
		Price             *float64  `json:"price" binding:"omitempty,gt=0"`
		Stock             *int      `json:"stock" binding:"omitempty,min=0,max=255"`
		Colours           *[]string `json:"colours"`
		Sizes             *[]string `json:"sizes"`
		Image             *string   `json:"image"`
		Images            *[]string `json:"images"`
		Category          *string   `json:"category"`
		GenderAgeCategory *string   `json:"gender_age_category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Colours != nil {
		p.Colours = *req.Colours
	}
	if req.Sizes != nil {
		p.Sizes = *req.Sizes
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Category != nil {
		categoryID, err := gocql.ParseUUID(*req.Category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
			return
		}
		if _, err := h.categories.GetCategory(c.Request.Context(), categoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
				return
			}
			log.Printf("❌ Erreur lecture catégorie: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégorie"})
			return
		}
		p.CategoryID = categoryID
	}
	if req.GenderAgeCategory != nil {
		if !models.IsValidGenderAgeCategory(*req.GenderAgeCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie genre/âge invalide"})
			return
		}
		p.GenderAgeCategory = *req.GenderAgeCategory
	}
	p.UpdatedAt = time.Now().UTC()

	if err := h.catalog.UpdateProduct(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erreur mise à jour produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	// Le stock a son propre chemin atomique, jamais l'écriture catalogue
	if req.Stock != nil {
		if err := h.catalog.SetStock(c.Request.Context(), id, *req.Stock); err != nil {
			log.Printf("❌ Erreur mise à jour stock: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour stock"})
			return
		}
		p.Stock = *req.Stock
	}

	h.cache.InvalidateProduct(c.Request.Context(), id)
	h.search.IndexProduct(*p)

	c.JSON(http.StatusOK, p)
}

// DeleteProduct supprime un produit (admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		log.Printf("❌ Erreur suppression produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	h.cache.InvalidateProduct(c.Request.Context(), id)
	h.search.RemoveProduct(id.String())
	log.Printf("🗑️ Produit supprimé: %s", id)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}
