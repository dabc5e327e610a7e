package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/lakshya189/sonicart-api/initializers"
	"github.com/lakshya189/sonicart-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// CreateProduct creates a catalog product (admin only).
func CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if product.Slug == "" {
		product.Slug = slugify(product.Name)
	}
	if product.CategoryID != 0 {
		var category models.Category
		if err := initializers.DB.First(&category, product.CategoryID).Error; err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "category does not exist")
			return
		}
	}

	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, product)
}

// GetProducts lists active products with pagination, search and filters.
// Admins may pass includeInactive=true to see the whole catalog.
func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	offset := (page - 1) * limit

	query := initializers.DB.Preload("Category")
	countQuery := initializers.DB.Model(&models.Product{})

	if ctx.Query("includeInactive") != "true" || !isAdmin(ctx) {
		query = query.Where("is_active = ?", true)
		countQuery = countQuery.Where("is_active = ?", true)
	}
	if search := ctx.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
		countQuery = countQuery.Where("name LIKE ?", "%"+search+"%")
	}
	if category := ctx.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
		countQuery = countQuery.Where("category_id = ?", category)
	}
	if ctx.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
		countQuery = countQuery.Where("is_featured = ?", true)
	}

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	countQuery.Count(&count)

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetProduct looks a product up by numeric id or by slug.
func GetProduct(ctx *gin.Context) {
	idOrSlug := ctx.Param("id")

	query := initializers.DB.Preload("Category")
	if productID, err := strconv.Atoi(idOrSlug); err == nil {
		query = query.Where("id = ?", productID)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}

	var product models.Product
	result := query.First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	sendJSONResponse(ctx, http.StatusOK, product)
}

// UpdateProduct applies a partial update (admin only). Stock is managed by
// checkout and cancellation, but admins may correct it here too.
func UpdateProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", err)
		}
		return
	}

	var updates map[string]any
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	allowed := map[string]bool{
		"name": true, "slug": true, "description": true, "price": true,
		"comparePrice": true, "sku": true, "stock": true, "images": true,
		"isActive": true, "isFeatured": true, "categoryId": true, "notes": true,
	}
	columns := map[string]string{
		"comparePrice": "compare_price", "isActive": "is_active",
		"isFeatured": "is_featured", "categoryId": "category_id",
	}
	sanitized := map[string]any{}
	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		column := key
		if mapped, ok := columns[key]; ok {
			column = mapped
		}
		sanitized[column] = value
	}
	if len(sanitized) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	if err := initializers.DB.Model(&product).Updates(sanitized).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, product)
}

// DeleteProduct deactivates a product rather than deleting the row, so order
// item history keeps pointing at something real.
func DeleteProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	result := initializers.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("is_active", false)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		return
	}

	sendMessageResponse(ctx, http.StatusOK, "Product removed from catalog.")
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

// UploadProductImages uploads images to S3 and appends their URLs to the
// product's image list (admin only).
func UploadProductImages(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product ID")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "No files uploaded")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		bucket = "sonicart"
	}

	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			log.Printf("Error opening file %s: %v", file.Filename, openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key to prevent overwrites
		uniqueFilename := fmt.Sprintf("%d-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			log.Printf("Error uploading file %s: %v", file.Filename, uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)
	}

	if len(uploadedUrls) > 0 {
		var images []string
		if len(product.Images) > 0 {
			if err := json.Unmarshal(product.Images, &images); err != nil {
				log.Println("Resetting malformed image list for product", product.ID)
				images = nil
			}
		}
		images = append(images, uploadedUrls...)

		raw, err := json.Marshal(images)
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to encode image list", err)
			return
		}
		if err := initializers.DB.Model(&product).Update("images", datatypes.JSON(raw)).Error; err != nil {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to save image list", err)
			return
		}
	}

	response := gin.H{"urls": uploadedUrls}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	sendJSONResponse(ctx, http.StatusOK, response)
}
