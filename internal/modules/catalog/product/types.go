package product

import (
	"errors"
	"time"

	"github.com/mazal-shop/core/internal/models"
)

var (
	errProductNotFound = errors.New("product not found")
	errSlugTaken       = errors.New("product slug already exists")
	errUserNotFound    = errors.New("user not found")
)

type CreateProductDTO struct {
	TitleFa string   `json:"title_fa" binding:"required"`
	TitleEn string   `json:"title_en"`
	Slug    string   `json:"slug"     binding:"required"`
	Images  []string `json:"images"`
}

type AddBuyerDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

type productResponse struct {
	ID      string             `json:"id"`
	TitleFa string             `json:"title_fa"`
	TitleEn string             `json:"title_en"`
	Slug    string             `json:"slug"`
	Images  models.StringArray `json:"images"`
	Created time.Time          `json:"created"`
}

func toResponse(p *models.ProductModel) productResponse {
	return productResponse{
		ID: p.ID, TitleFa: p.TitleFa, TitleEn: p.TitleEn,
		Slug: p.Slug, Images: p.Images, Created: p.CreatedAt,
	}
}
