package product

import (
	"errors"
	"strings"

	"github.com/mazal-shop/core/internal/models"
	"github.com/mazal-shop/core/internal/pkg/pagination"
	"github.com/mazal-shop/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(dto *CreateProductDTO) (*models.ProductModel, error) {
	p := models.ProductModel{
		TitleFa: dto.TitleFa,
		TitleEn: dto.TitleEn,
		Slug:    strings.TrimSpace(dto.Slug),
		Images:  dto.Images,
	}
	if err := s.db.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errSlugTaken
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) FindByID(id string) (*models.ProductModel, error) {
	var p models.ProductModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) FindBySlug(slug string) (*models.ProductModel, error) {
	var p models.ProductModel
	if err := s.db.First(&p, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) List(q pagination.Query) ([]models.ProductModel, response.Pagination, error) {
	tx := s.db.Model(&models.ProductModel{}).Order("created_at DESC")
	var products []models.ProductModel
	pag, err := pagination.Paginate(tx, q, &products)
	return products, pag, err
}

// IsBuyer answers the purchase oracle query: membership of userID in the
// product's buyers set.
func (s *Service) IsBuyer(productID, userID string) (bool, error) {
	var count int64
	err := s.db.Table("product_buyers").
		Where("product_model_id = ? AND user_model_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddBuyer records a completed purchase. Idempotent: re-adding an existing
// buyer is a no-op.
func (s *Service) AddBuyer(productID, userID string) error {
	p, err := s.FindByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return errProductNotFound
	}

	var u models.UserModel
	if err := s.db.Select("id").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errUserNotFound
		}
		return err
	}

	return s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Table("product_buyers").
		Create(map[string]interface{}{
			"product_model_id": productID,
			"user_model_id":    userID,
		}).Error
}
