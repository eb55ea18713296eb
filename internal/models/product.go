package models

// ProductModel represents a sellable product. Only the fields the review
// pipeline touches are modeled here; pricing and inventory live elsewhere.
type ProductModel struct {
	Base
	TitleFa string      `json:"title_fa" gorm:"not null"`
	TitleEn string      `json:"title_en"`
	Slug    string      `json:"slug"     gorm:"uniqueIndex;not null"`
	Images  StringArray `json:"images"   gorm:"type:longtext"`

	// Buyers is the set of users with a completed purchase of this product.
	Buyers []UserModel `json:"-" gorm:"many2many:product_buyers"`
}

func (ProductModel) TableName() string { return "products" }
