package comment

import (
	"errors"
	"time"

	"github.com/mazal-shop/core/internal/models"
)

var (
	errProductNotFound = errors.New("product not found")
	errCommentNotFound = errors.New("comment not found")
	errCommentExists   = errors.New("comment already created for this product")
	errAlreadyReported = errors.New("comment already reported by this user")
	errAlreadyApproved = errors.New("comment is already approved")
	errAlreadyRejected = errors.New("comment is already rejected")
)

// User-facing messages returned by the comment endpoints.
const (
	msgNotFoundProduct = "محصول با این مشخصات یافت نشد"
	msgCommentExists   = "شما قبلا برای این محصول نظر خود را ثبت کرده اید"
	msgCreateSuccess   = "دیدگاه شما با موفقیت ثبت شد و بعد تایید شده به نمایش گذاشته میشود"
	msgNotFoundComment = "دیدگاه با این مشخصات یافت نشد"
	msgUpdateSuccess   = "دیدگاه با موفقیت بروزرسانی شد"
	msgDeleteSuccess   = "دیدگاه با موفقیت حذف شد"
	msgAlreadyReported = "شما قبلا این دیدگاه را گزارش کرده اید"
	msgReportSuccess   = "گزارش با موفقیت ثبت شد"
	msgAlreadyApproved = "این دیدگاه هم اکنون فعال است"
	msgAcceptSuccess   = "این دیدگاه با موفقیت برای عموم فعال شد"
	msgAlreadyRejected = "این دیدگاه هم اکنون غیر فعال است"
	msgRejectSuccess   = "دیدگاه با موفقیت غیر فعال شد"

	msgLikeAdded       = "لایک شما ثبت شد"
	msgLikeCanceled    = "لایک شما حذف شد"
	msgDislikeAdded    = "دیسلایک شما ثبت شد"
	msgDislikeCanceled = "دیسلایک شما حذف شد"
)

// Sort modes accepted by the list endpoints.
const (
	SortNewest      = "1"
	SortOldest      = "2"
	SortBuyersFirst = "3"
)

type CreateCommentDTO struct {
	Title                string   `json:"title"                 binding:"required"`
	Comment              string   `json:"comment"               binding:"required"`
	Rate                 int      `json:"rate"                  binding:"min=0,max=5"`
	RecommendationStatus string   `json:"recommendation_status" binding:"omitempty,oneof=recommended not_sure not_recommended"`
	PositivePoints       []string `json:"positive_points"`
	NegativePoints       []string `json:"negative_points"`
	Images               []string `json:"images"`
	IsAnonymous          bool     `json:"is_anonymous"`
}

// UpdateCommentDTO carries partial-update semantics: empty text fields are
// left untouched, buyer-gated fields are re-derived on every update.
type UpdateCommentDTO struct {
	Title                string   `json:"title"`
	Comment              string   `json:"comment"`
	Rate                 int      `json:"rate"                  binding:"min=0,max=5"`
	RecommendationStatus string   `json:"recommendation_status" binding:"omitempty,oneof=recommended not_sure not_recommended"`
	PositivePoints       []string `json:"positive_points"`
	NegativePoints       []string `json:"negative_points"`
	Images               []string `json:"images"`
	IsAnonymous          *bool    `json:"is_anonymous"`
}

type CommentIDDTO struct {
	CommentID string `json:"comment_id" binding:"required"`
}

type acceptedCommentResponse struct {
	ID                   string             `json:"id"`
	Title                string             `json:"title"`
	Comment              string             `json:"comment"`
	Rate                 int                `json:"rate"`
	RecommendationStatus *string            `json:"recommendation_status"`
	PositivePoints       models.StringArray `json:"positive_points"`
	NegativePoints       models.StringArray `json:"negative_points"`
	Images               models.StringArray `json:"images"`
	IsBuyer              bool               `json:"is_buyer"`
	IsAnonymous          bool               `json:"is_anonymous"`
	Username             string             `json:"username"`
	LikeCount            int64              `json:"like_count"`
	DislikeCount         int64              `json:"dislike_count"`
	Created              time.Time          `json:"created"`
}

type creatorResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// moderationCommentResponse exposes the raw creator identity; the moderation
// queue never anonymizes.
type moderationCommentResponse struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Comment              string               `json:"comment"`
	Rate                 int                  `json:"rate"`
	RecommendationStatus *string              `json:"recommendation_status"`
	Status               models.CommentStatus `json:"status"`
	IsApproved           bool                 `json:"is_approved"`
	PositivePoints       models.StringArray   `json:"positive_points"`
	NegativePoints       models.StringArray   `json:"negative_points"`
	Images               models.StringArray   `json:"images"`
	IsBuyer              bool                 `json:"is_buyer"`
	IsAnonymous          bool                 `json:"is_anonymous"`
	Creator              creatorResponse      `json:"creator"`
	Created              time.Time            `json:"created"`
}

type productSummary struct {
	ID      string             `json:"id"`
	TitleFa string             `json:"title_fa"`
	TitleEn string             `json:"title_en"`
	Slug    string             `json:"slug"`
	Images  models.StringArray `json:"images"`
}

type userCommentResponse struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Comment              string               `json:"comment"`
	Rate                 int                  `json:"rate"`
	RecommendationStatus *string              `json:"recommendation_status"`
	Status               models.CommentStatus `json:"status"`
	IsApproved           bool                 `json:"is_approved"`
	PositivePoints       models.StringArray   `json:"positive_points"`
	NegativePoints       models.StringArray   `json:"negative_points"`
	Images               models.StringArray   `json:"images"`
	IsBuyer              bool                 `json:"is_buyer"`
	IsAnonymous          bool                 `json:"is_anonymous"`
	Created              time.Time            `json:"created"`
	Product              productSummary       `json:"product"`
}

// RatingSummary is the running average over approved, rated comments.
type RatingSummary struct {
	Rate  float64 `json:"rate"`
	Count int64   `json:"count"`
}
