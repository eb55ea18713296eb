package comment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mazal-shop/core/internal/models"
	"github.com/mazal-shop/core/internal/modules/catalog/product"
	"github.com/mazal-shop/core/internal/pkg/pagination"
	pkgredis "github.com/mazal-shop/core/internal/pkg/redis"
	"github.com/mazal-shop/core/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ratingCacheTTL = 30 * time.Second

// Service implements the comment lifecycle, the engagement toggles and the
// read-side aggregation. The product service acts as the purchase oracle;
// cache may be nil, in which case rating summaries are always recomputed.
type Service struct {
	db       *gorm.DB
	products *product.Service
	cache    *pkgredis.Client
}

func NewService(db *gorm.DB, products *product.Service, cache *pkgredis.Client) *Service {
	return &Service{db: db, products: products, cache: cache}
}

// Create persists a new waiting comment. Non-buyers silently lose rate,
// recommendation status and images regardless of payload. The pre-check keeps
// the friendly error message; the unique index on (product_id, user_id)
// closes the race between concurrent first submissions.
func (s *Service) Create(productID, userID string, dto *CreateCommentDTO) error {
	p, err := s.products.FindByID(productID)
	if err != nil {
		return err
	}
	if p == nil {
		return errProductNotFound
	}

	isBuyer, err := s.products.IsBuyer(p.ID, userID)
	if err != nil {
		return err
	}

	var existing int64
	if err := s.db.Model(&models.CommentModel{}).
		Where("product_id = ? AND user_id = ?", p.ID, userID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return errCommentExists
	}

	rate := dto.Rate
	var recommendation *string
	if isBuyer {
		if dto.RecommendationStatus != "" {
			v := dto.RecommendationStatus
			recommendation = &v
		}
	} else {
		rate = 0
	}

	c := models.CommentModel{
		ProductID:            p.ID,
		UserID:               userID,
		Title:                dto.Title,
		Body:                 dto.Comment,
		Rate:                 rate,
		RecommendationStatus: recommendation,
		PositivePoints:       dto.PositivePoints,
		NegativePoints:       dto.NegativePoints,
		// image refs are only attached by the upload pipeline, never from payload
		Images:      models.StringArray{},
		IsAnonymous: dto.IsAnonymous,
		IsBuyer:     isBuyer,
		Status:      models.CommentWaiting,
	}
	if err := s.db.Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errCommentExists
		}
		return err
	}
	return nil
}

// Update applies a partial edit to the caller's own comment. Buyer-gated
// fields are re-derived from the stored is_buyer flag, not a fresh oracle
// lookup, and the moderation state always drops back to waiting.
func (s *Service) Update(commentID, userID string, dto *UpdateCommentDTO) error {
	var c models.CommentModel
	if err := s.db.Where("id = ? AND user_id = ?", commentID, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCommentNotFound
		}
		return err
	}

	updates := map[string]interface{}{
		"status": models.CommentWaiting,
	}
	if dto.Title != "" {
		updates["title"] = dto.Title
	}
	if dto.Comment != "" {
		updates["body"] = dto.Comment
	}

	if c.IsBuyer && dto.Rate > 0 {
		updates["rate"] = dto.Rate
	} else {
		updates["rate"] = 0
	}
	if c.IsBuyer && dto.RecommendationStatus != "" {
		updates["recommendation_status"] = dto.RecommendationStatus
	} else {
		updates["recommendation_status"] = nil
	}
	updates["images"] = models.StringArray{}

	if dto.PositivePoints != nil {
		updates["positive_points"] = models.StringArray(dto.PositivePoints)
	}
	if dto.NegativePoints != nil {
		updates["negative_points"] = models.StringArray(dto.NegativePoints)
	}
	if dto.IsAnonymous != nil {
		updates["is_anonymous"] = *dto.IsAnonymous
	}

	if err := s.db.Model(&c).Updates(updates).Error; err != nil {
		return err
	}
	s.invalidateRating(c.ProductID)
	return nil
}

// Delete removes the caller's own comment permanently, along with its
// engagement rows. Ownership mismatch reports not-found.
func (s *Service) Delete(commentID, userID string) error {
	var c models.CommentModel
	if err := s.db.Where("id = ? AND user_id = ?", commentID, userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCommentNotFound
		}
		return err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Where("comment_id = ?", c.ID).Delete(&models.CommentReactionModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("comment_id = ?", c.ID).Delete(&models.CommentReportModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.CommentModel{}, "id = ?", c.ID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	s.invalidateRating(c.ProductID)
	return nil
}

// Accept publishes a waiting or rejected comment. The state change is a
// conditional single-statement update so a concurrent Accept/Reject pair
// cannot interleave between check and write.
func (s *Service) Accept(commentID string) error {
	return s.moderate(commentID, models.CommentApproved, errAlreadyApproved)
}

// Reject hides a waiting or approved comment.
func (s *Service) Reject(commentID string) error {
	return s.moderate(commentID, models.CommentRejected, errAlreadyRejected)
}

func (s *Service) moderate(commentID string, target models.CommentStatus, conflict error) error {
	var c models.CommentModel
	if err := s.db.Select("id, product_id").First(&c, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCommentNotFound
		}
		return err
	}

	res := s.db.Model(&models.CommentModel{}).
		Where("id = ? AND status <> ?", c.ID, target).
		Update("status", target)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return conflict
	}
	s.invalidateRating(c.ProductID)
	return nil
}

// Like toggles the caller's membership in the likes set.
func (s *Service) Like(commentID, userID string) (string, error) {
	return s.react(commentID, userID, models.ReactionLike)
}

// Dislike toggles the caller's membership in the dislikes set.
func (s *Service) Dislike(commentID, userID string) (string, error) {
	return s.react(commentID, userID, models.ReactionDislike)
}

// react applies exactly one of cancel/switch/add. Each step is a conditional
// statement whose WHERE clause carries the membership check, and all of them
// run inside one transaction, so a racing toggle from the same user cannot
// observe a half-applied state.
func (s *Service) react(commentID, userID string, kind models.ReactionKind) (string, error) {
	addedMsg, canceledMsg := reactionMessages(kind)

	var exists int64
	if err := s.db.Model(&models.CommentModel{}).
		Where("id = ?", commentID).Count(&exists).Error; err != nil {
		return "", err
	}
	if exists == 0 {
		return "", errCommentNotFound
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return "", tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Cancel: already in the matching set.
	del := tx.Where("comment_id = ? AND user_id = ? AND kind = ?", commentID, userID, kind).
		Delete(&models.CommentReactionModel{})
	if del.Error != nil {
		tx.Rollback()
		return "", del.Error
	}
	if del.RowsAffected > 0 {
		return canceledMsg, tx.Commit().Error
	}

	// Switch: present in the opposite set.
	upd := tx.Model(&models.CommentReactionModel{}).
		Where("comment_id = ? AND user_id = ? AND kind = ?", commentID, userID, oppositeKind(kind)).
		Update("kind", kind)
	if upd.Error != nil {
		tx.Rollback()
		return "", upd.Error
	}
	if upd.RowsAffected > 0 {
		return addedMsg, tx.Commit().Error
	}

	// Add: present in neither. The unique index absorbs a concurrent insert.
	r := models.CommentReactionModel{CommentID: commentID, UserID: userID, Kind: kind}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&r).Error; err != nil {
		tx.Rollback()
		return "", err
	}
	return addedMsg, tx.Commit().Error
}

// Report appends the caller to the reports set. One shot per user: the unique
// index turns a duplicate into a conflict.
func (s *Service) Report(commentID, userID string) error {
	var exists int64
	if err := s.db.Model(&models.CommentModel{}).
		Where("id = ?", commentID).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return errCommentNotFound
	}

	r := models.CommentReportModel{CommentID: commentID, UserID: userID}
	if err := s.db.Create(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errAlreadyReported
		}
		return err
	}
	return nil
}

// ListAccepted builds the public feed: approved comments joined with the
// author's display name and reaction counts, plus the product rating summary.
func (s *Service) ListAccepted(productID string, q pagination.Query, sort string) ([]acceptedCommentResponse, RatingSummary, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("User").
		Where("product_id = ? AND status = ?", productID, models.CommentApproved).
		Order(sortExpr(sort))

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	if err != nil {
		return nil, RatingSummary{}, response.Pagination{}, err
	}

	counts, err := s.loadReactionCounts(comments)
	if err != nil {
		return nil, RatingSummary{}, response.Pagination{}, err
	}

	items := make([]acceptedCommentResponse, len(comments))
	for i, c := range comments {
		items[i] = acceptedCommentResponse{
			ID:                   c.ID,
			Title:                c.Title,
			Comment:              c.Body,
			Rate:                 c.Rate,
			RecommendationStatus: c.RecommendationStatus,
			PositivePoints:       c.PositivePoints,
			NegativePoints:       c.NegativePoints,
			Images:               c.Images,
			IsBuyer:              c.IsBuyer,
			IsAnonymous:          c.IsAnonymous,
			Username:             displayName(c.IsAnonymous, c.User.FirstName, c.User.LastName),
			LikeCount:            counts[c.ID][models.ReactionLike],
			DislikeCount:         counts[c.ID][models.ReactionDislike],
			Created:              c.CreatedAt,
		}
	}

	rating, err := s.Rating(productID)
	if err != nil {
		return nil, RatingSummary{}, response.Pagination{}, err
	}
	return items, rating, pag, nil
}

// ListUnaccepted is the moderation queue: everything not approved, with the
// raw creator identity.
func (s *Service) ListUnaccepted(productID string, q pagination.Query, sort string) ([]moderationCommentResponse, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("User").
		Where("product_id = ? AND status <> ?", productID, models.CommentApproved).
		Order(sortExpr(sort))

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	items := make([]moderationCommentResponse, len(comments))
	for i, c := range comments {
		items[i] = moderationCommentResponse{
			ID:                   c.ID,
			Title:                c.Title,
			Comment:              c.Body,
			Rate:                 c.Rate,
			RecommendationStatus: c.RecommendationStatus,
			Status:               c.Status,
			IsApproved:           c.IsApproved(),
			PositivePoints:       c.PositivePoints,
			NegativePoints:       c.NegativePoints,
			Images:               c.Images,
			IsBuyer:              c.IsBuyer,
			IsAnonymous:          c.IsAnonymous,
			Creator: creatorResponse{
				ID:        c.User.ID,
				FirstName: c.User.FirstName,
				LastName:  c.User.LastName,
				Email:     c.User.Email,
			},
			Created: c.CreatedAt,
		}
	}
	return items, pag, nil
}

// ListUserComments returns the caller's comments joined with a product summary.
func (s *Service) ListUserComments(userID string, q pagination.Query) ([]userCommentResponse, response.Pagination, error) {
	tx := s.db.Model(&models.CommentModel{}).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC")

	var comments []models.CommentModel
	pag, err := pagination.Paginate(tx, q, &comments)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	items := make([]userCommentResponse, len(comments))
	for i, c := range comments {
		items[i] = userCommentResponse{
			ID:                   c.ID,
			Title:                c.Title,
			Comment:              c.Body,
			Rate:                 c.Rate,
			RecommendationStatus: c.RecommendationStatus,
			Status:               c.Status,
			IsApproved:           c.IsApproved(),
			PositivePoints:       c.PositivePoints,
			NegativePoints:       c.NegativePoints,
			Images:               c.Images,
			IsBuyer:              c.IsBuyer,
			IsAnonymous:          c.IsAnonymous,
			Created:              c.CreatedAt,
			Product: productSummary{
				ID:      c.Product.ID,
				TitleFa: c.Product.TitleFa,
				TitleEn: c.Product.TitleEn,
				Slug:    c.Product.Slug,
				Images:  c.Product.Images,
			},
		}
	}
	return items, pag, nil
}

// ListPendingReviewTargets returns purchased products the caller has not
// reviewed yet: the buyers set minus the already-commented set.
func (s *Service) ListPendingReviewTargets(userID string, q pagination.Query) ([]models.ProductModel, response.Pagination, error) {
	tx := s.db.Model(&models.ProductModel{}).
		Joins("JOIN product_buyers pb ON pb.product_model_id = products.id").
		Where("pb.user_model_id = ?", userID).
		Where("products.id NOT IN (?)",
			s.db.Model(&models.CommentModel{}).Select("product_id").Where("user_id = ?", userID),
		).
		Order("products.created_at DESC")

	var products []models.ProductModel
	pag, err := pagination.Paginate(tx, q, &products)
	return products, pag, err
}

// Rating computes the product's average rating over approved comments with a
// positive rate, rounded to one decimal. Summaries are cached briefly.
func (s *Service) Rating(productID string) (RatingSummary, error) {
	if cached, ok := s.cachedRating(productID); ok {
		return cached, nil
	}

	var row struct {
		Avg   *float64
		Count int64
	}
	err := s.db.Model(&models.CommentModel{}).
		Select("AVG(rate) as avg, COUNT(*) as count").
		Where("product_id = ? AND status = ? AND rate > 0", productID, models.CommentApproved).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}

	summary := RatingSummary{Count: row.Count}
	if row.Avg != nil {
		summary.Rate = roundRate(*row.Avg)
	}
	s.storeRating(productID, summary)
	return summary, nil
}

func ratingCacheKey(productID string) string {
	return "mazal:product_rating:" + productID
}

func (s *Service) cachedRating(productID string) (RatingSummary, bool) {
	if s.cache == nil {
		return RatingSummary{}, false
	}
	raw, err := s.cache.Get(context.Background(), ratingCacheKey(productID))
	if err != nil || raw == "" {
		return RatingSummary{}, false
	}
	var summary RatingSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return RatingSummary{}, false
	}
	return summary, true
}

func (s *Service) storeRating(productID string, summary RatingSummary) {
	if s.cache == nil {
		return
	}
	if b, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(context.Background(), ratingCacheKey(productID), b, ratingCacheTTL)
	}
}

func (s *Service) invalidateRating(productID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(context.Background(), ratingCacheKey(productID))
}

// loadReactionCounts batch-loads like/dislike counts for a page of comments.
func (s *Service) loadReactionCounts(comments []models.CommentModel) (map[string]map[models.ReactionKind]int64, error) {
	out := make(map[string]map[models.ReactionKind]int64, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	var rows []struct {
		CommentID string
		Kind      models.ReactionKind
		Count     int64
	}
	if err := s.db.Model(&models.CommentReactionModel{}).
		Select("comment_id, kind, COUNT(*) as count").
		Where("comment_id IN ?", ids).
		Group("comment_id, kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		if out[row.CommentID] == nil {
			out[row.CommentID] = make(map[models.ReactionKind]int64, 2)
		}
		out[row.CommentID][row.Kind] = row.Count
	}
	return out, nil
}
