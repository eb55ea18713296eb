package comment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mazal-shop/core/internal/database"
	"github.com/mazal-shop/core/internal/models"
	"github.com/mazal-shop/core/internal/modules/catalog/product"
	"github.com/mazal-shop/core/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("resolve sql db: %v", err)
	}
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db       *gorm.DB
	products *product.Service
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	products := product.NewService(db)
	return &fixture{
		db:       db,
		products: products,
		svc:      NewService(db, products, nil),
	}
}

func (f *fixture) user(t *testing.T, first, last string) *models.UserModel {
	t.Helper()
	u := models.UserModel{
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
		Password:  "x",
	}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &u
}

func (f *fixture) product(t *testing.T, slug string) *models.ProductModel {
	t.Helper()
	p, err := f.products.Create(&product.CreateProductDTO{
		TitleFa: "محصول " + slug,
		TitleEn: "product " + slug,
		Slug:    slug,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) buy(t *testing.T, p *models.ProductModel, u *models.UserModel) {
	t.Helper()
	if err := f.products.AddBuyer(p.ID, u.ID); err != nil {
		t.Fatalf("add buyer: %v", err)
	}
}

func (f *fixture) comment(t *testing.T, p *models.ProductModel, u *models.UserModel, dto *CreateCommentDTO) *models.CommentModel {
	t.Helper()
	if dto == nil {
		dto = &CreateCommentDTO{Title: "عنوان", Comment: "متن دیدگاه"}
	}
	if err := f.svc.Create(p.ID, u.ID, dto); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	var c models.CommentModel
	if err := f.db.Where("product_id = ? AND user_id = ?", p.ID, u.ID).First(&c).Error; err != nil {
		t.Fatalf("load comment: %v", err)
	}
	return &c
}

func (f *fixture) reload(t *testing.T, id string) *models.CommentModel {
	t.Helper()
	var c models.CommentModel
	if err := f.db.First(&c, "id = ?", id).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	return &c
}

func defaultQuery() pagination.Query { return pagination.Solve(1, 10) }

func TestCreateCommentProductNotFound(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")

	err := f.svc.Create("missing-id", u.ID, &CreateCommentDTO{Title: "t", Comment: "c"})
	if !errors.Is(err, errProductNotFound) {
		t.Fatalf("expected errProductNotFound, got %v", err)
	}
}

func TestCreateCommentDuplicate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")

	f.comment(t, p, u, nil)

	err := f.svc.Create(p.ID, u.ID, &CreateCommentDTO{Title: "t", Comment: "c"})
	if !errors.Is(err, errCommentExists) {
		t.Fatalf("expected errCommentExists, got %v", err)
	}
}

func TestCreateCommentNonBuyerZeroed(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")

	c := f.comment(t, p, u, &CreateCommentDTO{
		Title:                "t",
		Comment:              "c",
		Rate:                 5,
		RecommendationStatus: models.RecommendationSuggest,
		Images:               []string{"a.png"},
	})

	if c.IsBuyer {
		t.Fatal("comment should not be marked as buyer")
	}
	if c.Rate != 0 {
		t.Fatalf("non-buyer rate = %d, want 0", c.Rate)
	}
	if c.RecommendationStatus != nil {
		t.Fatalf("non-buyer recommendation = %v, want nil", *c.RecommendationStatus)
	}
	if len(c.Images) != 0 {
		t.Fatalf("non-buyer images = %v, want empty", c.Images)
	}
	if c.Status != models.CommentWaiting {
		t.Fatalf("status = %s, want waiting", c.Status)
	}
}

func TestCreateCommentBuyerKeepsRate(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	f.buy(t, p, u)

	c := f.comment(t, p, u, &CreateCommentDTO{
		Title:                "t",
		Comment:              "c",
		Rate:                 4,
		RecommendationStatus: models.RecommendationSuggest,
	})

	if !c.IsBuyer {
		t.Fatal("comment should be marked as buyer")
	}
	if c.Rate != 4 {
		t.Fatalf("buyer rate = %d, want 4", c.Rate)
	}
	if c.RecommendationStatus == nil || *c.RecommendationStatus != models.RecommendationSuggest {
		t.Fatalf("recommendation = %v, want %q", c.RecommendationStatus, models.RecommendationSuggest)
	}
}

func TestUpdateResetsModeration(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	f.buy(t, p, u)
	c := f.comment(t, p, u, &CreateCommentDTO{Title: "t", Comment: "c", Rate: 5})

	if err := f.svc.Accept(c.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := f.reload(t, c.ID); got.Status != models.CommentApproved {
		t.Fatalf("status after accept = %s, want approved", got.Status)
	}

	if err := f.svc.Update(c.ID, u.ID, &UpdateCommentDTO{Title: "edited", Rate: 3}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := f.reload(t, c.ID)
	if got.Status != models.CommentWaiting {
		t.Fatalf("status after edit = %s, want waiting", got.Status)
	}
	if got.IsApproved() {
		t.Fatal("edited comment must not stay approved")
	}
	if got.Title != "edited" {
		t.Fatalf("title = %q, want %q", got.Title, "edited")
	}
	if got.Rate != 3 {
		t.Fatalf("rate = %d, want 3", got.Rate)
	}
}

func TestUpdatePartialSemantics(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	c := f.comment(t, p, u, &CreateCommentDTO{Title: "original", Comment: "body"})

	// empty text fields are no-ops; rate is re-derived from the stored
	// is_buyer flag, so a non-buyer cannot smuggle a rating in via update
	if err := f.svc.Update(c.ID, u.ID, &UpdateCommentDTO{Rate: 4}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := f.reload(t, c.ID)
	if got.Title != "original" || got.Body != "body" {
		t.Fatalf("text fields changed: %q / %q", got.Title, got.Body)
	}
	if got.Rate != 0 {
		t.Fatalf("non-buyer rate after update = %d, want 0", got.Rate)
	}
}

func TestUpdateOwnershipMismatch(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Sara", "Karimi")
	other := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")
	c := f.comment(t, p, owner, nil)

	err := f.svc.Update(c.ID, other.ID, &UpdateCommentDTO{Title: "hijack"})
	if !errors.Is(err, errCommentNotFound) {
		t.Fatalf("expected errCommentNotFound, got %v", err)
	}
}

func TestDeleteComment(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Sara", "Karimi")
	other := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")
	c := f.comment(t, p, owner, nil)

	if _, err := f.svc.Like(c.ID, other.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := f.svc.Delete(c.ID, other.ID); !errors.Is(err, errCommentNotFound) {
		t.Fatalf("delete by non-owner: expected errCommentNotFound, got %v", err)
	}
	if err := f.svc.Delete(c.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var comments, reactions int64
	f.db.Model(&models.CommentModel{}).Count(&comments)
	f.db.Model(&models.CommentReactionModel{}).Count(&reactions)
	if comments != 0 || reactions != 0 {
		t.Fatalf("leftover rows after delete: comments=%d reactions=%d", comments, reactions)
	}
}

func reactionKinds(t *testing.T, db *gorm.DB, commentID, userID string) []models.ReactionKind {
	t.Helper()
	var rows []models.CommentReactionModel
	if err := db.Where("comment_id = ? AND user_id = ?", commentID, userID).Find(&rows).Error; err != nil {
		t.Fatalf("load reactions: %v", err)
	}
	kinds := make([]models.ReactionKind, len(rows))
	for i, r := range rows {
		kinds[i] = r.Kind
	}
	return kinds
}

func TestLikeToggleCancels(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Sara", "Karimi")
	liker := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")
	c := f.comment(t, p, owner, nil)

	msg, err := f.svc.Like(c.ID, liker.ID)
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if msg != msgLikeAdded {
		t.Fatalf("first like message = %q, want %q", msg, msgLikeAdded)
	}

	msg, err = f.svc.Like(c.ID, liker.ID)
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if msg != msgLikeCanceled {
		t.Fatalf("second like message = %q, want %q", msg, msgLikeCanceled)
	}

	if kinds := reactionKinds(t, f.db, c.ID, liker.ID); len(kinds) != 0 {
		t.Fatalf("after double like, reactions = %v, want none", kinds)
	}
}

func TestLikeThenDislikeSwitches(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Sara", "Karimi")
	voter := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")
	c := f.comment(t, p, owner, nil)

	if _, err := f.svc.Like(c.ID, voter.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	msg, err := f.svc.Dislike(c.ID, voter.ID)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if msg != msgDislikeAdded {
		t.Fatalf("dislike message = %q, want %q", msg, msgDislikeAdded)
	}

	kinds := reactionKinds(t, f.db, c.ID, voter.ID)
	if len(kinds) != 1 || kinds[0] != models.ReactionDislike {
		t.Fatalf("after switch, reactions = %v, want [dislike]", kinds)
	}
}

func TestToggleCommentNotFound(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")

	if _, err := f.svc.Like("missing", u.ID); !errors.Is(err, errCommentNotFound) {
		t.Fatalf("expected errCommentNotFound, got %v", err)
	}
}

func TestReportIsOneShot(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "Sara", "Karimi")
	reporter := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")
	c := f.comment(t, p, owner, nil)

	if err := f.svc.Report(c.ID, reporter.ID); err != nil {
		t.Fatalf("first report: %v", err)
	}
	if err := f.svc.Report(c.ID, reporter.ID); !errors.Is(err, errAlreadyReported) {
		t.Fatalf("second report: expected errAlreadyReported, got %v", err)
	}

	var count int64
	f.db.Model(&models.CommentReportModel{}).
		Where("comment_id = ? AND user_id = ?", c.ID, reporter.ID).
		Count(&count)
	if count != 1 {
		t.Fatalf("report rows = %d, want 1", count)
	}
}

func TestModerationGuards(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	c := f.comment(t, p, u, nil)

	if err := f.svc.Accept(c.ID); err != nil {
		t.Fatalf("accept waiting: %v", err)
	}
	if err := f.svc.Accept(c.ID); !errors.Is(err, errAlreadyApproved) {
		t.Fatalf("accept approved: expected errAlreadyApproved, got %v", err)
	}

	if err := f.svc.Reject(c.ID); err != nil {
		t.Fatalf("reject approved: %v", err)
	}
	if err := f.svc.Reject(c.ID); !errors.Is(err, errAlreadyRejected) {
		t.Fatalf("reject rejected: expected errAlreadyRejected, got %v", err)
	}

	// rejected comments can be re-approved
	if err := f.svc.Accept(c.ID); err != nil {
		t.Fatalf("accept rejected: %v", err)
	}
	if got := f.reload(t, c.ID); got.Status != models.CommentApproved {
		t.Fatalf("status = %s, want approved", got.Status)
	}

	if err := f.svc.Accept("missing"); !errors.Is(err, errCommentNotFound) {
		t.Fatalf("accept missing: expected errCommentNotFound, got %v", err)
	}
}

func TestRatingAverageExcludesUnrated(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "phone")

	rates := []int{5, 3, 4}
	for i, rate := range rates {
		u := f.user(t, "Buyer", fmt.Sprintf("Num%d", i))
		f.buy(t, p, u)
		c := f.comment(t, p, u, &CreateCommentDTO{Title: "t", Comment: "c", Rate: rate})
		if err := f.svc.Accept(c.ID); err != nil {
			t.Fatalf("accept: %v", err)
		}
	}

	// non-buyer comment is stored with rate 0 and must not drag the average down
	nonBuyer := f.user(t, "Visitor", "NoPurchase")
	c := f.comment(t, p, nonBuyer, &CreateCommentDTO{Title: "t", Comment: "c", Rate: 5})
	if err := f.svc.Accept(c.ID); err != nil {
		t.Fatalf("accept non-buyer: %v", err)
	}

	rating, err := f.svc.Rating(p.ID)
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if rating.Rate != 4.0 {
		t.Fatalf("average = %v, want 4.0", rating.Rate)
	}
	if rating.Count != 3 {
		t.Fatalf("rated count = %d, want 3", rating.Count)
	}
}

func TestListAcceptedAnonymizesAndCounts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "Sara", "Karimi")
	voter := f.user(t, "Ali", "Moradi")
	p := f.product(t, "phone")

	c := f.comment(t, p, author, &CreateCommentDTO{Title: "t", Comment: "c", IsAnonymous: true})
	if err := f.svc.Accept(c.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.Like(c.ID, voter.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	items, _, pag, err := f.svc.ListAccepted(p.ID, defaultQuery(), SortNewest)
	if err != nil {
		t.Fatalf("list accepted: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Username != anonymousDisplayName {
		t.Fatalf("username = %q, want placeholder", items[0].Username)
	}
	if items[0].LikeCount != 1 || items[0].DislikeCount != 0 {
		t.Fatalf("counts = %d/%d, want 1/0", items[0].LikeCount, items[0].DislikeCount)
	}
	if pag.Total != 1 || pag.CurrentPage != 1 {
		t.Fatalf("pagination = %+v", pag)
	}
}

func TestListAcceptedHidesWaiting(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	f.comment(t, p, u, nil)

	items, _, _, err := f.svc.ListAccepted(p.ID, defaultQuery(), SortNewest)
	if err != nil {
		t.Fatalf("list accepted: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("waiting comment leaked into accepted feed: %+v", items)
	}
}

func TestListAcceptedBuyersFirst(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "phone")

	visitor := f.user(t, "Visitor", "NoPurchase")
	nonBuyerComment := f.comment(t, p, visitor, nil)
	if err := f.svc.Accept(nonBuyerComment.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	buyer := f.user(t, "Sara", "Karimi")
	f.buy(t, p, buyer)
	buyerComment := f.comment(t, p, buyer, &CreateCommentDTO{Title: "t", Comment: "c", Rate: 5})
	if err := f.svc.Accept(buyerComment.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	items, _, _, err := f.svc.ListAccepted(p.ID, defaultQuery(), SortBuyersFirst)
	if err != nil {
		t.Fatalf("list accepted: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if !items[0].IsBuyer {
		t.Fatal("buyer comment should rank first with sort mode 3")
	}
}

func TestListUnacceptedShowsRealIdentity(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	f.comment(t, p, u, &CreateCommentDTO{Title: "t", Comment: "c", IsAnonymous: true})

	items, _, err := f.svc.ListUnaccepted(p.ID, defaultQuery(), SortNewest)
	if err != nil {
		t.Fatalf("list unaccepted: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Creator.FirstName != "Sara" || items[0].Creator.Email == "" {
		t.Fatalf("moderation queue must expose the raw creator, got %+v", items[0].Creator)
	}
	if items[0].Status != models.CommentWaiting || items[0].IsApproved {
		t.Fatalf("moderation item state = %s/%v", items[0].Status, items[0].IsApproved)
	}
}

func TestListUserCommentsJoinsProduct(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	p := f.product(t, "phone")
	f.comment(t, p, u, nil)

	items, _, err := f.svc.ListUserComments(u.ID, defaultQuery())
	if err != nil {
		t.Fatalf("list user comments: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Product.Slug != "phone" {
		t.Fatalf("product summary = %+v", items[0].Product)
	}
}

func TestListPendingReviewTargets(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Sara", "Karimi")
	reviewed := f.product(t, "phone")
	pending := f.product(t, "laptop")
	f.product(t, "tablet") // never purchased, must not show up

	f.buy(t, reviewed, u)
	f.buy(t, pending, u)
	f.comment(t, reviewed, u, nil)

	products, _, err := f.svc.ListPendingReviewTargets(u.ID, defaultQuery())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("pending products = %d, want 1", len(products))
	}
	if products[0].Slug != "laptop" {
		t.Fatalf("pending product = %q, want laptop", products[0].Slug)
	}
}
