package models

// CommentStatus is the moderation state of a product comment. The status
// column is the single source of truth; approval is derived from it.
type CommentStatus string

const (
	CommentWaiting  CommentStatus = "waiting"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// RecommendationStatus values a buyer may attach to a comment.
const (
	RecommendationSuggest    = "recommended"
	RecommendationUncertain  = "not_sure"
	RecommendationNotSuggest = "not_recommended"
)

// CommentModel is one user's opinion about one product. A user may have at
// most one comment per product, enforced by the composite unique index.
type CommentModel struct {
	Base
	ProductID string `json:"product_id" gorm:"type:char(36);not null;uniqueIndex:idx_comments_product_user,priority:1"`
	UserID    string `json:"user_id"    gorm:"type:char(36);not null;uniqueIndex:idx_comments_product_user,priority:2"`

	Title string `json:"title"   gorm:"not null"`
	Body  string `json:"comment" gorm:"type:text;not null"`

	// Rate is only meaningful for buyer comments; non-buyers are stored with 0.
	Rate                 int     `json:"rate"                  gorm:"default:0"`
	RecommendationStatus *string `json:"recommendation_status" gorm:"type:varchar(32)"`

	PositivePoints StringArray `json:"positive_points" gorm:"type:longtext"`
	NegativePoints StringArray `json:"negative_points" gorm:"type:longtext"`
	Images         StringArray `json:"images"          gorm:"type:longtext"`

	IsAnonymous bool `json:"is_anonymous" gorm:"default:false"`
	IsBuyer     bool `json:"is_buyer"     gorm:"default:false;index"`

	Status CommentStatus `json:"status" gorm:"type:varchar(16);default:waiting;index"`

	User    UserModel    `json:"-" gorm:"foreignKey:UserID"`
	Product ProductModel `json:"-" gorm:"foreignKey:ProductID"`
}

func (CommentModel) TableName() string { return "product_comments" }

// IsApproved reports whether the comment is publicly visible.
func (c *CommentModel) IsApproved() bool { return c.Status == CommentApproved }

// ReactionKind distinguishes the two mutually exclusive engagement sets.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// CommentReactionModel holds like/dislike membership. The unique index on
// (comment_id, user_id) makes the sets mutually exclusive at the storage layer.
type CommentReactionModel struct {
	Base
	CommentID string       `json:"comment_id" gorm:"type:char(36);not null;uniqueIndex:idx_reactions_comment_user,priority:1"`
	UserID    string       `json:"user_id"    gorm:"type:char(36);not null;uniqueIndex:idx_reactions_comment_user,priority:2"`
	Kind      ReactionKind `json:"kind"       gorm:"type:varchar(8);not null"`
}

func (CommentReactionModel) TableName() string { return "product_comment_reactions" }

// CommentReportModel records abuse reports. Membership is monotonic: there is
// no un-report operation, and the unique index rejects duplicates.
type CommentReportModel struct {
	Base
	CommentID string `json:"comment_id" gorm:"type:char(36);not null;uniqueIndex:idx_reports_comment_user,priority:1"`
	UserID    string `json:"user_id"    gorm:"type:char(36);not null;uniqueIndex:idx_reports_comment_user,priority:2"`
}

func (CommentReportModel) TableName() string { return "product_comment_reports" }
