package comment

import (
	"math"

	"github.com/mazal-shop/core/internal/models"
)

// anonymousDisplayName replaces the author name when the comment is anonymous
// or the profile has no complete name.
const anonymousDisplayName = "کاربر مازالی"

// displayName resolves the public author name for the accepted feed.
func displayName(isAnonymous bool, firstName, lastName string) string {
	if isAnonymous || firstName == "" || lastName == "" {
		return anonymousDisplayName
	}
	return firstName + " " + lastName
}

// sortExpr maps a sort mode query value to an ORDER BY expression. Unknown
// values fall back to newest-first.
func sortExpr(mode string) string {
	switch mode {
	case SortOldest:
		return "created_at ASC"
	case SortBuyersFirst:
		return "is_buyer DESC"
	default:
		return "created_at DESC"
	}
}

// roundRate rounds an average rating to one decimal.
func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}

func oppositeKind(kind models.ReactionKind) models.ReactionKind {
	if kind == models.ReactionLike {
		return models.ReactionDislike
	}
	return models.ReactionLike
}

func reactionMessages(kind models.ReactionKind) (added, canceled string) {
	if kind == models.ReactionLike {
		return msgLikeAdded, msgLikeCanceled
	}
	return msgDislikeAdded, msgDislikeCanceled
}
