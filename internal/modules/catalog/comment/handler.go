package comment

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mazal-shop/core/internal/middleware"
	"github.com/mazal-shop/core/internal/pkg/pagination"
	"github.com/mazal-shop/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes wires the comment endpoints. Staff-only endpoints sit behind
// the staff middleware; everything requires an authenticated caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	g := rg.Group("/comments", authMW)

	g.POST("/create/:productId", h.create)
	g.PUT("/update/:commentId", h.update)
	g.DELETE("/delete/:commentId", h.delete)

	g.POST("/like", h.like)
	g.POST("/dislike", h.dislike)
	g.POST("/report", h.report)

	g.GET("/accepted/:productId", h.listAccepted)
	g.GET("/user-comments", h.listUserComments)
	g.GET("/wait-for-comment", h.listPending)

	a := g.Group("", staffMW)
	a.GET("/unaccepted/:productId", h.listUnaccepted)
	a.POST("/accept", h.accept)
	a.POST("/reject", h.reject)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.Create(c.Param("productId"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errProductNotFound):
			response.NotFoundMsg(c, msgNotFoundProduct)
		case errors.Is(err, errCommentExists):
			response.Conflict(c, msgCommentExists)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.CreatedMessage(c, msgCreateSuccess)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.Update(c.Param("commentId"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, errCommentNotFound) {
			response.NotFoundMsg(c, msgNotFoundComment)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, msgUpdateSuccess)
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("commentId"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, errCommentNotFound) {
			response.NotFoundMsg(c, msgNotFoundComment)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, msgDeleteSuccess)
}

func (h *Handler) like(c *gin.Context) {
	h.toggle(c, h.svc.Like)
}

func (h *Handler) dislike(c *gin.Context) {
	h.toggle(c, h.svc.Dislike)
}

func (h *Handler) toggle(c *gin.Context, op func(commentID, userID string) (string, error)) {
	var dto CommentIDDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := op(dto.CommentID, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, errCommentNotFound) {
			response.NotFoundMsg(c, msgNotFoundComment)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, msg)
}

func (h *Handler) report(c *gin.Context) {
	var dto CommentIDDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.Report(dto.CommentID, middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFoundMsg(c, msgNotFoundComment)
		case errors.Is(err, errAlreadyReported):
			response.Conflict(c, msgAlreadyReported)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Message(c, msgReportSuccess)
}

func (h *Handler) listAccepted(c *gin.Context) {
	q := pagination.FromContext(c)
	items, rating, pag, err := h.svc.ListAccepted(c.Param("productId"), q, c.Query("sort"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"comments":   items,
		"rating":     rating,
		"pagination": pag,
	})
}

func (h *Handler) listUnaccepted(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListUnaccepted(c.Param("productId"), q, c.Query("sort"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) accept(c *gin.Context) {
	h.moderate(c, h.svc.Accept, msgAcceptSuccess, errAlreadyApproved, msgAlreadyApproved)
}

func (h *Handler) reject(c *gin.Context) {
	h.moderate(c, h.svc.Reject, msgRejectSuccess, errAlreadyRejected, msgAlreadyRejected)
}

func (h *Handler) moderate(c *gin.Context, op func(commentID string) error, okMsg string, conflict error, conflictMsg string) {
	var dto CommentIDDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := op(dto.CommentID); err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFoundMsg(c, msgNotFoundComment)
		case errors.Is(err, conflict):
			response.Conflict(c, conflictMsg)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Message(c, okMsg)
}

func (h *Handler) listUserComments(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.svc.ListUserComments(middleware.CurrentUserID(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) listPending(c *gin.Context) {
	q := pagination.FromContext(c)
	products, pag, err := h.svc.ListPendingReviewTargets(middleware.CurrentUserID(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]productSummary, len(products))
	for i, p := range products {
		items[i] = productSummary{
			ID: p.ID, TitleFa: p.TitleFa, TitleEn: p.TitleEn,
			Slug: p.Slug, Images: p.Images,
		}
	}
	response.Paged(c, items, pag)
}
