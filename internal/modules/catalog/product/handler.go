package product

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mazal-shop/core/internal/pkg/pagination"
	"github.com/mazal-shop/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, staffMW gin.HandlerFunc) {
	g := rg.Group("/products")

	g.GET("", h.list)
	g.GET("/:slug", h.getBySlug)

	a := g.Group("", authMW, staffMW)
	a.POST("", h.create)
	a.POST("/:slug/buyers", h.addBuyer)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, errSlugTaken) {
			response.Conflict(c, "محصولی با این اسلاگ وجود دارد")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	products, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]productResponse, len(products))
	for i := range products {
		items[i] = toResponse(&products[i])
	}
	response.Paged(c, items, pag)
}

func (h *Handler) getBySlug(c *gin.Context) {
	p, err := h.svc.FindBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "محصول با این مشخصات یافت نشد")
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) addBuyer(c *gin.Context) {
	var dto AddBuyerDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.FindBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if p == nil {
		response.NotFoundMsg(c, "محصول با این مشخصات یافت نشد")
		return
	}
	if err := h.svc.AddBuyer(p.ID, dto.UserID); err != nil {
		switch {
		case errors.Is(err, errUserNotFound):
			response.NotFoundMsg(c, "کاربر یافت نشد")
		case errors.Is(err, errProductNotFound):
			response.NotFoundMsg(c, "محصول با این مشخصات یافت نشد")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
