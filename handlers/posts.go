package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/postline/postline/backend/go-services/internal/posts"
	"github.com/postline/postline/backend/go-services/pkg/logger"
)

type PostCreateRequest struct {
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"required"`
}

// PostHandler exposes the post resource. Creation is gated by the access
// token middleware; reads are public.
type PostHandler struct {
	svc *posts.Service
}

func NewPostHandler(svc *posts.Service) *PostHandler {
	return &PostHandler{svc: svc}
}

// Register mounts post routes on the group; authMW guards mutations.
func (h *PostHandler) Register(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/posts", h.List)
	rg.GET("/posts/:id", h.Detail)
	rg.POST("/posts", authMW, h.Create)
}

func (h *PostHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		logger.Errorf("post list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no posts found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, posts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		logger.Errorf("post detail failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load post"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		logger.Errorf("post create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, p)
}
