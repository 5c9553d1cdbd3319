package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nur/internal/core"
)

type BookmarkController struct {
	store  BookmarkStore
	logger *zap.Logger
}

func NewBookmarkController(store BookmarkStore, logger *zap.Logger) *BookmarkController {
	return &BookmarkController{store: store, logger: logger}
}

type bookmarkRequest struct {
	Kind        core.BookmarkKind `json:"kind" binding:"required"`
	ReferenceID string            `json:"referenceId" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Subtitle    string            `json:"subtitle"`
	ArabicText  string            `json:"arabicText"`
}

// List returns the caller's bookmarks, newest first, optionally for one ?kind=.
func (b *BookmarkController) List(c *gin.Context) {
	kind, ok := bookmarkKind(c, false)
	if !ok {
		return
	}

	bookmarks, err := b.store.ListBookmarks(c.Request.Context(), ownerID(c), kind)
	if err != nil {
		respondError(c, b.logger, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []core.Bookmark{}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// Check reports whether ?kind= and ?ref= are bookmarked by the caller.
func (b *BookmarkController) Check(c *gin.Context) {
	kind, ok := bookmarkKind(c, true)
	if !ok {
		return
	}
	ref := strings.TrimSpace(c.Query("ref"))
	if ref == "" {
		respondBadRequest(c, "ref is required")
		return
	}

	saved, err := b.store.IsBookmarked(c.Request.Context(), ownerID(c), kind, ref)
	if err != nil {
		respondError(c, b.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": saved})
}

// Add saves a bookmark. Saving the same reference twice returns the
// existing bookmark.
func (b *BookmarkController) Add(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	kind := core.BookmarkKind(strings.ToUpper(string(req.Kind)))
	if !kind.Valid() {
		respondBadRequest(c, "unknown bookmark kind "+string(req.Kind))
		return
	}

	saved, err := b.store.AddBookmark(c.Request.Context(), core.Bookmark{
		OwnerID:     ownerID(c),
		Kind:        kind,
		ReferenceID: req.ReferenceID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		ArabicText:  req.ArabicText,
	})
	if err != nil {
		respondError(c, b.logger, err)
		return
	}
	respondNotice(c, http.StatusCreated, "success.bookmark_added", saved)
}

func (b *BookmarkController) Remove(c *gin.Context) {
	if err := b.store.RemoveBookmark(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, b.logger, err)
		return
	}
	respondNotice(c, http.StatusOK, "success.bookmark_removed", nil)
}

func bookmarkKind(c *gin.Context, required bool) (core.BookmarkKind, bool) {
	raw := strings.TrimSpace(c.Query("kind"))
	if raw == "" && !required {
		return "", true
	}
	kind := core.BookmarkKind(strings.ToUpper(raw))
	if !kind.Valid() {
		respondBadRequest(c, "unknown bookmark kind "+raw)
		return "", false
	}
	return kind, true
}
