package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/kickit-app/kickit/internal/api/models"
)

func (h *Handler) AddComment(c *gin.Context) {
	kickID := c.Param("kickId")
	target := kickURL(kickID)

	var form models.CommentForm
	err := bindForm(c, &form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		h.fail(c, err, "Failed to add comment", target)
		return
	}
	if _, err := h.service(c).AddComment(c.Request.Context(), kickID, form.Text); err != nil {
		h.fail(c, err, "Failed to add comment", target)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	kickID := c.Param("kickId")
	commentID := c.Param("commentId")
	target := kickURL(kickID)
	retry := target + "?" + url.Values{"editComment": {commentID}}.Encode()

	var form models.CommentForm
	err := bindForm(c, &form)
	if err == nil {
		err = form.Validate()
	}
	if err != nil {
		h.fail(c, err, "Failed to update comment", retry)
		return
	}
	if _, err := h.service(c).UpdateComment(c.Request.Context(), kickID, commentID, form.Text); err != nil {
		h.fail(c, err, "Failed to update comment", retry)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	kickID := c.Param("kickId")
	target := kickURL(kickID)
	if err := h.service(c).DeleteComment(c.Request.Context(), kickID, c.Param("commentId")); err != nil {
		h.fail(c, err, "Failed to delete comment", target)
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}
