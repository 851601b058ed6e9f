package handlers

import (
	"net/http"

	"github.com/TechHelpSeniors/techhelp-proxy/services"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService ReviewServiceInterface
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewHandler stores a review. The name and text fields are also
// accepted as reviewerName and reviewText.
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	name := firstFormValue(c, "name", "reviewerName")
	text := firstFormValue(c, "text", "reviewText")
	rating := formValue(c, "rating", "")

	if _, err := h.reviewService.SaveReview(c.Request.Context(), name, rating, text); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.SuccessResponse{
		Success: true,
		Message: services.MsgReviewSaved,
	})
}

// ListReviewsHandler returns every stored review, oldest first.
func (h *ReviewHandler) ListReviewsHandler(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
