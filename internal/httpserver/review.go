package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) GetProductReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_product_reviews")

	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.Svc.ListForProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_reviews_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_reviews_error", "status", 500, "reason", "cannot list reviews", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list reviews")
	}

	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	userID, err := callerID(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_review_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.Create(ctx, userID, productID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_review_error", "status", 400, "reason", "invalid rating", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("create_review_error", "status", 404, "reason", "product not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("create_review_error", "status", 500, "reason", "cannot create review", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create review")
	}

	l.Info("create_review_success", "product_id", productID, "rating", review.Rating)
	return c.JSON(http.StatusCreated, review)
}
