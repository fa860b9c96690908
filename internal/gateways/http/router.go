package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"subspend/internal/aggregate"
	"subspend/internal/display"
	"subspend/internal/gateways/http/models"
	"subspend/internal/usecase"
)

func setupRouter(r *gin.Engine, u UseCases, log *slog.Logger) {
	r.HandleMethodNotAllowed = true

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	{
		v1 := r.Group("api/v1/")
		setupSubscriptions(v1, u, log)
		setupSubscriptionsID(v1, u, log)
		setupSubscriptionsTotals(v1, u)
	}
}

func toModel(l aggregate.Line, now time.Time) models.Subscription {
	return models.Subscription{
		ID:                l.ID,
		Name:              l.Name,
		Cost:              l.Cost,
		BillingCycle:      string(l.BillingCycle.OrMonthly()),
		CreatedAt:         strfmt.DateTime(l.CreatedAt),
		MonthlyEquivalent: l.MonthlyEquivalent,
		Added:             display.Since(l.CreatedAt, now),
	}
}

func setupSubscriptions(r *gin.RouterGroup, u UseCases, log *slog.Logger) {
	r.GET("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}

		now := time.Now()
		lines := aggregate.Lines(u.Subs.List())
		resp := make([]models.Subscription, 0, len(lines))
		for _, l := range lines {
			resp = append(resp, toModel(l, now))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		if c.ContentType() != "" && c.ContentType() != "application/json" {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Use application/json"})
			return
		}

		var input *models.SubscriptionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
			return
		}
		if err := input.Validate(strfmt.Default); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		in, err := usecase.Input{
			Name:         *input.Name,
			Cost:         *input.Cost,
			BillingCycle: input.BillingCycle,
		}.Normalize()
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		created, err := u.Subs.Add(c, in.Name, in.Cost, in.BillingCycle)
		switch {
		case errors.Is(err, usecase.ErrPersist):
			// already logged by the store; the record lives on in memory
			log.Warn("subscription not persisted", slog.Int64("id", created.ID))
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, toModel(aggregate.Line{
			Subscription:      created,
			MonthlyEquivalent: aggregate.MonthlyEquivalent(created.Cost, created.BillingCycle),
		}, time.Now()))
	})

	r.OPTIONS("/subscriptions", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "POST,OPTIONS,GET")
		c.Status(http.StatusNoContent)
	})
}

func setupSubscriptionsID(r *gin.RouterGroup, u UseCases, log *slog.Logger) {
	// Deleting an unknown id is not an error: the record is gone either way.
	r.DELETE("/subscriptions/:id", func(c *gin.Context) {
		id, err := usecase.ParseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
			return
		}

		removed, err := u.Subs.Delete(c, id)
		switch {
		case errors.Is(err, usecase.ErrPersist):
			log.Warn("subscription deletion not persisted", slog.Int64("id", id))
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !removed {
			log.Debug("delete of unknown subscription", slog.Int64("id", id))
		}
		c.Status(http.StatusNoContent)
	})

	r.OPTIONS("/subscriptions/:id", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "OPTIONS,DELETE")
		c.Status(http.StatusNoContent)
	})
}

func setupSubscriptionsTotals(r *gin.RouterGroup, u UseCases) {
	// the :id route would otherwise catch these
	methodNA := func(c *gin.Context) {
		c.Header("Allow", "GET,OPTIONS")
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	}
	r.Handle(http.MethodDelete, "/subscriptions/totals", methodNA)

	r.GET("/subscriptions/totals", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		sum := u.Subs.Totals()
		c.JSON(http.StatusOK, models.Totals{
			Count:        int64(sum.Count),
			MonthlyTotal: sum.Monthly,
			YearlyTotal:  sum.Yearly,
		})
	})

	r.OPTIONS("/subscriptions/totals", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "GET,OPTIONS")
		c.Status(http.StatusNoContent)
	})
}

func acceptsJSON(h string) bool {
	if h == "" || h == "*/*" {
		return true
	}
	parts := strings.Split(h, ",")
	for _, p := range parts {
		mt := strings.TrimSpace(strings.SplitN(p, ";", 2)[0])
		if mt == "application/json" || mt == "*/*" {
			return true
		}
	}
	return false
}

func requireAcceptJSON(c *gin.Context) bool {
	if acceptsJSON(c.GetHeader("Accept")) {
		return true
	}
	c.JSON(http.StatusNotAcceptable, gin.H{"error": "Accept application/json only"})
	return false
}
