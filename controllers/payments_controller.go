package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/payments"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

// ---------------- INTENT ----------------
func CreatePaymentIntent(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Amount any `json:"amount"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid payment body")
			return
		}
		amount, err := utils.ParseAmount(input.Amount)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error())
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Bridge.CreateIntent(ctx, amount)
		if err != nil {
			paymentFail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ---------------- CONFIRM ----------------
func ConfirmDonation(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Amount          any     `json:"amount"`
			DonationID      string  `json:"donationId"`
			PaymentIntentID string  `json:"paymentIntentId"`
			PetImage        string  `json:"petImage"`
			PetName         string  `json:"petName"`
			UserName        string  `json:"userName"`
			UserEmail       string  `json:"userEmail" binding:"omitempty,email"`
			Date            *string `json:"date"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid donation body")
			return
		}
		amount, err := utils.ParseAmount(input.Amount)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error())
			return
		}
		date, ok := parseOptionalTime(c, "date", input.Date)
		if !ok {
			return
		}

		d := payments.Donation{
			Amount:          amount,
			DonationID:      strings.TrimSpace(input.DonationID),
			PaymentIntentID: input.PaymentIntentID,
			PetImage:        input.PetImage,
			PetName:         input.PetName,
			UserName:        input.UserName,
			UserEmail:       input.UserEmail,
		}
		if date != nil {
			d.Date = date.UTC()
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Bridge.ConfirmDonation(ctx, d)
		if err != nil {
			paymentFail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func paymentFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, payments.ErrMissingIntent),
		errors.Is(err, payments.ErrAmountMismatch),
		errors.Is(err, payments.ErrProcessorRejected):
		utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error())
	case errors.Is(err, payments.ErrUnknownIntent):
		utils.Fail(c, http.StatusNotFound, utils.ErrCodeNotFound, err.Error())
	case errors.Is(err, payments.ErrIntentConsumed):
		utils.Fail(c, http.StatusConflict, utils.ErrCodeConflict, err.Error())
	case errors.Is(err, payments.ErrProcessorUnavailable):
		utils.FailErr(c, http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "payment processor unavailable", err)
	default:
		storeFail(c, err, "", "Internal Server Error")
	}
}

// ---------------- LIST ----------------
func ListDonationsByEmail(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := env.reqCtx(c)
		defer cancel()

		list, err := env.Stores.Payments.ListDonations(ctx, store.PaymentQuery{UserEmail: c.Param("email")})
		if err != nil {
			storeFail(c, err, "", "could not fetch donations")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ---------------- DELETE ----------------
func DeletePayment(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Payments.Delete(ctx, id)
		if err != nil {
			storeFail(c, err, "", "could not delete donation")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
