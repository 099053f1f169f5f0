package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

type campaignInput struct {
	Name             string   `json:"name"`
	MaxDonation      *float64 `json:"maxDonation" binding:"omitempty,gte=0"`
	ShortDescription string   `json:"shortDescription"`
	LongDescription  string   `json:"longDescription"`
	LastDateDonation *string  `json:"lastDateDonation"`
	ImageURL         string   `json:"imageUrl"`
	Paused           bool     `json:"paused"`
	Email            string   `json:"email" binding:"omitempty,email"`
	Date             *string  `json:"date"`
}

type campaignPatchInput struct {
	Name             *string  `json:"name"`
	MaxDonation      *float64 `json:"maxDonation" binding:"omitempty,gte=0"`
	ShortDescription *string  `json:"shortDescription"`
	LongDescription  *string  `json:"longDescription"`
	LastDateDonation *string  `json:"lastDateDonation"`
	ImageURL         *string  `json:"imageUrl"`
}

// ---------------- CREATE ----------------
func CreateCampaign(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input campaignInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid donation body")
			return
		}
		lastDate, ok := parseOptionalTime(c, "lastDateDonation", input.LastDateDonation)
		if !ok {
			return
		}
		date, ok := parseOptionalTime(c, "date", input.Date)
		if !ok {
			return
		}

		now := time.Now().UTC()
		dc := models.DonationCampaign{
			Name:             strings.TrimSpace(input.Name),
			ShortDescription: input.ShortDescription,
			LongDescription:  input.LongDescription,
			LastDateDonation: lastDate,
			ImageURL:         input.ImageURL,
			Paused:           input.Paused,
			Email:            input.Email,
			Date:             now,
			UpdatedAt:        now,
		}
		if input.MaxDonation != nil {
			dc.MaxDonation = *input.MaxDonation
		}
		if date != nil {
			dc.Date = date.UTC()
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Campaigns.Create(ctx, &dc)
		if err != nil {
			storeFail(c, err, "", "could not create donation")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ---------------- LIST ----------------
// ListCampaignPage serves one page of campaigns plus whether more exist.
func ListCampaignPage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := utils.Pagination(c.Query("page"), c.Query("limit"))
		skip := (page - 1) * limit

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		items, total, err := env.Stores.Campaigns.Page(ctx, c.Query("sortOrder"), skip, limit)
		if err != nil {
			storeFail(c, err, "", "could not fetch donation campaigns")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"donations":   items,
			"hasNextPage": skip+limit < total,
		})
	}
}

func ListAllCampaigns(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		listCampaigns(env, c, "")
	}
}

func ListCampaignsByOwner(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		listCampaigns(env, c, c.Param("email"))
	}
}

func listCampaigns(env *Env, c *gin.Context, owner string) {
	ctx, cancel := env.reqCtx(c)
	defer cancel()

	list, err := env.Stores.Campaigns.List(ctx, owner)
	if err != nil {
		storeFail(c, err, "", "Failed to fetch donations")
		return
	}
	c.JSON(http.StatusOK, list)
}

// ---------------- GET ----------------
// GetCampaign rejects malformed ids with 400 before touching the store.
func GetCampaign(env *Env, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, param)
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		dc, err := env.Stores.Campaigns.Get(ctx, id)
		if err != nil {
			storeFail(c, err, "Donation not found", "could not fetch donation")
			return
		}
		if notModified(c, dc.ID, dc.UpdatedAt) {
			return
		}
		c.JSON(http.StatusOK, dc)
	}
}

// ---------------- UPDATE ----------------
func UpdateCampaign(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input campaignPatchInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid donation body")
			return
		}
		lastDate, ok := parseOptionalTime(c, "lastDateDonation", input.LastDateDonation)
		if !ok {
			return
		}
		patch := models.CampaignPatch{
			Name:             input.Name,
			MaxDonation:      input.MaxDonation,
			ShortDescription: input.ShortDescription,
			LongDescription:  input.LongDescription,
			LastDateDonation: lastDate,
			ImageURL:         input.ImageURL,
		}
		if patch.Empty() {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "nothing to update")
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		if _, ok := env.mayManageCampaign(ctx, c, id); !ok {
			return
		}
		res, err := env.Stores.Campaigns.Update(ctx, id, patch)
		if err != nil {
			storeFail(c, err, "Donation not found", "could not update donation")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": res})
	}
}

// SetCampaignPaused is idempotent: asking for the current state answers
// with a message and writes nothing.
func SetCampaignPaused(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input struct {
			Paused *bool `json:"paused" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "paused must be true or false")
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		dc, ok := env.mayManageCampaign(ctx, c, id)
		if !ok {
			return
		}
		if dc.Paused == *input.Paused {
			c.JSON(http.StatusOK, gin.H{"message": "Donation status is already set to the requested state."})
			return
		}

		res, err := env.Stores.Campaigns.SetPaused(ctx, id, *input.Paused)
		if err != nil {
			storeFail(c, err, "Donation not found", "could not update donation status")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Donation status updated successfully",
			"paused":  *input.Paused,
			"result":  res,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteCampaign(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		dc, err := env.Stores.Campaigns.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, models.DeleteResult{Acknowledged: true})
			return
		}
		if err != nil {
			storeFail(c, err, "", "could not fetch donation")
			return
		}
		if !env.mayManage(c, dc.Email) {
			return
		}

		res, err := env.Stores.Campaigns.Delete(ctx, id)
		if err != nil {
			storeFail(c, err, "", "could not delete donation")
			return
		}
		if res.DeletedCount > 0 {
			env.dropImage(c, dc.ImageURL)
		}
		c.JSON(http.StatusOK, res)
	}
}

// ---------------- PAYMENTS PER CAMPAIGN ----------------
func ListCampaignDonations(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := env.reqCtx(c)
		defer cancel()

		list, err := env.Stores.Payments.ListDonations(ctx, store.PaymentQuery{DonationID: c.Param("donationId")})
		if err != nil {
			storeFail(c, err, "", "could not fetch donations")
			return
		}
		c.JSON(http.StatusOK, gin.H{"donations": list})
	}
}
