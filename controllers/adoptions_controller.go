package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

// ---------------- CREATE ----------------
func CreateAdoptionRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email      string `json:"email" binding:"required,email"`
			Name       string `json:"name"`
			Phone      string `json:"phone"`
			Address    string `json:"address"`
			PetID      string `json:"petId" binding:"required"`
			PetName    string `json:"petName"`
			PetImage   string `json:"petImage"`
			OwnerEmail string `json:"ownerEmail" binding:"omitempty,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "email and petId are required")
			return
		}

		req := models.AdoptionRequest{
			Email:      input.Email,
			Name:       input.Name,
			Phone:      input.Phone,
			Address:    input.Address,
			PetID:      input.PetID,
			PetName:    input.PetName,
			PetImage:   input.PetImage,
			OwnerEmail: input.OwnerEmail,
			CreatedAt:  time.Now().UTC(),
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Adoptions.Create(ctx, &req)
		if err != nil {
			storeFail(c, err, "", "could not create adoption request")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ---------------- LIST ----------------
func ListAdoptionRequests(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := env.reqCtx(c)
		defer cancel()

		list, err := env.Stores.Adoptions.ListByEmail(ctx, c.Param("email"))
		if err != nil {
			storeFail(c, err, "", "could not fetch adoption requests")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ---------------- DECIDE ----------------
// DecideAdoptionRequest records accept ("accepted") or reject (anything else)
// and mails the requester when the decision changed. Only the pet's owner or
// an admin may decide.
func DecideAdoptionRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid status body")
			return
		}
		accepted := input.Status == models.AdoptionAccepted

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		req, err := env.Stores.Adoptions.Get(ctx, id)
		if err != nil {
			storeFail(c, err, "Adoption request not found", "could not fetch adoption request")
			return
		}
		if !env.mayDecideAdoption(ctx, c, req) {
			return
		}

		res, err := env.Stores.Adoptions.SetStatus(ctx, id, accepted)
		if err != nil {
			storeFail(c, err, "Adoption request not found", "could not update adoption request")
			return
		}

		if res.ModifiedCount > 0 && env.Mailer != nil {
			subject, body := utils.AdoptionDecisionEmail(req.PetName, accepted)
			background(c, "adoption decision email failed", func(ctx context.Context) error {
				return env.Mailer.Send(ctx, req.Email, subject, body)
			})
		}
		c.JSON(http.StatusOK, res)
	}
}

// mayDecideAdoption applies the owner-or-admin rule using the stored pet's
// owner. The request's ownerEmail is client-supplied and never consulted; a
// request whose pet is gone can only be decided by an admin.
func (e *Env) mayDecideAdoption(ctx context.Context, c *gin.Context, req *models.AdoptionRequest) bool {
	owner := ""
	if petID, err := primitive.ObjectIDFromHex(req.PetID); err == nil {
		pet, err := e.Stores.Pets.Get(ctx, petID)
		switch {
		case err == nil:
			owner = pet.Email
		case !errors.Is(err, store.ErrNotFound):
			storeFail(c, err, "", "could not fetch pet")
			return false
		}
	}
	return e.mayManage(c, owner)
}

// ---------------- DELETE ----------------
func DeleteAdoptionRequest(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Adoptions.Delete(ctx, id)
		if err != nil {
			storeFail(c, err, "", "could not delete adoption request")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
