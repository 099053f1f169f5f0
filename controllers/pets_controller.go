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

type petInput struct {
	PetName          string           `json:"petName"`
	Age              any              `json:"age"`
	Image            string           `json:"image"`
	Location         string           `json:"location"`
	Category         *models.Category `json:"category"`
	ShortDescription string           `json:"shortDescription"`
	LongDescription  string           `json:"longDescription"`
	Email            string           `json:"email" binding:"omitempty,email"`
	Status           string           `json:"status"`
	Date             *string          `json:"date"`
}

// petPatchInput distinguishes absent fields (nil) from supplied ones.
type petPatchInput struct {
	PetName          *string          `json:"petName"`
	Age              any              `json:"age"`
	Image            *string          `json:"image"`
	Location         *string          `json:"location"`
	Category         *models.Category `json:"category"`
	ShortDescription *string          `json:"shortDescription"`
	LongDescription  *string          `json:"longDescription"`
	Status           *string          `json:"status"`
}

func (in petPatchInput) patch() models.PetPatch {
	p := models.PetPatch{
		PetName:          in.PetName,
		Image:            in.Image,
		Location:         in.Location,
		Category:         in.Category,
		ShortDescription: in.ShortDescription,
		LongDescription:  in.LongDescription,
		Status:           in.Status,
	}
	if in.Age != nil {
		age := utils.CoerceAge(in.Age)
		p.Age = &age
	}
	return p
}

// ---------------- CREATE ----------------
func CreatePet(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input petInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid pet body")
			return
		}
		date, ok := parseOptionalTime(c, "date", input.Date)
		if !ok {
			return
		}

		now := time.Now().UTC()
		pet := models.Pet{
			PetName:          strings.TrimSpace(input.PetName),
			Age:              utils.CoerceAge(input.Age),
			Image:            input.Image,
			Location:         input.Location,
			ShortDescription: input.ShortDescription,
			LongDescription:  input.LongDescription,
			Email:            input.Email,
			Status:           input.Status,
			Date:             now,
			UpdatedAt:        now,
		}
		if input.Category != nil {
			pet.Category = *input.Category
		}
		if date != nil {
			pet.Date = date.UTC()
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Pets.Create(ctx, &pet)
		if err != nil {
			storeFail(c, err, "", "could not create pet")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// ---------------- LIST ----------------
// ListPets serves the public catalogue with category, search and sortOrder.
func ListPets(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := store.PetQuery{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     c.Query("sortOrder"),
		}
		listPets(env, c, q)
	}
}

// ListAllPets is the unfiltered admin view.
func ListAllPets(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPets(env, c, store.PetQuery{})
	}
}

func ListPetsByOwner(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPets(env, c, store.PetQuery{OwnerEmail: c.Param("email")})
	}
}

func listPets(env *Env, c *gin.Context, q store.PetQuery) {
	ctx, cancel := env.reqCtx(c)
	defer cancel()

	pets, err := env.Stores.Pets.List(ctx, q)
	if err != nil {
		storeFail(c, err, "", "could not fetch pets")
		return
	}
	c.JSON(http.StatusOK, pets)
}

// ---------------- GET ----------------
func GetPet(env *Env, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, param)
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		pet, err := env.Stores.Pets.Get(ctx, id)
		if err != nil {
			storeFail(c, err, "Pet not found.", "could not fetch pet")
			return
		}
		if notModified(c, pet.ID, pet.UpdatedAt) {
			return
		}
		c.JSON(http.StatusOK, pet)
	}
}

// ---------------- UPDATE ----------------
func UpdatePet(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input petPatchInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid pet body")
			return
		}
		patch := input.patch()
		if patch.Empty() {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "nothing to update")
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		if !env.mayManagePet(ctx, c, id) {
			return
		}
		res, err := env.Stores.Pets.Update(ctx, id, patch)
		if err != nil {
			storeFail(c, err, "Pet not found.", "could not update pet")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// UpdatePetStatus sets the caller-supplied status string.
func UpdatePetStatus(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input struct {
			Status *string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "status is required")
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		if !env.mayManagePet(ctx, c, id) {
			return
		}
		res, err := env.Stores.Pets.Update(ctx, id, models.PetPatch{Status: input.Status})
		if err != nil {
			storeFail(c, err, "Pet not found.", "could not update pet")
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": res})
	}
}

// ---------------- DELETE ----------------
func DeletePet(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		pet, err := env.Stores.Pets.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, models.DeleteResult{Acknowledged: true})
			return
		}
		if err != nil {
			storeFail(c, err, "", "could not fetch pet")
			return
		}
		if !env.mayManage(c, pet.Email) {
			return
		}

		res, err := env.Stores.Pets.Delete(ctx, id)
		if err != nil {
			storeFail(c, err, "", "Failed to delete pet.")
			return
		}
		if res.DeletedCount > 0 {
			env.dropImage(c, pet.Image)
		}
		c.JSON(http.StatusOK, res)
	}
}
