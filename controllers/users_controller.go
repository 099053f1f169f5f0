package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

// ---------------- CREATE ----------------
// CreateUser registers the email on first contact. A repeat call returns the
// stored user unchanged.
func CreateUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.Param("email"))
		if email == "" {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "email is required")
			return
		}

		var input struct {
			Name  string `json:"name"`
			Photo string `json:"photo"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid user body")
				return
			}
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		u, created, err := env.Stores.Users.CreateIfAbsent(ctx, &models.User{
			Email:     email,
			Name:      input.Name,
			Photo:     input.Photo,
			Role:      models.RoleUser,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			storeFail(c, err, "user not found", "could not create user")
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, u)
	}
}

// ---------------- LIST ----------------
func ListUsers(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := env.reqCtx(c)
		defer cancel()

		users, err := env.Stores.Users.List(ctx)
		if err != nil {
			storeFail(c, err, "", "could not fetch users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// ---------------- ROLE ----------------
func GetUserRole(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := env.reqCtx(c)
		defer cancel()

		u, err := env.Stores.Users.FindByEmail(ctx, c.Param("email"))
		if err != nil {
			storeFail(c, err, "User not found", "could not fetch user")
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": u.IsAdmin()})
	}
}

// ---------------- MAKE ADMIN ----------------
func MakeAdmin(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := env.reqCtx(c)
		defer cancel()

		res, err := env.Stores.Users.SetRole(ctx, id, models.RoleAdmin)
		if err == nil && res.MatchedCount == 0 {
			err = store.ErrNotFound
		}
		if err != nil {
			storeFail(c, err, "User not found", "could not update user")
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
