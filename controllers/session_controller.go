package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/utils"
)

// ---------------- ISSUE ----------------
func IssueToken(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "a valid email is required")
			return
		}

		token, err := env.Tokens.Issue(input.Email)
		if err != nil {
			utils.FailErr(c, http.StatusInternalServerError, utils.ErrCodeInternal, "could not issue token", err)
			return
		}

		env.Cookie.Set(c, token)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ---------------- LOGOUT ----------------
func Logout(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		env.Cookie.Clear(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
