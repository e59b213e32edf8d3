package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/httpx"
	"storefront/internal/user"
)

// signUpHandler godoc
// @Summary Sign up a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body user.NewUser true "new account"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpx.HTTPError
// @Router /signup [post]
func signUpHandler(users user.Repository, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.NewUser
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		if in.Firstname == "" || in.Lastname == "" || in.Email == "" || in.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		u, err := users.Create(c.Request.Context(), in)
		if err != nil {
			log.Printf("[user] signup: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		token, err := tokens.Issue(u)
		if err != nil {
			log.Printf("[user] signup token: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// signInHandler godoc
// @Summary Sign in with email and password
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} httpx.HTTPError
// @Router /signin [post]
func signInHandler(users user.Repository, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		u, err := users.Authenticate(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			log.Printf("[user] signin: %v", err)
			httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if u == nil {
			// unknown email or wrong password, same answer for both
			httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		token, err := tokens.Issue(u)
		if err != nil {
			log.Printf("[user] signin token: %v", err)
			httpx.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func createUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.NewUser
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		if in.Firstname == "" || in.Lastname == "" || in.Email == "" || in.Password == "" {
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		u, err := users.Create(c.Request.Context(), in)
		if err != nil {
			log.Printf("[user] create: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not created")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func listUsersHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := users.Index(c.Request.Context())
		if err != nil {
			log.Printf("[user] index: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Users not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// showUserHandler godoc
// @Summary Retrieve a user with their last purchased products
// @Tags users
// @Produce json
// @Param id path int true "user id"
// @Security BearerAuth
// @Success 200 {object} user.User
// @Failure 400 {object} httpx.HTTPError
// @Router /users/{id} [get]
func showUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "User not found")
			return
		}
		u, err := users.Show(c.Request.Context(), id)
		if err != nil {
			log.Printf("[user] show: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not found")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func updateUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "User not updated")
			return
		}
		var in user.UpdateUser
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "User not updated")
			return
		}
		in.ID = id
		u, err := users.Update(c.Request.Context(), in)
		if err != nil {
			log.Printf("[user] update: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not updated")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func deleteUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "User not deleted")
			return
		}
		u, err := users.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[user] delete: %v", err)
			httpx.Error(c, http.StatusBadRequest, "User not deleted")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
