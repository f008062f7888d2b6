package handlers

import (
	"log"
	"net/http"
	"os"

	"github.com/campforge-dev/campforge/db"
	"github.com/campforge-dev/campforge/internal/auth"
	"github.com/campforge-dev/campforge/internal/models"
	"github.com/campforge-dev/campforge/internal/types"
	"github.com/campforge-dev/campforge/internal/utils"
	"github.com/gin-gonic/gin"
)

type GoogleLoginRequest struct {
	Credential string `json:"credential"`
	IDToken    string `json:"idToken"`
}

// cookieDomain is resolved per call rather than at package init, so a
// DOMAIN loaded from .env at startup applies.
func cookieDomain() string {
	return os.Getenv("DOMAIN")
}

func (h *Handler) GoogleLogin(ctx *gin.Context) {
	var body GoogleLoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	idToken := body.Credential

	if idToken == "" {
		idToken = body.IDToken
	}

	if idToken == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Credential is required"})
		return
	}

	identity, err := h.Verifier.Verify(ctx.Request.Context(), idToken)

	if err != nil {
		log.Printf("Token verification failed: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	// First login creates the user; the identity is immutable afterwards.
	user := models.User{GoogleSub: identity.Subject}

	err = db.DB.Where("google_sub = ?", identity.Subject).
		Attrs(models.User{Name: identity.Name, Email: identity.Email}).
		FirstOrCreate(&user).Error

	if err != nil {
		log.Printf("Failed to upsert user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Name, user.Email)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   cookieDomain(),
		MaxAge:   60 * 60 * 24 * 7,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Name:  currentUser.Name,
			Email: currentUser.Email,
		},
	})
}

func Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   cookieDomain(),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
