package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
	"github.com/kaushal1717/vibe-helper/pkg/logger"
	"github.com/kaushal1717/vibe-helper/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"
)

// --- Helper Functions ---

func validatePasswordStrength(password string) error {
	var (
		hasMinLen  = false
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	if len(password) >= 8 {
		hasMinLen = true
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	if !hasMinLen || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return fmt.Errorf("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}

// --- Local Auth ---

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateUsername(input.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be 3-30 characters and contain only letters, numbers, underscores, or hyphens"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Username: input.Username,
		Password: string(hashedPassword),
	}

	if result := database.DB.Create(&user); result.Error != nil {
		var existingUser models.User
		if err := database.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists. Please sign in instead."})
			return
		}
		if err := database.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "This username is already taken. Please choose another one."})
			return
		}

		logger.Warn().Err(result.Error).Str("email", input.Email).Msg("Registration failed: unique violation")
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email or username already exists"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered successfully")

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if result := database.DB.Where("email = ?", input.Email).First(&user); result.Error != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: user not found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", input.Email).Msg("Login failed: invalid password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout invalidates the token server-side by adding it to the Redis blacklist.
func Logout(c *gin.Context) {
	claimsInterface, exists := c.Get("claims")
	if !exists {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
			return
		}
		claimsInterface = claims
	}

	claims, ok := claimsInterface.(*utils.Claims)
	if !ok || claims == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	jti := claims.GetJTI()
	if jti == "" {
		logger.Warn().Msg("Logout called with legacy token (no JTI)")
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	expiresAt := claims.GetExpiry()
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
		return
	}

	if err := database.BlacklistToken(jti, ttl); err != nil {
		logger.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if len(username) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username too short"})
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)

	if count > 0 {
		suggestions := []string{
			fmt.Sprintf("%s_dev", username),
			fmt.Sprintf("%s_rules", username),
			fmt.Sprintf("%s%d", username, time.Now().Unix()%100),
		}
		c.JSON(http.StatusOK, gin.H{
			"available":   false,
			"suggestions": suggestions,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": true})
}

// GetMe returns the authenticated user's profile.
func GetMe(c *gin.Context) {
	userID, _ := c.Get("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"githubConnected": user.GithubToken != "",
	})
}

// --- OAuth ---

var githubOauthConfig *oauth2.Config

func InitOAuthConfig() {
	if config.AppConfig.GithubClientID != "" {
		githubOauthConfig = &oauth2.Config{
			RedirectURL:  config.AppConfig.GithubCallbackURL,
			ClientID:     config.AppConfig.GithubClientID,
			ClientSecret: config.AppConfig.GithubClientSecret,
			// repo scope authorizes the pull-request publish flow
			Scopes:   []string{"user:email", "read:user", "repo"},
			Endpoint: github.Endpoint,
		}
	} else {
		logger.Warn().Msg("GitHub OAuth keys missing")
	}
}

func GithubLogin(c *gin.Context) {
	if githubOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub OAuth not configured"})
		return
	}

	state := "state-token"

	// Linking request from an already authenticated user
	tokenStr := c.Query("auth_token")
	if tokenStr != "" {
		if claims, err := utils.ValidateToken(tokenStr); err == nil {
			state = "LINK:" + claims.UserID
		}
	}

	url := githubOauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func GithubCallback(c *gin.Context) {
	if githubOauthConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "GitHub OAuth not configured"})
		return
	}

	state := c.Query("state")
	isLinkMode := strings.HasPrefix(state, "LINK:")
	var linkUserID string
	if isLinkMode {
		linkUserID = strings.TrimPrefix(state, "LINK:")
	}

	code := c.Query("code")
	token, err := githubOauthConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange token"})
		return
	}

	client := githubOauthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		ID        int    `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse user info"})
		return
	}

	var user *models.User

	if isLinkMode {
		var existingUser models.User
		if err := database.DB.First(&existingUser, "id = ?", linkUserID).Error; err == nil {
			// Store the GitHub identity and token so the PR flow can act
			// on this user's repositories.
			existingUser.GithubUsername = userInfo.Login
			existingUser.GithubToken = token.AccessToken
			database.DB.Save(&existingUser)
			user = &existingUser
			logger.Info().Str("user_id", user.ID).Str("github", userInfo.Login).Msg("Linked GitHub account")
		} else {
			logger.Warn().Str("user_id", linkUserID).Msg("Link mode failed: user not found, falling back to login")
		}
	}

	if user == nil {
		email := userInfo.Email
		if email == "" {
			email = fmt.Sprintf("%s@github.placeholder", userInfo.Login)
		}
		user = handleOAuthLogin(c, email, userInfo.Name, userInfo.AvatarURL)
		if user != nil {
			user.GithubUsername = userInfo.Login
			user.GithubToken = token.AccessToken
			database.DB.Save(user)
		}
	}

	if user != nil {
		finishOAuthLogin(c, user)
	}
}

// handleOAuthLogin resolves the user by email or creates a new account.
func handleOAuthLogin(c *gin.Context, email, name, image string) *models.User {
	var user models.User
	// Unscoped so a soft-deleted account doesn't trip the unique email index
	result := database.DB.Unscoped().Where("email = ?", email).First(&user)

	if result.Error == nil {
		if user.DeletedAt.Valid {
			if err := database.DB.Model(&user).Update("deleted_at", nil).Error; err != nil {
				logger.Error().Err(err).Str("email", email).Msg("Failed to restore soft-deleted user during OAuth")
			} else {
				logger.Info().Str("email", email).Msg("Restored soft-deleted user via OAuth")
			}
		}
		return &user
	}

	if result.Error == gorm.ErrRecordNotFound {
		logger.Info().Str("email", email).Msg("New user registration attempt via OAuth")

		var regSetting models.SystemSettings
		if err := database.DB.Where("key = ?", models.SettingRegistrationOpen).First(&regSetting).Error; err == nil {
			if regSetting.Value == "false" {
				logger.Warn().Str("email", email).Msg("Registration closed during OAuth attempt")
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "User registration is currently closed"})
				return nil
			}
		}

		baseUsername := ""
		if name != "" {
			baseUsername = strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		} else {
			baseUsername = strings.Split(email, "@")[0]
		}

		cleaned := ""
		for _, r := range baseUsername {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
				cleaned += string(r)
			}
		}
		if cleaned == "" {
			cleaned = "user"
		}

		now := time.Now()
		user = models.User{
			ID:            uuid.New().String(),
			Email:         email,
			EmailVerified: &now,
			Name:          name,
			Image:         image,
			Username:      cleaned + "_" + uuid.New().String()[:4],
			Role:          models.RoleUser,
		}

		if createErr := database.DB.Create(&user).Error; createErr != nil {
			logger.Error().Err(createErr).Str("email", email).Msg("Failed to create user during OAuth")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Account creation failed",
			})
			return nil
		}
		logger.Info().Str("email", email).Str("user_id", user.ID).Msg("New user registered via OAuth")
		return &user
	}

	logger.Error().Err(result.Error).Str("email", email).Msg("Database query failed during OAuth login")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error during login process"})
	return nil
}

func finishOAuthLogin(c *gin.Context, user *models.User) {
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate token during OAuth")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in via OAuth")

	redirectURL := fmt.Sprintf("%s/oauth-callback?token=%s", config.AppConfig.FrontendURL, token)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
