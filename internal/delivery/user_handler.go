package delivery

import (
	"net/http"
	"strings"
	"time"

	"pizzahunt/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	account := router.Group("/account")
	{
		account.POST("/register", h.Register)
		account.POST("/login", h.Login)
		account.GET("/profile", RequireUser(), h.GetProfile)
		account.PUT("/profile", RequireUser(), h.UpdateProfile)
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	BirthDate  string `json:"birth_date"` // YYYY-MM-DD
	Newsletter bool   `json:"newsletter_subscription"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, err := h.useCase.Register(c.Request.Context(), domain.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, "Failed to register user", err)
		return
	}
	h.log.Infof("User registered successfully: ID %d", profile.ID)
	SuccessResponse(c, http.StatusCreated, "User registered successfully", profile)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, h.log, "Login failed", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.useCase.Profile(c.Request.Context(), OwnerFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, "Failed to get profile", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for profile update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	input := domain.ProfileInput{
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Newsletter: req.Newsletter,
	}
	if date := strings.TrimSpace(req.BirthDate); date != "" {
		birthDate, err := time.Parse(time.DateOnly, date)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid birth_date, expected YYYY-MM-DD")
			return
		}
		input.BirthDate = &birthDate
	}

	profile, err := h.useCase.UpdateProfile(c.Request.Context(), OwnerFrom(c).UserID, input)
	if err != nil {
		respondError(c, h.log, "Failed to update profile", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}
