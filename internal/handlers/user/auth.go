package user

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store"
	"vastra_back_end/internal/utils"
)

// TTL du refresh token côté Redis
const RefreshTokenTTL = 60 * 24 * time.Hour

type Handler struct {
	users  store.Users
	cache  *cache.Cache
	rdb    *redis.Client
	mailer *services.Mailer
}

func NewHandler(users store.Users, c *cache.Cache, rdb *redis.Client, mailer *services.Mailer) *Handler {
	return &Handler{users: users, cache: c, rdb: rdb, mailer: mailer}
}

// Register crée un compte et envoie un OTP de vérification par e-mail
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	if existing, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Printf("❌ Erreur génération OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}
	otpExpires := time.Now().UTC().Add(utils.OTPValidity)

	u := &models.User{
		ID:                     uuid.NewString(),
		Name:                   req.Name,
		Email:                  req.Email,
		PasswordHash:           hash,
		Phone:                  req.Phone,
		VerificationOtp:        &otp,
		VerificationOtpExpires: &otpExpires,
		CreatedAt:              time.Now().UTC(),
	}
	if err := h.users.InsertUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	go func() {
		if err := h.mailer.SendOTP(u.Email, otp); err != nil {
			log.Printf("⚠️ Envoi OTP échoué pour %s: %v", u.Email, err)
		}
	}()

	log.Printf("✅ Compte créé: %s (%s)", u.Email, u.ID)
	c.JSON(http.StatusCreated, gin.H{
		"user":    u,
		"message": "Compte créé, un code de vérification a été envoyé par e-mail",
	})
}

// VerifyAccount valide l'OTP de vérification et marque le compte vérifié
func (h *Handler) VerifyAccount(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Otp   int    `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification"})
		return
	}

	if u.IsVerified {
		c.JSON(http.StatusOK, gin.H{"message": "Compte déjà vérifié"})
		return
	}
	if u.VerificationOtp == nil || *u.VerificationOtp != req.Otp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code de vérification invalide"})
		return
	}
	if u.VerificationOtpExpires == nil || time.Now().UTC().After(*u.VerificationOtpExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code de vérification expiré"})
		return
	}

	u.IsVerified = true
	u.VerificationOtp = nil
	u.VerificationOtpExpires = nil
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification"})
		return
	}
	h.cache.InvalidateUser(c.Request.Context(), u.ID)

	log.Printf("✅ Compte vérifié: %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Compte vérifié"})
}

// ResendVerification régénère et renvoie un OTP de vérification
func (h *Handler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur renvoi du code"})
		return
	}
	if u.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Compte déjà vérifié"})
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Printf("❌ Erreur génération OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur renvoi du code"})
		return
	}
	otpExpires := time.Now().UTC().Add(utils.OTPValidity)
	u.VerificationOtp = &otp
	u.VerificationOtpExpires = &otpExpires
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur renvoi du code"})
		return
	}

	go func() {
		if err := h.mailer.SendOTP(u.Email, otp); err != nil {
			log.Printf("⚠️ Envoi OTP échoué pour %s: %v", u.Email, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Nouveau code envoyé"})
}

// Login authentifie par email/mot de passe et émet les tokens
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, u.PasswordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}
	if !u.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Compte non vérifié"})
		return
	}

	accessToken, refreshToken, err := h.issueTokens(c, *u)
	if err != nil {
		log.Printf("❌ Erreur génération tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion"})
		return
	}

	log.Printf("✅ Connexion: %s", u.Email)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Refresh échange un refresh token valide contre une nouvelle paire de
// tokens (rotation : l'ancien est révoqué)
func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	userID, err := h.rdb.Get(c.Request.Context(), "refresh:"+req.RefreshToken).Result()
	if errors.Is(err, redis.Nil) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur Redis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rafraîchissement"})
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token invalide ou expiré"})
		return
	}

	h.rdb.Del(c.Request.Context(), "refresh:"+req.RefreshToken)

	accessToken, refreshToken, err := h.issueTokens(c, *u)
	if err != nil {
		log.Printf("❌ Erreur génération tokens: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur rafraîchissement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout révoque le refresh token fourni
func (h *Handler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	h.rdb.Del(c.Request.Context(), "refresh:"+req.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// RequestPasswordReset envoie un OTP de réinitialisation à l'adresse du
// compte associé au numéro de téléphone
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetByPhone(c.Request.Context(), req.Phone)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun compte avec ce numéro"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Printf("❌ Erreur génération OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}
	otpExpires := time.Now().UTC().Add(utils.OTPValidity)
	u.ResetPasswordOtp = &otp
	u.ResetPasswordOtpExpires = &otpExpires
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}

	go func() {
		if err := h.mailer.SendOTP(u.Email, otp); err != nil {
			log.Printf("⚠️ Envoi OTP échoué pour %s: %v", u.Email, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Code de réinitialisation envoyé"})
}

// ResetPassword valide l'OTP de réinitialisation et remplace le mot de passe
func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Phone       string `json:"phone" binding:"required"`
		Otp         int    `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	u, err := h.users.GetByPhone(c.Request.Context(), req.Phone)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun compte avec ce numéro"})
		return
	}
	if err != nil {
		log.Printf("❌ Erreur lecture utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}

	if u.ResetPasswordOtp == nil || *u.ResetPasswordOtp != req.Otp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code de réinitialisation invalide"})
		return
	}
	if u.ResetPasswordOtpExpires == nil || time.Now().UTC().After(*u.ResetPasswordOtpExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code de réinitialisation expiré"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("❌ Erreur hash mot de passe: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}
	u.PasswordHash = hash
	u.ResetPasswordOtp = nil
	u.ResetPasswordOtpExpires = nil
	if err := h.users.UpdateUser(c.Request.Context(), u); err != nil {
		log.Printf("❌ Erreur mise à jour utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}
	h.cache.InvalidateUser(c.Request.Context(), u.ID)

	log.Printf("✅ Mot de passe réinitialisé pour %s", u.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe réinitialisé"})
}

func (h *Handler) issueTokens(c *gin.Context, u models.User) (string, string, error) {
	accessToken, err := utils.GenerateAccessToken(u)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", "", err
	}
	if err := h.rdb.Set(c.Request.Context(), "refresh:"+refreshToken, u.ID, RefreshTokenTTL).Err(); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
