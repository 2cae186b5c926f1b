package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pablospizza/db"
	"pablospizza/globals"
	"pablospizza/middleware"
	"pablospizza/models"
	"pablospizza/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func issueAccessToken(user models.User) (string, error) {
	role := "admin"
	if len(user.Role) > 0 {
		role = user.Role[0]
	}
	claims := middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Login handles POST /api/auth/login
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": creds.Username}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessToken, err := issueAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	refreshToken := uuid.NewString()
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashRefreshToken(refreshToken),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
			"last_login":     time.Now(),
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":         accessToken,
		"refresh_token": refreshToken,
		"userid":        user.UserID,
		"username":      user.Username,
	})
}

type refreshRequest struct {
	UserID       string `json:"userid"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /api/auth/refresh. It swaps a valid refresh token for a
// new access token and rotates the refresh token.
func Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.UserID == "" || req.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userid and refresh_token are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": req.UserID}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	if user.RefreshToken == "" ||
		user.RefreshToken != hashRefreshToken(req.RefreshToken) ||
		time.Now().After(user.RefreshExpiry) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid session")
		return
	}

	accessToken, err := issueAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	newRefresh := uuid.NewString()
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashRefreshToken(newRefresh),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
		}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to persist session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":         accessToken,
		"refresh_token": newRefresh,
	})
}

// Logout handles POST /api/auth/logout and drops the stored refresh token.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$unset": bson.M{"refresh_token": "", "refresh_expiry": ""}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "logged out"})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register, admin-only creation of another
// back-office account.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "username and a password of at least 8 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.UserCollection.FindOne(ctx, bson.M{"username": req.Username}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "username already taken")
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		UserID:   "u-" + utils.GenerateRandomDigitString(10),
		Username: req.Username,
		Email:    utils.NormalizeEmail(req.Email),
		Password: string(hashed),
		Role:     []string{"admin"},
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user.Password = ""
	utils.RespondWithJSON(w, http.StatusOK, user)
}
