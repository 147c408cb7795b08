package helper

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"table_order/config"
	"table_order/constants"
	"table_order/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func jwtSecret() ([]byte, error) {
	secret := config.Config("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(secret), nil
}

// SignToken issues an HS256 token of the given type that expires after ttl.
func SignToken(tokenClaim model.TokenClaim, tokenType string, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	if tokenClaim.RestaurantId != nil {
		claims["restaurantId"] = *tokenClaim.RestaurantId
	}
	claims["type"] = tokenType
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(secret)
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	return SignToken(tokenClaim, constants.TOKEN_ACCESS, config.Duration("ACCESS_TOKEN_TTL", 60*time.Minute))
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	return SignToken(tokenClaim, constants.TOKEN_REFRESH, config.Duration("REFRESH_TOKEN_TTL", 7*24*time.Hour))
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
}

// ClaimsFromToken extracts our claim set and the token type from a parsed token.
func ClaimsFromToken(token *jwt.Token) (model.TokenClaim, string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, "", errors.New("invalid token claims")
	}
	userId, ok := claims["userId"].(float64)
	if !ok || userId <= 0 {
		return model.TokenClaim{}, "", errors.New("invalid userId in payload")
	}
	tokenType, _ := claims["type"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	tokenClaim := model.TokenClaim{UserId: uint(userId), Email: email, Role: role}
	if rid, ok := claims["restaurantId"].(float64); ok {
		id := uint(rid)
		tokenClaim.RestaurantId = &id
	}
	return tokenClaim, tokenType, nil
}

// GetInfoUserFromToken reads the access token that middleware.Protected stored in Locals.
func GetInfoUserFromToken(c *fiber.Ctx) (model.TokenClaim, bool) {
	token, ok := c.Locals(constants.LOCALS_USER).(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, false
	}
	claim, tokenType, err := ClaimsFromToken(token)
	if err != nil || tokenType != constants.TOKEN_ACCESS {
		return model.TokenClaim{}, false
	}
	return claim, true
}

func HasRole(role string, allowed ...string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
