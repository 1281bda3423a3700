package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type JWT struct {
	Secret string
}

func (j *JWT) CreateToken(userId int64, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userId,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 3).Unix(),
	})

	return token.SignedString([]byte(j.Secret))
}

func (j *JWT) VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte(j.Secret), nil
	})

	if err != nil {
		slog.Error("Error verifying token", "error", err)
		return nil, err
	}

	if !token.Valid {
		slog.Error("Invalid access token")
		return nil, fmt.Errorf("%v", "Invalid Access Token")
	}

	claims := token.Claims.(jwt.MapClaims)

	return claims, nil
}

func CreateJwtTokenForUser(userId int64, role string) (string, error) {
	jwt := JWT{Secret: os.Getenv("JWT_SECRET")}
	return jwt.CreateToken(userId, role)
}

func VerifyJwtToken(token string) (jwt.MapClaims, error) {
	jwt := JWT{Secret: os.Getenv("JWT_SECRET")}
	return jwt.VerifyToken(token)
}

func GinJwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request"},
			})

			c.Abort()
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Invalid authorization format"},
			})

			c.Abort()
			return
		}

		token, err := VerifyJwtToken(bearer[len("Bearer "):])

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"errors": []string{"Unauthorized request", err.Error()},
			})
			c.Abort()
			return
		}

		userId := int64(token["user_id"].(float64))
		role, _ := token["role"].(string)

		c.Set("x-user-id", userId)
		c.Set("x-user-role", role)
		c.Next()
	}
}

// GinAdminMiddleware must run after GinJwtMiddleware. It rejects requests
// whose token does not carry the admin role.
func GinAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("x-user-role")

		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"errors": []string{"Admin access required"},
			})

			c.Abort()
			return
		}

		c.Next()
	}
}
