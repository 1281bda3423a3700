package handler

import (
	"net/http"

	. "shopcatalog/internal/adapter/http/helper"
	. "shopcatalog/internal/adapter/http/validation"
	"shopcatalog/internal/core/model/request"
	"shopcatalog/internal/core/model/response"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/util"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc port.AuthService
}

func NewAuthHandler(svc port.AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (a *AuthHandler) RegisterByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(ctx, params.Name, params.Email, params.Password)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewUserResponse(user))
}

func (a *AuthHandler) AuthByEmailAndPassword(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, token, err := a.svc.Authenticate(ctx, params.Email, params.Password)

	if err != nil {
		SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         response.NewUserResponse(user),
	})
}
