package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"page-scheduler/domain/dto"
	"page-scheduler/domain/model"
	"page-scheduler/domain/repository"
	"page-scheduler/infrastructure/cache"
	"page-scheduler/infrastructure/logger"
	"page-scheduler/usecase"
)

type IFacebookHandler interface {
	GetAuthURL(c *gin.Context)
	Callback(c *gin.Context)
	Connect(c *gin.Context)
	Status(c *gin.Context)
	Pages(c *gin.Context)
	Refresh(c *gin.Context)
	Disconnect(c *gin.Context)
	TokenLog(c *gin.Context)
}

type FacebookHandler struct {
	credUsecase usecase.ICredentialUsecase
	graph       repository.IFacebookGraph
	states      cache.IStateStore
}

func NewFacebookHandler(credUsecase usecase.ICredentialUsecase, graph repository.IFacebookGraph, states cache.IStateStore) IFacebookHandler {
	return &FacebookHandler{credUsecase: credUsecase, graph: graph, states: states}
}

// GetAuthURL issues a CSRF state bound to the authenticated user and returns
// the OAuth dialog URL. The user must approve in a browser.
func (h *FacebookHandler) GetAuthURL(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"})
		return
	}
	state, err := h.states.Issue(c.Request.Context(), userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("state issue failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": h.graph.AuthCodeURL(state), "state": state})
}

// Callback validates the state, swaps the code for a short-lived token and
// runs the regular connect flow with it. The redirect is unauthenticated, so
// the credential owner comes from the consumed state, never from the request.
func (h *FacebookHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	userID, ok, err := h.states.Consume(c.Request.Context(), state)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("state lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state_lookup_failed"})
		return
	}
	if !ok || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_state"})
		return
	}

	shortToken, err := h.graph.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("code exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "token_exchange_failed"})
		return
	}

	res, err := h.credUsecase.Connect(c.Request.Context(), userID, shortToken)
	if err != nil {
		h.writeGraphError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: res})
}

// Connect accepts a short-lived token obtained client-side (JS SDK login) and
// exchanges it for a stored long-lived credential.
func (h *FacebookHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		return
	}

	res, err := h.credUsecase.Connect(c.Request.Context(), c.GetString("user_id"), req.ShortToken)
	if err != nil {
		h.writeGraphError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: res})
}

func (h *FacebookHandler) Status(c *gin.Context) {
	status, err := h.credUsecase.Status(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("status lookup failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: status})
}

func (h *FacebookHandler) Pages(c *gin.Context) {
	pages, err := h.credUsecase.ListPages(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("pages lookup failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: pages})
}

// Refresh re-exchanges the stored long-lived token on demand.
func (h *FacebookHandler) Refresh(c *gin.Context) {
	outcome, err := h.credUsecase.Refresh(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("refresh failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	if !outcome.Success {
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: outcome.Error, Data: outcome})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: outcome})
}

func (h *FacebookHandler) Disconnect(c *gin.Context) {
	err := h.credUsecase.Disconnect(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("disconnect failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Disconnected"})
}

func (h *FacebookHandler) TokenLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	log, err := h.credUsecase.TokenLog(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("token log lookup failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: log})
}

// writeGraphError maps classified platform failures to HTTP statuses: auth
// problems are the caller's to fix, everything upstream is a bad gateway.
func (h *FacebookHandler) writeGraphError(c *gin.Context, err error) {
	msg := model.PlatformMessage(err)
	switch model.KindOf(err) {
	case model.ErrKindAuth:
		c.JSON(http.StatusUnauthorized, dto.Res{ResponseCode: "401", ResponseMessage: msg})
	case model.ErrKindConfig:
		c.JSON(http.StatusServiceUnavailable, dto.Res{ResponseCode: "503", ResponseMessage: msg})
	default:
		logger.GetLogger().WithField("error", err).Error("graph call failed")
		c.JSON(http.StatusBadGateway, dto.Res{ResponseCode: "502", ResponseMessage: msg})
	}
}
