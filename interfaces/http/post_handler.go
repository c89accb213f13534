package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"page-scheduler/domain/dto"
	"page-scheduler/infrastructure/logger"
	"page-scheduler/usecase"
)

type IPostHandler interface {
	Schedule(c *gin.Context)
	Scheduled(c *gin.Context)
	Pending(c *gin.Context)
	Cancel(c *gin.Context)
	Delete(c *gin.Context)
	History(c *gin.Context)
	Stats(c *gin.Context)
	RunCycle(c *gin.Context)
}

type PostHandler struct {
	postUsecase usecase.IPostUsecase
	dispatcher  *usecase.Dispatcher
}

func NewPostHandler(postUsecase usecase.IPostUsecase, dispatcher *usecase.Dispatcher) IPostHandler {
	return &PostHandler{postUsecase: postUsecase, dispatcher: dispatcher}
}

func (h *PostHandler) Schedule(c *gin.Context) {
	var req dto.SchedulePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
		return
	}

	post, err := h.postUsecase.Schedule(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		if errors.Is(err, usecase.ErrScheduleInPast) || errors.Is(err, usecase.ErrUnknownRepeatType) {
			c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: err.Error()})
			return
		}
		logger.GetLogger().WithField("error", err).Error("schedule failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, dto.Res{ResponseCode: "201", ResponseMessage: "Scheduled", Data: post})
}

func (h *PostHandler) Scheduled(c *gin.Context) {
	posts, err := h.postUsecase.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("post list failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: posts})
}

func (h *PostHandler) Pending(c *gin.Context) {
	posts, err := h.postUsecase.ListPending(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("pending list failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: posts})
}

// Cancel only transitions pending posts; anything already dispatched stays as
// it is.
func (h *PostHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "invalid post id"})
		return
	}
	ok, err := h.postUsecase.Cancel(c.Request.Context(), id, c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("cancel failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, dto.Res{ResponseCode: "404", ResponseMessage: "post not found or not pending"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Cancelled"})
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Res{ResponseCode: "400", ResponseMessage: "invalid post id"})
		return
	}
	if err := h.postUsecase.Delete(c.Request.Context(), id, c.GetString("user_id")); err != nil {
		logger.GetLogger().WithField("error", err).Error("delete failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Deleted"})
}

func (h *PostHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	hist, err := h.postUsecase.History(c.Request.Context(), c.GetString("user_id"), c.Query("status"), limit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("history lookup failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: hist})
}

func (h *PostHandler) Stats(c *gin.Context) {
	stats, err := h.postUsecase.Stats(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("stats lookup failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: stats})
}

// RunCycle triggers one dispatch cycle outside the ticker cadence. Useful for
// operators; the cycle is still single-flight.
func (h *PostHandler) RunCycle(c *gin.Context) {
	report, err := h.dispatcher.RunCycle(c.Request.Context())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("manual cycle failed")
		c.JSON(http.StatusInternalServerError, dto.Res{ResponseCode: "500", ResponseMessage: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.Res{ResponseCode: "200", ResponseMessage: "Success", Data: report})
}
