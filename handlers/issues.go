package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"issuetracker/models"
	"issuetracker/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"
)

// Every logical outcome of the issue routes is sent with HTTP 200; clients
// tell failures apart by the "error" key in the payload.

func ListIssues(svc *service.IssueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		issues, err := svc.List(ctx, c.Param("project"), c.Request.URL.Query())
		if err != nil {
			respondError(c, "list", err)
			return
		}

		c.JSON(http.StatusOK, issues)
	}
}

func CreateIssue(svc *service.IssueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateIssueRequest
		if err := bindBody(c, &req); err != nil {
			rejectBody(c, "create", err, &service.ValidationError{Message: service.MsgRequiredFieldsMissing})
			return
		}

		ctx := c.Request.Context()
		issue, err := svc.Create(ctx, c.Param("project"), req)
		if err != nil {
			respondError(c, "create", err)
			return
		}

		c.JSON(http.StatusOK, issue)
	}
}

func UpdateIssue(svc *service.IssueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateIssueRequest
		if err := bindBody(c, &req); err != nil {
			rejectBody(c, "update", err, unreadableID(req.ID, service.MsgCouldNotUpdate))
			return
		}

		ctx := c.Request.Context()
		id, err := svc.Update(ctx, req)
		if err != nil {
			respondError(c, "update", err)
			return
		}

		c.JSON(http.StatusOK, models.ResultResponse{Result: "successfully updated", ID: id})
	}
}

func DeleteIssue(svc *service.IssueService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DeleteIssueRequest
		if err := bindBody(c, &req); err != nil {
			rejectBody(c, "delete", err, unreadableID(req.ID, service.MsgCouldNotDelete))
			return
		}

		ctx := c.Request.Context()
		id, err := svc.Delete(ctx, req.ID)
		if err != nil {
			respondError(c, "delete", err)
			return
		}

		c.JSON(http.StatusOK, models.ResultResponse{Result: "successfully deleted", ID: id})
	}
}

// bindBody binds a JSON or form body by content type. An empty body binds
// to the zero value.
func bindBody(c *gin.Context, obj any) error {
	// net/http only parses form bodies for POST, PUT and PATCH.
	if c.Request.Method == http.MethodDelete && c.ContentType() == binding.MIMEPOSTForm {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return err
		}
		values, err := url.ParseQuery(string(data))
		if err != nil {
			return err
		}
		return binding.MapFormWithTag(obj, values, "form")
	}

	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// rejectBody answers a body that could not be bound. A field holding a value
// of the wrong type is a logical outcome and gets the route's usual payload;
// anything else is a malformed body.
func rejectBody(c *gin.Context, op string, err error, outcome error) {
	var fieldErr *models.FieldTypeError
	var typeErr *json.UnmarshalTypeError
	var numErr *strconv.NumError

	if errors.As(err, &fieldErr) || errors.As(err, &typeErr) || errors.As(err, &numErr) {
		log.Debug().Err(err).Str("op", op).Msg("Unreadable field in body")
		respondError(c, op, outcome)
		return
	}

	log.Warn().Err(err).Str("op", op).Msg("Bind error")
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func unreadableID(id, msg string) error {
	if id == "" {
		return &service.ValidationError{Message: service.MsgMissingID}
	}
	return &service.NotFoundError{Message: msg, ID: id}
}

func respondError(c *gin.Context, op string, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusOK, models.ErrorResponse{Error: validationErr.Message, ID: validationErr.ID})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusOK, models.ErrorResponse{Error: notFoundErr.Message, ID: notFoundErr.ID})
	default:
		log.Error().Err(err).Str("op", op).Str("project", c.Param("project")).Msg("Issue request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
