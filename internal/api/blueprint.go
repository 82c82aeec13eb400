package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"kortex-blueprint/internal/lead"
	"kortex-blueprint/internal/mail"
	"kortex-blueprint/internal/util"
)

// stageError tags a delivery failure with the step that produced it. Only logs see the stage.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("%s: %v", e.stage, e.err) }
func (e *stageError) Unwrap() error { return e.err }

func (s *Server) handleGenerateBlueprint(c *gin.Context) {
	var submission lead.Submission
	if err := c.ShouldBindJSON(&submission); err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			logrus.WithField("missing", lead.MissingFields(verrs)).Info("blueprint request missing fields")
			c.JSON(http.StatusBadRequest, MessageResponse{Message: msgMissingFields})
		case errors.Is(err, io.EOF):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: msgMissingFields})
		default:
			logrus.WithError(err).Info("blueprint request body rejected")
			c.JSON(http.StatusBadRequest, MessageResponse{Message: msgInvalidBody})
		}
		return
	}
	submission = submission.Normalize()
	if err := submission.Validate(); err != nil {
		logrus.WithError(err).Info("blueprint request missing fields")
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgMissingFields})
		return
	}

	timer := util.StartTimer()
	if err := s.deliverBlueprint(c.Request.Context(), submission, timer); err != nil {
		entry := logrus.WithError(err).WithFields(timer.Fields()).WithField("company", submission.Company)
		var se *stageError
		if errors.As(err, &se) {
			entry = entry.WithField("stage", se.stage)
		}
		entry.Error("blueprint request failed")
		c.JSON(http.StatusInternalServerError, StatusResponse{Success: false, Message: msgInternalError})
		return
	}

	logrus.WithFields(timer.Fields()).WithField("company", submission.Company).Info("blueprint sent")
	c.JSON(http.StatusOK, StatusResponse{Success: true, Message: msgBlueprintSent})
}

// deliverBlueprint runs generate, render, then the sends in order. The first failure stops it.
func (s *Server) deliverBlueprint(ctx context.Context, submission lead.Submission, timer *util.Timer) error {
	blueprint, err := s.generator.Generate(ctx, submission)
	timer.Lap("generate")
	if err != nil {
		return &stageError{stage: "generate", err: err}
	}

	html, err := s.renderer.Render(blueprint)
	timer.Lap("render")
	if err != nil {
		return &stageError{stage: "render", err: err}
	}

	err = s.sender.Send(ctx, mail.Message{
		To:      submission.Email,
		Subject: submission.CustomerSubject(),
		HTML:    html,
	})
	timer.Lap("send_customer")
	if err != nil {
		return &stageError{stage: "send_customer", err: err}
	}

	if s.notificationEmail == "" {
		return nil
	}
	err = s.sender.Send(ctx, mail.Message{
		To:      s.notificationEmail,
		Subject: submission.NotificationSubject(),
		Text:    submission.NotificationText(),
	})
	timer.Lap("send_notification")
	if err != nil {
		return &stageError{stage: "send_notification", err: err}
	}
	return nil
}
