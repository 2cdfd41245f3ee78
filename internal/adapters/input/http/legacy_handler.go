package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
)

// Compatibility routes keep the payload shapes the existing web front-end expects:
// bare JSON objects and {"error": ...} instead of the ResponseBody envelope.

// LegacyStartInterview godoc
// @Summary Start interview (compatibility)
// @Tags Compatibility
// @Produce json
// @Success 200 {object} LegacyStartResponse
// @Router /api/start-interview [post]
func (hdl *HTTPHandler) LegacyStartInterview(c *fiber.Ctx) error {
	result, err := hdl.interviews.Start(c.UserContext(), domain.StartOptions{})
	if err != nil {
		return hdl.legacyFail(c, "start-interview failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(LegacyStartResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
	})
}

// LegacySendMessage godoc
// @Summary Send message (compatibility)
// @Tags Compatibility
// @Accept application/json
// @Produce json
// @param SendMessage body LegacySendMessageRequest true "SendMessage"
// @Success 200 {object} LegacySendResponse
// @Router /api/send-message [post]
func (hdl *HTTPHandler) LegacySendMessage(c *fiber.Ctx) error {
	var request LegacySendMessageRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(LegacyErrorResponse{Error: "send-message failed", Details: err.Error()})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(LegacyErrorResponse{Error: "send-message failed", Details: err.Error()})
	}

	result, err := hdl.interviews.Send(c.UserContext(), request.SessionID, request.Message)
	if err != nil {
		return hdl.legacyFail(c, "send-message failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(LegacySendResponse{
		Message:       result.Message,
		CollectedData: result.Record,
		IsComplete:    result.IsComplete,
	})
}

// LegacyGetHistory godoc
// @Summary Dialogue history (compatibility)
// @Tags Compatibility
// @Produce json
// @param session_id query string true "session id"
// @param view query string false "patient | doctor"
// @Success 200 {object} HistoryResponse
// @Router /api/get-history [get]
func (hdl *HTTPHandler) LegacyGetHistory(c *fiber.Ctx) error {
	var query HistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(LegacyErrorResponse{Error: "failed to build history", Details: err.Error()})
	}
	if query.View == "" {
		query.View = string(domain.HistoryViewPatient)
	}
	if err := hdl.validator.ValidateStruct(query); err != nil || query.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(LegacyErrorResponse{Error: "failed to build history", Details: "session_id and a valid view are required"})
	}

	history, err := hdl.interviews.History(c.UserContext(), query.SessionID, domain.HistoryView(query.View))
	if err != nil {
		return hdl.legacyFail(c, "failed to build history", err)
	}
	return c.Status(fiber.StatusOK).JSON(HistoryResponse{
		SessionID: query.SessionID,
		View:      query.View,
		History:   history,
	})
}

func (hdl *HTTPHandler) legacyFail(c *fiber.Ctx, message string, err error) error {
	code, _ := statusFor(err)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return c.Status(code).JSON(LegacyErrorResponse{Error: "session not found"})
	}
	if code >= fiber.StatusInternalServerError {
		logrus.Errorln(err)
	}
	return c.Status(code).JSON(LegacyErrorResponse{Error: message, Details: err.Error()})
}
