package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/input"
	"sehatnama/pkg/validator"
)

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	interviews input.InterviewService
	archive    input.ArchiveService
	speech     input.SpeechService
	db         *gorm.DB
	provider   string
	validator  validator.Validator
}

// New func - Creates new HTTP handler. db is nil when the archive is disabled.
func New(interviews input.InterviewService, archive input.ArchiveService, speech input.SpeechService, db *gorm.DB, provider string) *HTTPHandler {
	return &HTTPHandler{
		interviews: interviews,
		archive:    archive,
		speech:     speech,
		db:         db,
		provider:   provider,
		validator:  validator.New(),
	}
}

// HealthCheck func
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseBody
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	if hdl.db != nil {
		sqlDB, err := hdl.db.DB()
		if err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
		}

		err = sqlDB.Ping()
		if err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
		}
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: HealthResponse{
		Status:        "ok",
		AgentProvider: hdl.provider,
		Archive:       hdl.db != nil,
	}})
}

// StartInterview godoc
// @Summary Start interview
// @Description Creates a session and returns the first agent reply
// @Tags Interview
// @Accept application/json
// @Produce json
// @param StartInterview body StartInterviewRequest false "StartInterview"
// @Success 200 {object} ResponseBody{data=StartInterviewResponse}
// @Router /api/v1/interviews [post]
func (hdl *HTTPHandler) StartInterview(c *fiber.Ctx) error {
	var request StartInterviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
		}
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return hdl.badRequest(c, err)
	}

	options := domain.StartOptions{}
	if request.SessionID != nil {
		options.SessionID = *request.SessionID
	}
	result, err := hdl.interviews.Start(c.UserContext(), options)
	if err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: StartInterviewResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
		Section:   result.Section,
		Degraded:  result.Degraded,
	}})
}

// GetInterview godoc
// @Summary Interview progress
// @Tags Interview
// @Produce json
// @param id path string true "session id"
// @Success 200 {object} ResponseBody{data=SnapshotResponse}
// @Failure 404 {object} ResponseBody
// @Router /api/v1/interviews/{id} [get]
func (hdl *HTTPHandler) GetInterview(c *fiber.Ctx) error {
	snapshot, err := hdl.interviews.Snapshot(c.UserContext(), c.Params("id"))
	if err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: SnapshotResponse{
		SessionID:  snapshot.SessionID,
		Section:    snapshot.Section,
		State:      snapshot.State,
		Record:     snapshot.Record,
		IsComplete: snapshot.IsComplete,
		Language:   snapshot.Language,
		Turns:      snapshot.Turns,
		CreatedAt:  snapshot.CreatedAt,
	}})
}

// SendMessage godoc
// @Summary Send message
// @Description Runs one interview step for the patient's utterance
// @Tags Interview
// @Accept application/json
// @Produce json
// @param id path string true "session id"
// @param SendMessage body SendMessageRequest true "SendMessage"
// @Success 200 {object} ResponseBody{data=SendMessageResponse}
// @Failure 404 {object} ResponseBody
// @Failure 409 {object} ResponseBody
// @Router /api/v1/interviews/{id}/messages [post]
func (hdl *HTTPHandler) SendMessage(c *fiber.Ctx) error {
	var request SendMessageRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return hdl.badRequest(c, err)
	}

	result, err := hdl.interviews.Send(c.UserContext(), c.Params("id"), request.Message)
	if err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: toSendMessageResponse(result)})
}

// StreamMessage godoc
// @Summary Send message (streaming)
// @Description Same step as SendMessage delivered as server-sent events: token events, then one complete event
// @Tags Interview
// @Accept application/json
// @Produce text/event-stream
// @param id path string true "session id"
// @param SendMessage body SendMessageRequest true "SendMessage"
// @Success 200 {string} string "event stream"
// @Router /api/v1/interviews/{id}/messages/stream [post]
func (hdl *HTTPHandler) StreamMessage(c *fiber.Ctx) error {
	var request SendMessageRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return hdl.badRequest(c, err)
	}

	sessionID := c.Params("id")
	ctx := c.UserContext()
	snapshot, err := hdl.interviews.Snapshot(ctx, sessionID)
	if err != nil {
		return hdl.fail(c, err)
	}
	if snapshot.IsComplete {
		return hdl.fail(c, domain.ErrInterviewFinished)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Status(fiber.StatusOK)

	message := request.Message
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		hdl.stream(ctx, w, sessionID, message)
	}))
	return nil
}

func (hdl *HTTPHandler) stream(ctx context.Context, w *bufio.Writer, sessionID, message string) {
	result, err := hdl.interviews.SendStream(ctx, sessionID, message, func(token string) {
		writeEvent(w, "token", fiber.Map{"token": token})
	})
	if err != nil {
		_, status := statusFor(err)
		writeEvent(w, "error", ResponseBody{Status: status})
		return
	}
	writeEvent(w, "complete", toSendMessageResponse(result))
}

func writeEvent(w *bufio.Writer, event string, payload interface{}) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		logrus.Errorf("Failed to encode %s event: %v", event, err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	if err := w.Flush(); err != nil {
		logrus.Warnf("Failed to flush %s event: %v", event, err)
	}
}

// GetHistory godoc
// @Summary Dialogue history
// @Description original (alias patient) or normalized (alias doctor) view
// @Tags Interview
// @Produce json
// @param id path string true "session id"
// @param view query string false "original | normalized | patient | doctor"
// @Success 200 {object} ResponseBody{data=HistoryResponse}
// @Router /api/v1/interviews/{id}/history [get]
func (hdl *HTTPHandler) GetHistory(c *fiber.Ctx) error {
	var query HistoryQuery
	if err := c.QueryParser(&query); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(query); err != nil {
		return hdl.badRequest(c, err)
	}

	sessionID := c.Params("id")
	history, err := hdl.interviews.History(c.UserContext(), sessionID, domain.HistoryView(query.View))
	if err != nil {
		return hdl.fail(c, err)
	}
	view, _ := domain.HistoryView(query.View).Canonical()
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: HistoryResponse{
		SessionID: sessionID,
		View:      string(view),
		History:   history,
	}})
}

// DeleteInterview godoc
// @Summary Abandon interview
// @Tags Interview
// @Produce json
// @param id path string true "session id"
// @Success 200 {object} ResponseBody
// @Router /api/v1/interviews/{id} [delete]
func (hdl *HTTPHandler) DeleteInterview(c *fiber.Ctx) error {
	if err := hdl.interviews.Abandon(c.UserContext(), c.Params("id")); err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

func toSendMessageResponse(result *domain.SendResult) SendMessageResponse {
	var patch map[string]interface{}
	if len(result.RecordPatch) > 0 {
		if err := sonic.Unmarshal(result.RecordPatch, &patch); err != nil {
			logrus.Warnf("Failed to decode record patch: %v", err)
		}
	}
	return SendMessageResponse{
		Message:       result.Message,
		CollectedData: result.Record,
		RecordPatch:   patch,
		IsComplete:    result.IsComplete,
		Section:       result.Section,
		State:         result.State,
		Degraded:      result.Degraded,
	}
}

func (hdl *HTTPHandler) badRequest(c *fiber.Ctx, err error) error {
	msg := ResponseBody{
		Status: BadRequest,
	}
	msg.Status.Message = []string{
		err.Error(),
	}
	return c.Status(fiber.StatusBadRequest).JSON(msg)
}

func (hdl *HTTPHandler) fail(c *fiber.Ctx, err error) error {
	code, status := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		logrus.Errorln(err)
	}
	return c.Status(code).JSON(ResponseBody{Status: status})
}

// statusFor maps domain errors onto HTTP statuses
func statusFor(err error) (int, Status) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return fiber.StatusNotFound, NotFound
	case errors.Is(err, domain.ErrInterviewFinished), errors.Is(err, domain.ErrSessionExists):
		return fiber.StatusConflict, ConFlict
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrMalformedExtraction):
		return fiber.StatusBadRequest, BadRequest
	case errors.Is(err, domain.ErrFeatureDisabled):
		return fiber.StatusServiceUnavailable, ServiceUnavailable
	case errors.Is(err, domain.ErrCollaboratorTimeout):
		return fiber.StatusGatewayTimeout, GatewayTimeout
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return fiber.StatusBadGateway, BadGateway
	}
	return fiber.StatusInternalServerError, InternalServerError
}
