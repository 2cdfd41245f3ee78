package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
)

// Transcribe godoc
// @Summary Speech to text
// @Tags Speech
// @Accept multipart/form-data
// @Produce json
// @param file formData file true "audio file"
// @param language formData string false "language code, default ur"
// @Success 200 {object} ResponseBody{data=TranscriptionResponse}
// @Router /api/v1/speech/transcribe [post]
func (hdl *HTTPHandler) Transcribe(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	file, err := header.Open()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	result, err := hdl.speech.Transcribe(c.UserContext(), domain.TranscriptionRequest{
		FileName: header.Filename,
		Audio:    audio,
		Language: c.FormValue("language"),
	})
	if err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: TranscriptionResponse{
		Text:     result.Text,
		Language: result.Language,
		Duration: result.Duration,
	}})
}

// Synthesize godoc
// @Summary Text to speech
// @Tags Speech
// @Accept application/json
// @Produce audio/mpeg
// @param Synthesize body SynthesizeRequest true "Synthesize"
// @Success 200 {file} binary
// @Router /api/v1/speech/synthesize [post]
func (hdl *HTTPHandler) Synthesize(c *fiber.Ctx) error {
	var request SynthesizeRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return hdl.badRequest(c, err)
	}

	result, err := hdl.speech.Synthesize(c.UserContext(), domain.SpeechRequest{
		Text:         request.Text,
		VoiceID:      request.VoiceID,
		OutputFormat: request.OutputFormat,
	})
	if err != nil {
		return hdl.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=speech.mp3")
	return c.Status(fiber.StatusOK).Send(result.Audio)
}
