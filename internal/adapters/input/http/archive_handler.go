package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"sehatnama/internal/domain"
)

// ListArchive godoc
// @Summary Finished interviews
// @Tags Archive
// @Produce json
// @param page query int false "page"
// @param limit query int false "limit"
// @param language query string false "urdu_script | roman_urdu | english"
// @param asc query bool false "oldest first"
// @Success 200 {object} ResponseBody{data=[]domain.ArchiveSummary}
// @Router /api/v1/archive [get]
func (hdl *HTTPHandler) ListArchive(c *fiber.Ctx) error {
	query := QueryArchiveRequest{}
	if err := c.QueryParser(&query); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(query); err != nil {
		return hdl.badRequest(c, err)
	}

	result, err := hdl.archive.ListArchived(c.UserContext(), domain.ArchiveQuery{
		Language: query.Language,
		Limit:    query.Limit,
		Page:     query.Page,
		Asc:      query.Asc,
	})
	if err != nil {
		return hdl.fail(c, err)
	}

	data := result.Interviews
	if data == nil {
		data = make([]domain.ArchiveSummary, 0)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{
		Status:      Success,
		Data:        data,
		CurrentPage: &result.CurrentPage,
		PerPage:     &result.PerPage,
		TotalItem:   &result.TotalItem,
	})
}

// GetArchive godoc
// @Summary One finished interview
// @Tags Archive
// @Produce json
// @param session_id path string true "session id"
// @Success 200 {object} ResponseBody{data=domain.ArchiveSummary}
// @Failure 404 {object} ResponseBody
// @Router /api/v1/archive/{session_id} [get]
func (hdl *HTTPHandler) GetArchive(c *fiber.Ctx) error {
	summary, err := hdl.archive.GetArchived(c.UserContext(), c.Params("session_id"))
	if err != nil {
		return hdl.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: summary})
}
