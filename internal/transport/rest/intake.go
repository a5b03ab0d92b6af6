package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medintake/internal/domain"
)

const profilePictureField = "profilePicture"

// readPicture returns nil when the request carries no picture and domain.ErrPictureTooLarge
// when the picture or the whole body goes over HTTP_MAX_UPLOAD_MB.
func (h *Handler) readPicture(c *gin.Context) (*domain.Picture, error) {
	fh, err := c.FormFile(profilePictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		if isBodyTooLarge(err) {
			return nil, domain.ErrPictureTooLarge
		}
		return nil, err
	}

	limit := h.maxUploadBytes()
	if fh.Size > limit {
		return nil, fmt.Errorf("file %s: %w", fh.Filename, domain.ErrPictureTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return &domain.Picture{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// intakeErrorResponse maps service errors to status codes. Backend failures only expose the generic message.
func (h *Handler) intakeErrorResponse(c *gin.Context, err error) {
	var ierr *domain.IntakeError
	switch {
	case errors.As(err, &ierr):
		if ierr.Kind == domain.ErrorKindMissingFile {
			badRequestResponse(c, ierr.Message())
			return
		}
		errorResponse(c, http.StatusBadGateway, ierr.Message())
	case errors.Is(err, domain.ErrSessionNotFound):
		notFoundResponse(c, err.Error())
	case errors.Is(err, domain.ErrUnknownField):
		badRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrSubmissionInProgress), errors.Is(err, domain.ErrAlreadySubmitted):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTooManySessions):
		errorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		_ = c.Error(err)
		internalServerErrorResponse(c)
	}
}

// @Summary Open an intake session
// @Description Creates an empty doctor profile draft and returns its session id
// @Tags Intake
// @Produce json
// @Success 201 {object} domain.SessionDTO
// @Failure 503 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /api/v1/intake/sessions [post]
func (h *Handler) openIntakeSession(c *gin.Context) {
	id, err := h.services.Intake.Open(c.Request.Context())
	if err != nil {
		h.intakeErrorResponse(c, err)
		return
	}

	createdResponse(c, "", domain.SessionDTO{ID: id})
}

// @Summary Get an intake session
// @Description Returns the current draft, the error banner and the submitted state
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} intake.View
// @Failure 404 {object} errorResponseBody
// @Router /api/v1/intake/sessions/{id} [get]
func (h *Handler) getIntakeSession(c *gin.Context) {
	view, err := h.services.Intake.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.intakeErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Update a draft field
// @Description Replaces one of the six text fields. The value is stored verbatim.
// @Tags Intake
// @Accept json
// @Param id path string true "Session ID"
// @Param field path string true "Field name" Enums(name, specialty, experience, languages, license, livingPlace)
// @Param input body domain.UpdateFieldDTO true "New value"
// @Success 204
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Router /api/v1/intake/sessions/{id}/fields/{field} [put]
func (h *Handler) updateIntakeField(c *gin.Context) {
	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		badRequestResponse(c, fmt.Sprintf("unknown field %q", c.Param("field")))
		return
	}

	var req domain.UpdateFieldDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid field payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	if err := h.services.Intake.UpdateField(c.Request.Context(), c.Param("id"), field, req.Value); err != nil {
		h.intakeErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Select the profile picture
// @Description Stores the picture in the draft. A request without a file keeps the previous selection.
// @Tags Intake
// @Accept multipart/form-data
// @Param id path string true "Session ID"
// @Param profilePicture formData file false "Profile picture"
// @Success 204
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Failure 413 {object} errorResponseBody
// @Router /api/v1/intake/sessions/{id}/picture [put]
func (h *Handler) selectIntakePicture(c *gin.Context) {
	pic, err := h.readPicture(c)
	if err != nil {
		h.logger.Warn("invalid profile picture", zap.Error(err))
		if errors.Is(err, domain.ErrPictureTooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, domain.MessagePictureTooLarge)
			return
		}
		badRequestResponse(c, domain.MessageBadPicture)
		return
	}

	if err := h.services.Intake.SelectPicture(c.Request.Context(), c.Param("id"), pic); err != nil {
		h.intakeErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Submit the draft
// @Description Uploads the picture, then stores the doctor record with the picture URL
// @Tags Intake
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} domain.Submission
// @Failure 400 {object} errorResponseBody "Please upload a profile picture"
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody
// @Failure 502 {object} errorResponseBody "Error uploading profile picture or saving doctor details"
// @Router /api/v1/intake/sessions/{id}/submit [post]
func (h *Handler) submitIntake(c *gin.Context) {
	sub, err := h.services.Intake.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.intakeErrorResponse(c, err)
		return
	}

	createdResponse(c, domain.MessageDoctorSubmitted, sub)
}
