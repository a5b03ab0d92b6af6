package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medintake/internal/domain"
	"medintake/internal/intake"
)

const doctorFormTemplate = "doctor_form.html"

type pageInput struct {
	Name  string
	Label string
	Value string
}

type doctorPage struct {
	Inputs    []pageInput
	Submitted bool
	Error     string
	Success   string
}

// newDoctorPageData renders the form while the draft is not submitted and only the
// success banner afterwards.
func newDoctorPageData(view intake.View) doctorPage {
	if view.Submitted {
		return doctorPage{Submitted: true, Success: domain.MessageDoctorSubmitted}
	}

	page := doctorPage{Error: view.Error}
	for _, f := range domain.Fields {
		page.Inputs = append(page.Inputs, pageInput{
			Name:  string(f),
			Label: f.Label(),
			Value: view.Fields.Get(f),
		})
	}
	return page
}

func (h *Handler) newDoctorPage(c *gin.Context) {
	c.HTML(http.StatusOK, doctorFormTemplate, newDoctorPageData(intake.View{}))
}

func (h *Handler) createDoctorPage(c *gin.Context) {
	var fields domain.DoctorFields
	if err := c.ShouldBind(&fields); err != nil {
		if isBodyTooLarge(err) {
			h.logger.Warn("doctor form too large", zap.Error(err))
			c.HTML(http.StatusRequestEntityTooLarge, doctorFormTemplate, newDoctorPageData(intake.View{
				Error: domain.MessagePictureTooLarge,
			}))
			return
		}

		h.logger.Warn("incomplete doctor form", zap.Error(err))
		c.HTML(http.StatusBadRequest, doctorFormTemplate, newDoctorPageData(intake.View{
			Fields: fields,
			Error:  domain.MessageMissingFields,
		}))
		return
	}

	pic, err := h.readPicture(c)
	if err != nil {
		h.logger.Warn("invalid profile picture", zap.Error(err))
		status, msg := http.StatusBadRequest, domain.MessageBadPicture
		if errors.Is(err, domain.ErrPictureTooLarge) {
			status, msg = http.StatusRequestEntityTooLarge, domain.MessagePictureTooLarge
		}
		c.HTML(status, doctorFormTemplate, newDoctorPageData(intake.View{
			Fields: fields,
			Error:  msg,
		}))
		return
	}

	_, view, err := h.services.Intake.SubmitForm(c.Request.Context(), fields, pic)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case domain.IsKind(err, domain.ErrorKindMissingFile):
			status = http.StatusBadRequest
		case !domain.IsKind(err, domain.ErrorKindBackend):
			_ = c.Error(err)
			status = http.StatusInternalServerError
			view.Error = domain.MessageBackendFailure
		}
		c.HTML(status, doctorFormTemplate, newDoctorPageData(view))
		return
	}

	c.HTML(http.StatusOK, doctorFormTemplate, newDoctorPageData(view))
}
