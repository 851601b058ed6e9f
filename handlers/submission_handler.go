package handlers

import (
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/upstream"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/validation"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gin-gonic/gin"
)

const (
	MsgInvalidEmail = "Please enter a valid email address."
	MsgInvalidPhone = "Please enter a valid phone number (at least 10 digits)."
)

type SubmissionHandler struct {
	submissionService SubmissionServiceInterface
}

func NewSubmissionHandler(submissionService SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// SubmitFormHandler validates a help or volunteer form and relays the
// upstream API's answer, status code included.
func (h *SubmissionHandler) SubmitFormHandler(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	phone := strings.TrimSpace(c.PostForm("phone"))

	if !validation.ValidEmail(email) {
		_ = c.Error(errors.ValidationFailed(MsgInvalidEmail))
		return
	}
	if !validation.ValidPhone(phone) {
		_ = c.Error(errors.ValidationFailed(MsgInvalidPhone))
		return
	}

	attachments, err := formAttachments(c, upstream.AttachmentField)
	if err != nil {
		_ = c.Error(errors.Wrap(err, errors.ServerError, "Failed to submit form"))
		return
	}

	sub := &types.Submission{
		FormPurpose:       formValue(c, "requestType", types.DefaultFormPurpose),
		FirstName:         formValue(c, "firstName", ""),
		LastName:          formValue(c, "lastName", ""),
		Email:             formValue(c, "email", ""),
		Phone:             formValue(c, "phone", ""),
		HelpNeededOffered: formValue(c, "message", ""),
		Attachments:       attachments,
	}

	resp, err := h.submissionService.Submit(c.Request.Context(), sub)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Data(resp.StatusCode, "application/json; charset=utf-8", resp.Body)
}
