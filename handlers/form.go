package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gin-gonic/gin"
)

// formValue returns the posted field key, or def when the field is absent.
// A field that is present but empty is returned as "".
func formValue(c *gin.Context, key, def string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return def
}

// firstFormValue returns the first non-empty value among keys.
func firstFormValue(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.PostForm(key); v != "" {
			return v
		}
	}
	return ""
}

// formAttachments reads every file posted under field. Non-multipart
// requests have none.
func formAttachments(c *gin.Context, field string) ([]types.Attachment, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	headers := form.File[field]
	attachments := make([]types.Attachment, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		attachments = append(attachments, types.Attachment{
			Filename: fh.Filename,
			Content:  content,
		})
	}
	return attachments, nil
}
