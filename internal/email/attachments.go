package email

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/example/notification-gateway/internal/notification"
)

type decodedAttachment struct {
	FileName    string
	Content     []byte
	ContentType string
}

// decodeAttachments decodes every base64 attachment up front. A single
// undecodable attachment fails the whole item before any provider call.
func decodeAttachments(attachments []notification.Attachment) ([]decodedAttachment, error) {
	decoded := make([]decodedAttachment, 0, len(attachments))
	for _, att := range attachments {
		content, err := base64.StdEncoding.DecodeString(att.File)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: invalid base64 content: %w", att.FileName, err)
		}
		decoded = append(decoded, decodedAttachment{
			FileName:    att.FileName,
			Content:     content,
			ContentType: contentTypeFor(att.FileName),
		})
	}
	return decoded, nil
}

// contentTypeFor infers the MIME type from the file extension, falling back
// to a generic binary type when unrecognized.
func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(filepath.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
