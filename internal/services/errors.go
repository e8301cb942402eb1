package services

import (
	"errors"
	"strconv"
)

// Service-level errors. Handlers translate these to HTTP statuses; the
// services themselves never see status codes.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrPostNotFound           = errors.New("post not found")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrStoryNotFound          = errors.New("story not found")
	ErrReportNotFound         = errors.New("report not found")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// uid renders a numeric user id in the string form used by the MongoDB
// collections.
func uid(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
