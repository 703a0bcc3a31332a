package domain

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Attachment records a file uploaded to a task. Filename is the generated,
// collision-free storage name; OriginalFilename is what the uploader sent.
type Attachment struct {
	ID               string    `json:"id" bson:"_id" db:"id"`
	TaskID           string    `json:"task_id" bson:"task_id" db:"task_id"`
	UserID           string    `json:"user_id" bson:"user_id" db:"user_id"`
	Filename         string    `json:"filename" bson:"filename" db:"filename"`
	OriginalFilename string    `json:"original_filename" bson:"original_filename" db:"original_filename"`
	FileType         string    `json:"file_type" bson:"file_type" db:"file_type"`
	UploadedAt       time.Time `json:"uploaded_at" bson:"uploaded_at" db:"uploaded_at"`
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe base name.
// It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" || name == "." {
		return ""
	}
	return name
}
