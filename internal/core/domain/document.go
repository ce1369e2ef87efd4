package domain

import "time"

type Document struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mime_type"`
	StoragePath string        `json:"storage_path"`
	Text        string        `json:"-"`
	Stats       DocumentStats `json:"stats"`
	CreatedAt   time.Time     `json:"created_at"`
}
