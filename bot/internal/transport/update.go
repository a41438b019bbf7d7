package transport

import (
	"strings"

	"photointake/bot/internal/intake"
)

// Update is the inbound webhook payload from the chat transport.
type Update struct {
	UserID   int64     `json:"user_id" binding:"required"`
	Username string    `json:"username"`
	Message  *Message  `json:"message,omitempty"`
	Callback *Callback `json:"callback,omitempty"`
}

// Message carries text or an attachment.
type Message struct {
	Text     string    `json:"text,omitempty"`
	Photo    *Photo    `json:"photo,omitempty"`
	Document *Document `json:"document,omitempty"`
}

// Photo is a photo attachment reference.
type Photo struct {
	FileID     string `json:"file_id"`
	SizeBytes  int64  `json:"size_bytes"`
	MediaGroup bool   `json:"media_group,omitempty"`
}

// Document is a generic file attachment; the intake flow rejects these.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
}

// Callback is a button press.
type Callback struct {
	Action string `json:"action"`
}

// ToEvent normalizes the wire update into an engine event.
func (u *Update) ToEvent() intake.Event {
	ev := intake.Event{
		UserID:   u.UserID,
		Username: u.Username,
	}

	switch {
	case u.Callback != nil:
		ev.Kind = intake.KindButton
		ev.Action = u.Callback.Action
	case u.Message != nil && u.Message.Photo != nil:
		ev.Kind = intake.KindPhoto
		ev.Photo = &intake.PhotoAttachment{
			FileID:     u.Message.Photo.FileID,
			SizeBytes:  u.Message.Photo.SizeBytes,
			MediaGroup: u.Message.Photo.MediaGroup,
		}
	case u.Message != nil && u.Message.Document != nil:
		ev.Kind = intake.KindDocument
	case u.Message != nil && strings.HasPrefix(strings.TrimSpace(u.Message.Text), "/start"):
		ev.Kind = intake.KindStart
	case u.Message != nil:
		ev.Kind = intake.KindText
		ev.Text = u.Message.Text
	default:
		ev.Kind = intake.KindText
	}

	return ev
}
