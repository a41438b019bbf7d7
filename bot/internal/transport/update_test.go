package transport

import (
	"testing"

	"photointake/bot/internal/intake"
)

func TestToEvent(t *testing.T) {
	cases := []struct {
		name string
		upd  Update
		want intake.EventKind
	}{
		{"start command", Update{UserID: 1, Message: &Message{Text: "/start"}}, intake.KindStart},
		{"start with argument", Update{UserID: 1, Message: &Message{Text: "/start now"}}, intake.KindStart},
		{"plain text", Update{UserID: 1, Message: &Message{Text: "hello"}}, intake.KindText},
		{"photo", Update{UserID: 1, Message: &Message{Photo: &Photo{FileID: "f", SizeBytes: 10}}}, intake.KindPhoto},
		{"document", Update{UserID: 1, Message: &Message{Document: &Document{FileID: "f"}}}, intake.KindDocument},
		{"callback", Update{UserID: 1, Callback: &Callback{Action: "submit"}}, intake.KindButton},
	}

	for _, tc := range cases {
		ev := tc.upd.ToEvent()
		if ev.Kind != tc.want {
			t.Fatalf("%s: expected kind %s, got %s", tc.name, tc.want, ev.Kind)
		}
	}
}

func TestToEventCarriesPayloads(t *testing.T) {
	upd := Update{
		UserID:   42,
		Username: "ivan",
		Message:  &Message{Photo: &Photo{FileID: "f-9", SizeBytes: 2048, MediaGroup: true}},
	}
	ev := upd.ToEvent()
	if ev.UserID != 42 || ev.Username != "ivan" {
		t.Fatalf("identity not carried: %+v", ev)
	}
	if ev.Photo == nil || ev.Photo.FileID != "f-9" || ev.Photo.SizeBytes != 2048 || !ev.Photo.MediaGroup {
		t.Fatalf("photo not carried: %+v", ev.Photo)
	}

	upd = Update{UserID: 42, Callback: &Callback{Action: "change"}}
	if ev := upd.ToEvent(); ev.Action != "change" {
		t.Fatalf("action not carried: %+v", ev)
	}
}
