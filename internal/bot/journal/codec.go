package journal

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/Matthew11K/tester-bot/internal/domain/models"
)

// Encode сериализует запись журнала в JSON для топика событий бота.
func Encode(entry *models.JournalEntry) []byte {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("update_id")
	e.Int64(entry.UpdateID)
	e.FieldStart("user_id")
	e.Int64(entry.UserID)
	e.FieldStart("chat_id")
	e.Int64(entry.ChatID)
	e.FieldStart("intent")
	e.Str(entry.Intent)
	e.FieldStart("mode_before")
	e.Str(entry.ModeBefore.String())
	e.FieldStart("mode_after")
	e.Str(entry.ModeAfter.String())
	e.FieldStart("outcome")
	e.Str(string(entry.Outcome))
	e.FieldStart("created_at")
	e.Str(entry.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()

	return e.Bytes()
}

// Decode разбирает сообщение топика. Неизвестные поля пропускаются.
func Decode(data []byte) (*models.JournalEntry, error) {
	var entry models.JournalEntry

	err := jx.DecodeBytes(data).Obj(func(d *jx.Decoder, key string) error {
		var err error

		switch key {
		case "update_id":
			entry.UpdateID, err = d.Int64()
		case "user_id":
			entry.UserID, err = d.Int64()
		case "chat_id":
			entry.ChatID, err = d.Int64()
		case "intent":
			entry.Intent, err = d.Str()
		case "mode_before":
			entry.ModeBefore, err = decodeMode(d)
		case "mode_after":
			entry.ModeAfter, err = decodeMode(d)
		case "outcome":
			var outcome string

			outcome, err = d.Str()
			entry.Outcome = models.Outcome(outcome)
		case "created_at":
			var raw string

			if raw, err = d.Str(); err == nil {
				entry.CreatedAt, err = time.Parse(time.RFC3339Nano, raw)
			}
		default:
			err = d.Skip()
		}

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "разбор записи журнала")
	}

	return &entry, nil
}

func decodeMode(d *jx.Decoder) (models.Mode, error) {
	raw, err := d.Str()
	if err != nil {
		return models.ModeIdle, err
	}

	mode, ok := models.ParseMode(raw)
	if !ok {
		return models.ModeIdle, errors.Errorf("неизвестный режим %q", raw)
	}

	return mode, nil
}
