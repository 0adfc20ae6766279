package pipeline

import (
	"context"
	"strings"

	"github.com/terra-clan/trainer-backend/internal/markedjson"
	"github.com/terra-clan/trainer-backend/internal/models"
)

const repairSystemMessage = "Ты конвертер формата. Верни ответ строго между " + markedjson.BeginMarker + " и " + markedjson.EndMarker + ". " +
	"Внутри — один валидный JSON-объект. " +
	"Строго двойные кавычки для ключей и строк. " +
	"Запрещены markdown, комментарии, хвостовые запятые и любой текст вне маркеров. " +
	"Исправь пропущенные запятые/кавычки/скобки."

// RepairMessages builds the prompt asking the model to turn invalidText into
// valid marked JSON without changing its meaning
func RepairMessages(invalidText, parseErrorMessage string) []models.ChatMessage {
	var b strings.Builder
	b.WriteString("Сделай следующий текст валидным JSON, не меняя смысла данных.\n")
	b.WriteString("Верни строго:\n\n")
	b.WriteString(markedjson.BeginMarker + "\n{ ...валидный JSON... }\n" + markedjson.EndMarker + "\n\n")
	b.WriteString("Ошибка парсинга:\n")
	b.WriteString(parseErrorMessage)
	b.WriteString("\n\nТекст:\n")
	b.WriteString(invalidText)

	return []models.ChatMessage{
		models.SystemMessage(repairSystemMessage),
		models.UserMessage(strings.TrimSpace(b.String())),
	}
}

// Repair asks the model once to reformat its invalid output. The returned
// text is raw and still has to be decoded.
func (p *Pipeline) Repair(ctx context.Context, invalidText string, parseErr error) (string, error) {
	msg := "Unknown JSON parsing error"
	if parseErr != nil {
		msg = parseErr.Error()
	}
	return p.completer.Complete(ctx, RepairMessages(invalidText, msg))
}
