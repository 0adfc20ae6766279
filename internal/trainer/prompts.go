package trainer

import (
	"fmt"
	"strings"

	"github.com/terra-clan/trainer-backend/internal/models"
)

// Placeholder rendered for an empty constraints or test cases section
const emptySection = "- (нет)"

const generationSystemMessage = "Ты генератор учебных задач по программированию для тренажёра. " +
	"Возвращай ответ строго между маркерами BEGIN_JSON и END_JSON. " +
	"Внутри должен быть один валидный JSON-объект. " +
	"ВСЕ текстовые поля (title, statement, constraints, examples, solutionOutline) " +
	"ДОЛЖНЫ БЫТЬ НА РУССКОМ ЯЗЫКЕ. " +
	"Код (starterCode) должен быть на языке программирования. " +
	"Строго двойные кавычки. Никакого markdown и пояснений."

const generationUserTemplate = `
ВАЖНО:
- Все текстовые поля JSON должны быть НА РУССКОМ ЯЗЫКЕ.
- Исключение: код (starterCode, примеры кода) — на языке программирования.

Сгенерируй задачу для тренажёра.
Тема: %s
Язык: %s
Язык описания задачи: русский

Ответ верни СТРОГО в формате:

BEGIN_JSON
{ ...валидный JSON... }
END_JSON

Важно: делай ответ КОРОТКИМ, чтобы он не обрезался:
- constraints: максимум 3 элемента
- examples: максимум 1 элемент
- testCases: максимум 3 элемента
- solutionOutline: максимум 3 пункта

Формат JSON:
{
  "id": "string",
  "title": "string",
  "language": "JavaScript|TypeScript|Python",
  "difficulty": "easy|medium",
  "statement": "string",
  "constraints": ["string", "..."],
  "examples": [{"input":"string","output":"string","explanation":"string"}],
  "starterCode": "string",
  "solutionOutline": ["string", "..."],
  "testCases": [{"input":"string","expected":"string"}]
}

КРИТИЧЕСКИ ВАЖНО:
- starterCode НЕ ДОЛЖЕН содержать реализацию решения.
- starterCode должен быть ЗАГЛУШКОЙ (TODO или throw new Error("Not implemented")).
- Запрещено использовать filter, map, reduce, циклы или любую логику решения в starterCode.
- НЕ добавляй готовое решение в statement, constraints, examples, solutionOutline и testCases.
`

const checkSystemMessage = "Ты строгий проверяющий решений в тренажёре. " +
	"Ты НЕ выполняешь код, а анализируешь его и проверяешь соответствие требованиям и тест-кейсам. " +
	"Все ответы и объяснения пиши НА РУССКОМ ЯЗЫКЕ. " +
	"Верни ответ строго между BEGIN_JSON и END_JSON. " +
	"Внутри — один валидный JSON-объект. " +
	"Строго двойные кавычки для ключей и строк. " +
	"Запрещены markdown, комментарии и любой текст вне маркеров."

const checkUserTemplate = `
Проверь решение пользователя для учебной задачи.

ВАЖНО:
- Ответ ДОЛЖЕН быть на РУССКОМ ЯЗЫКЕ (summary, feedback, fixes, edgeCases).
- Верни ответ СТРОГО в формате:

BEGIN_JSON
{ ...валидный JSON... }
END_JSON

Требования к полям:
- summary: краткий итог проверки (1–2 предложения).
- feedback: ПОДРОБНОЕ ПОЯСНЕНИЕ решения:
  * если неверно — пошагово объясни, где логическая ошибка,
    на каких входных данных решение ломается и почему;
  * если верно — объясни, почему решение корректно и проходит все тесты.
- fixes: конкретные рекомендации по исправлению (если есть).
- score: 0..10 (0 — совсем неверно, 10 — полностью верно).
- edgeCases: возможные граничные случаи (макс. 3).

Если решение неверное — feedback ОБЯЗАТЕЛЕН и должен быть развёрнутым.
Если решение верное — feedback должен содержать разбор логики решения.

Задача:
%s

Язык: %s

Ограничения:
%s

Тест-кейсы (input -> expected):
%s

Код пользователя:
%s

Верни JSON строго по схеме:
BEGIN_JSON
{
  "passed": boolean,
  "score": number,
  "summary": "string",
  "feedback": "string",
  "fixes": ["string"],
  "edgeCases": ["string"]
}
END_JSON
`

const solutionSystemMessage = "Ты AI-ментор по программированию. " +
	"Сгенерируй эталонное решение, которое проходит тест-кейсы. " +
	"Пояснение пиши НА РУССКОМ ЯЗЫКЕ. " +
	"Верни ответ строго между BEGIN_JSON и END_JSON. " +
	"Внутри — один валидный JSON-объект. " +
	"Строго двойные кавычки для ключей и строк. " +
	"Запрещены markdown, комментарии и любой текст вне маркеров."

const solutionUserTemplate = `
Дана учебная задача. Нужно дать ЭТАЛОННОЕ решение.

Требования:
- Верни ответ строго в формате:

BEGIN_JSON
{
  "code": "string",
  "explanation": "string"
}
END_JSON

- "code" должен быть полноценным решением, проходящим тест-кейсы.
- "code" должен быть В ВИДЕ СТРОКИ JSON: экранируй переводы строк как \n.
- "explanation" — на русском, 4–8 предложений: логика решения + почему проходит тесты.
- Никакого текста вне маркеров.

Язык программирования: %s

Условие задачи:
%s

Ограничения:
%s

Тест-кейсы (input -> expected):
%s

Верни только JSON между маркерами.
`

// generationMessages builds the task generation prompt
func generationMessages(topic, language string) []models.ChatMessage {
	return []models.ChatMessage{
		models.SystemMessage(generationSystemMessage),
		models.UserMessage(strings.TrimSpace(fmt.Sprintf(generationUserTemplate, topic, language))),
	}
}

// checkMessages builds the answer check prompt
func checkMessages(task *models.Task, userCode string) []models.ChatMessage {
	user := fmt.Sprintf(checkUserTemplate,
		task.Statement,
		task.Language,
		renderConstraints(task.Constraints),
		renderTestCases(task.TestCases),
		userCode,
	)
	return []models.ChatMessage{
		models.SystemMessage(checkSystemMessage),
		models.UserMessage(strings.TrimSpace(user)),
	}
}

// solutionMessages builds the reference solution prompt
func solutionMessages(task *models.Task) []models.ChatMessage {
	user := fmt.Sprintf(solutionUserTemplate,
		task.Language,
		task.Statement,
		renderConstraints(task.Constraints),
		renderTestCases(task.TestCases),
	)
	return []models.ChatMessage{
		models.SystemMessage(solutionSystemMessage),
		models.UserMessage(strings.TrimSpace(user)),
	}
}

// renderConstraints lists constraints as "- item" lines
func renderConstraints(constraints []string) string {
	if len(constraints) == 0 {
		return emptySection
	}

	lines := make([]string, len(constraints))
	for i, c := range constraints {
		lines[i] = "- " + c
	}
	return strings.Join(lines, "\n")
}

// renderTestCases lists test cases as "N) input -> expected" lines
func renderTestCases(testCases []models.TaskTestCase) string {
	if len(testCases) == 0 {
		return emptySection
	}

	lines := make([]string, len(testCases))
	for i, tc := range testCases {
		lines[i] = fmt.Sprintf("%d) %s -> %s", i+1, tc.Input, tc.Expected)
	}
	return strings.Join(lines, "\n")
}
