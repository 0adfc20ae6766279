// Package pipeline turns model completions into validated records using the
// parse, repair, regenerate sequence.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/terra-clan/trainer-backend/internal/llm"
	"github.com/terra-clan/trainer-backend/internal/markedjson"
	"github.com/terra-clan/trainer-backend/internal/models"
)

// Record is a model-produced value that can check itself
type Record interface {
	Validate() error
}

// recordPtr lets Run allocate a T and call Validate on *T
type recordPtr[T any] interface {
	*T
	Record
}

// Policy controls the fallback after a failed repair
type Policy struct {
	// Regenerate issues one fresh completion with the original messages
	Regenerate bool
}

// Pipeline drives completions through extraction and repair
type Pipeline struct {
	completer llm.Completer
}

// New creates a pipeline on top of a completer
func New(completer llm.Completer) *Pipeline {
	return &Pipeline{completer: completer}
}

// Decode extracts the marked payload from text, decodes it into T and
// validates the result
func Decode[T any, PT recordPtr[T]](text string) (*T, error) {
	var raw json.RawMessage
	if err := markedjson.Extract(text, &raw); err != nil {
		return nil, err
	}

	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "(root)"
			}
			return nil, &models.ValidationError{
				Field:   field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}
		}
		return nil, err
	}

	if err := PT(v).Validate(); err != nil {
		return nil, err
	}

	return v, nil
}

// IsDecodeError reports whether err means the model output was unusable, as
// opposed to the model being unreachable
func IsDecodeError(err error) bool {
	var verr *models.ValidationError
	return errors.Is(err, markedjson.ErrMarkerNotFound) ||
		markedjson.IsSyntaxError(err) ||
		errors.As(err, &verr)
}

// Run completes messages and decodes the reply into T. On a decode failure
// the model is asked once to repair its output; if that also fails and the
// policy allows it, the original messages are sent once more. The last error
// is returned unchanged. Transport errors abort immediately.
func Run[T any, PT recordPtr[T]](ctx context.Context, p *Pipeline, operation string, messages []models.ChatMessage, policy Policy) (*T, error) {
	text, err := p.completer.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	v, decodeErr := Decode[T, PT](text)
	if decodeErr == nil {
		return v, nil
	}
	logDecodeFailure(operation, "initial", decodeErr)

	repaired, err := p.Repair(ctx, text, decodeErr)
	if err != nil {
		return nil, err
	}

	v, decodeErr = Decode[T, PT](repaired)
	if decodeErr == nil {
		slog.Info("model response repaired", "operation", operation)
		return v, nil
	}
	logDecodeFailure(operation, "repair", decodeErr)

	if !policy.Regenerate {
		return nil, decodeErr
	}

	regenerated, err := p.completer.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	v, decodeErr = Decode[T, PT](regenerated)
	if decodeErr != nil {
		logDecodeFailure(operation, "regenerate", decodeErr)
		return nil, decodeErr
	}

	slog.Info("model response regenerated", "operation", operation)
	return v, nil
}

func logDecodeFailure(operation, stage string, err error) {
	slog.Warn("model response could not be decoded",
		"operation", operation,
		"stage", stage,
		"error", err,
	)
}
