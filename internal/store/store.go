// Package store persists the single current test definition. Each driver
// holds at most one logical document; saves are an existence probe
// followed by create-or-update. The probe/create pair is a check-then-act
// race under concurrent editors — see Save.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/williamthazard/react-test/internal/quiz"
)

// MaxPayloadBytes caps the serialized definition. It sits under MongoDB's
// 16 MB document limit with slack for the wrapper fields, and the SQL
// driver enforces the same cap for parity. Inline images count against it.
const MaxPayloadBytes = 15 << 20

// ErrPayloadTooLarge means the serialized definition exceeds the store's
// document limit. The save fails whole; nothing is ever truncated.
var ErrPayloadTooLarge = errors.New("test definition payload too large")

// DocumentHandle identifies the stored document within its driver.
type DocumentHandle string

// Store is the minimal contract a driver implements. Probe reports the
// first document the backing listing returns, if any.
type Store interface {
	Probe(ctx context.Context) (DocumentHandle, bool, error)
	Get(ctx context.Context, h DocumentHandle) (*quiz.TestDefinition, error)
	Create(ctx context.Context, def *quiz.TestDefinition) (DocumentHandle, error)
	Update(ctx context.Context, h DocumentHandle, def *quiz.TestDefinition) error
}

// Save upserts the definition: probe, then update the existing document or
// create the first one. There is no atomic upsert primitive across the
// supported drivers, so two concurrent first saves can both probe absent
// and both create; after that Probe deterministically picks the first
// listed document. Single-editor workflows are assumed.
func Save(ctx context.Context, s Store, def *quiz.TestDefinition) error {
	h, ok, err := s.Probe(ctx)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	if ok {
		return s.Update(ctx, h, def)
	}
	if _, err := s.Create(ctx, def); err != nil {
		return err
	}
	return nil
}

// Load fetches the current definition, or nil when no document has ever
// been created. Callers substitute the built-in default in that case.
func Load(ctx context.Context, s Store) (*quiz.TestDefinition, error) {
	h, ok, err := s.Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return s.Get(ctx, h)
}

// encodePayload serializes a definition and enforces the size cap.
func encodePayload(def *quiz.TestDefinition) (string, error) {
	buf, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("encode definition: %w", err)
	}
	if len(buf) > MaxPayloadBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(buf))
	}
	return string(buf), nil
}

// decodePayload parses a stored payload, accepting the legacy bare-array
// shape alongside the current wrapped document.
func decodePayload(payload string) (*quiz.TestDefinition, error) {
	return quiz.Decode([]byte(payload))
}
