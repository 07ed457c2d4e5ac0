// Package service ties role resolution, the content store, the grading
// engine and mail delivery together behind the four boundary operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/williamthazard/react-test/internal/access"
	"github.com/williamthazard/react-test/internal/grading"
	"github.com/williamthazard/react-test/internal/mail"
	"github.com/williamthazard/react-test/internal/quiz"
	"github.com/williamthazard/react-test/internal/retry"
	"github.com/williamthazard/react-test/internal/store"
)

type Service struct {
	codes    access.Config
	gate     *access.Checker
	store    store.Store
	engine   *grading.Engine
	sender   mail.Sender
	resultTo string

	contentRetry retry.Config
	deliverRetry retry.Config
}

type Options struct {
	Codes        access.Config
	Store        store.Store
	Sender       mail.Sender
	ResultTo     string
	ContentRetry retry.Config
	DeliverRetry retry.Config
}

func New(opts Options) *Service {
	return &Service{
		codes:        opts.Codes,
		gate:         access.NewChecker(nil),
		store:        opts.Store,
		engine:       grading.NewEngine(),
		sender:       opts.Sender,
		resultTo:     opts.ResultTo,
		contentRetry: opts.ContentRetry,
		deliverRetry: opts.DeliverRetry,
	}
}

// VerifyResult is the verification response with the test definition
// preloaded, so the happy path never needs a second load round trip.
type VerifyResult struct {
	Role    access.Role
	Content *quiz.TestDefinition
}

// Verify resolves the code and, on success, attaches the current
// definition. The preload performs exactly one store read — no inner
// retry; a caller retrying the whole verify already covers transients —
// and degrades to the built-in default rather than failing the verify.
func (s *Service) Verify(ctx context.Context, code string) (VerifyResult, error) {
	role, err := access.Resolve(s.codes, code)
	if err != nil {
		return VerifyResult{}, err
	}
	def, err := store.Load(ctx, s.store)
	if err != nil {
		log.Printf("preload: falling back to default definition: %v", err)
		def = nil
	}
	if def == nil {
		def = quiz.DefaultDefinition()
	}
	return VerifyResult{Role: role, Content: def}, nil
}

// Load returns the current definition for any valid role, retrying the
// store with the content budget. An empty store yields the default.
func (s *Service) Load(ctx context.Context, code string) (*quiz.TestDefinition, error) {
	role, err := access.Resolve(s.codes, code)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Require(role, access.PermViewQuestions); err != nil {
		return nil, err
	}
	return s.loadFresh(ctx)
}

// Save persists a full definition. Editor-only. The store performs the
// probe-then-create-or-update sequence; an oversized payload fails
// without retry, nothing is truncated.
func (s *Service) Save(ctx context.Context, code string, def *quiz.TestDefinition) error {
	role, err := access.Resolve(s.codes, code)
	if err != nil {
		return err
	}
	if err := s.gate.Require(role, access.PermSaveQuestions); err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}
	return retry.Do(ctx, s.contentRetry, func() error {
		err := store.Save(ctx, s.store, def)
		if errors.Is(err, store.ErrPayloadTooLarge) {
			return retry.Permanent(err)
		}
		return err
	})
}

// Submit grades the answers against a freshly loaded definition — never
// against anything the client holds — and delivers the report.
func (s *Service) Submit(ctx context.Context, code string, answers grading.AnswerSet) (grading.Report, error) {
	role, err := access.Resolve(s.codes, code)
	if err != nil {
		return grading.Report{}, err
	}
	if err := s.gate.Require(role, access.PermSubmitResult); err != nil {
		return grading.Report{}, err
	}
	def, err := s.loadFresh(ctx)
	if err != nil {
		return grading.Report{}, err
	}
	rep := s.engine.Grade(def, answers)
	if err := s.deliver(ctx, rep); err != nil {
		return grading.Report{}, err
	}
	return rep, nil
}

func (s *Service) loadFresh(ctx context.Context) (*quiz.TestDefinition, error) {
	var def *quiz.TestDefinition
	err := retry.Do(ctx, s.contentRetry, func() error {
		var err error
		def, err = store.Load(ctx, s.store)
		return err
	})
	if err != nil {
		return nil, err
	}
	if def == nil {
		def = quiz.DefaultDefinition()
	}
	return def, nil
}

func (s *Service) deliver(ctx context.Context, rep grading.Report) error {
	if s.resultTo == "" {
		return mail.ErrNotConfigured
	}
	return retry.Do(ctx, s.deliverRetry, func() error {
		err := s.sender.Send(s.resultTo, rep.Subject(), rep.RenderText())
		if errors.Is(err, mail.ErrNotConfigured) {
			return retry.Permanent(err)
		}
		return err
	})
}
