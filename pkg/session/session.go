// Package session owns one user's wizard run: the profile state and its
// reducer, the persistence syncer, the generation pipeline, and the
// step navigator. All profile mutations flow through Dispatch so every
// change schedules a debounced save.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"essaypilot/pkg/pipeline"
	"essaypilot/pkg/profile"
	"essaypilot/pkg/store"
	"essaypilot/pkg/syncer"
	"essaypilot/pkg/wizard"
)

// Session is the single-owner aggregate for one wizard run.
type Session struct {
	syncer    *syncer.Syncer
	runner    *pipeline.Runner
	nav       *wizard.Navigator
	positions wizard.PositionStore
	logger    *zap.Logger

	mu           sync.Mutex
	profile      profile.Profile
	identity     string
	essayAutoRan bool
}

// New creates a session. positions and logger may be nil; onSaveError
// receives non-fatal background save failures.
func New(docs store.DocumentStore, identities store.IdentityProvider, provider pipeline.Provider, positions wizard.PositionStore, logger *zap.Logger, onSaveError func(error)) (s *Session) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s = &Session{
		syncer:    syncer.New(docs, identities, logger, onSaveError),
		runner:    pipeline.NewRunner(provider, logger),
		nav:       wizard.NewNavigator(),
		positions: positions,
		logger:    logger,
		profile:   profile.New(),
	}
	return s
}

// Syncer exposes the persistence syncer, mainly so callers can tune the
// debounce window in tests.
func (s *Session) Syncer() (sy *syncer.Syncer) {
	sy = s.syncer
	return sy
}

// Start bootstraps the identity, hydrates the profile from the store,
// and restores the persisted step position. A load failure is fatal:
// the session is unusable without its data.
func (s *Session) Start(ctx context.Context) (err error) {
	s.identity, err = s.syncer.Bootstrap(ctx)
	if err != nil {
		return err
	}

	var p profile.Profile
	p, _, err = s.syncer.Load(ctx)
	if err != nil {
		err = errors.Wrap(err, "session load failed")
		return err
	}

	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()

	if s.positions != nil {
		var index int
		index, err = s.positions.LoadPosition(ctx, s.identity)
		if err != nil {
			// Resuming at the wrong step is recoverable; losing the
			// profile is not. Start from the beginning.
			s.logger.Warn("failed to restore step position", zap.Error(err))
			err = nil
			index = 0
		}
		s.nav.SetIndex(index)
	}

	// A persisted position can outrun a profile edited elsewhere;
	// re-validate it against the gates.
	s.nav.Goto(s.nav.Current(), s.Profile())
	s.persistPosition(ctx)

	return err
}

// Profile returns a snapshot of the current profile.
func (s *Session) Profile() (p profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = s.profile
	return p
}

// Dispatch applies an action through the reducer and schedules a
// debounced save of the resulting state.
func (s *Session) Dispatch(action profile.Action) {
	s.mu.Lock()
	s.profile = profile.Reduce(s.profile, action)
	p := s.profile
	s.mu.Unlock()

	s.syncer.NoteChange(p)
}

// CurrentStep returns the step the navigator is on.
func (s *Session) CurrentStep() (step wizard.StepID) {
	step = s.nav.Current()
	return step
}

// CanAdvance reports whether the current step's gate passes.
func (s *Session) CanAdvance() (ok bool) {
	ok = s.nav.CanAdvance(s.Profile())
	return ok
}

// Next advances one step if the current gate passes.
func (s *Session) Next(ctx context.Context) (step wizard.StepID, moved bool) {
	step, moved = s.nav.Next(s.Profile())
	if moved {
		s.persistPosition(ctx)
	}
	return step, moved
}

// Back moves one step back. Always permitted.
func (s *Session) Back(ctx context.Context) (step wizard.StepID) {
	step = s.nav.Back()
	s.persistPosition(ctx)
	return step
}

// Goto navigates to target, redirecting to the first form step when a
// prerequisite gate fails.
func (s *Session) Goto(ctx context.Context, target wizard.StepID) (landed wizard.StepID) {
	landed = s.nav.Goto(target, s.Profile())
	s.persistPosition(ctx)
	return landed
}

// EnterTopics returns topic suggestions for the profile, generating
// them when none are cached or when force is set. A completed request
// is discarded if a newer topics request was issued meanwhile.
func (s *Session) EnterTopics(ctx context.Context, force bool) (suggestions map[string][]profile.TopicIdea, err error) {
	p := s.Profile()
	if !force && len(p.TopicSuggestions) > 0 {
		suggestions = p.TopicSuggestions
		return suggestions, err
	}

	var seq uint64
	suggestions, seq, err = s.runner.GenerateTopics(ctx, p)
	if err != nil {
		return suggestions, err
	}

	if s.runner.IsCurrent(pipeline.StageTopics, seq) {
		s.Dispatch(profile.SetTopicSuggestions{Suggestions: suggestions})
	}
	return suggestions, err
}

// SelectTopic records the chosen prompt and idea. Re-selection replaces
// the previous choice.
func (s *Session) SelectTopic(promptNumber string, idea profile.TopicIdea) {
	s.Dispatch(profile.SetSelectedTopic{Topic: &profile.SelectedTopic{
		Prompt:          profile.CommonAppPrompts[promptNumber],
		IdeaTitle:       idea.Title,
		IdeaDescription: idea.Description,
	}})
}

// EnterFollowup returns the follow-up questions for the selected topic,
// generating them when none exist or when force is set. Generation
// never fails; a provider error yields the fixed fallback list.
func (s *Session) EnterFollowup(ctx context.Context, force bool) (questions []profile.FollowUpQuestion, err error) {
	p := s.Profile()
	if p.SelectedTopic == nil {
		err = errors.New("no topic selected")
		return questions, err
	}
	if !force && len(p.FollowUpQuestions) > 0 {
		questions = p.FollowUpQuestions
		return questions, err
	}

	var seq uint64
	questions, seq = s.runner.GenerateFollowUpQuestions(ctx, p, *p.SelectedTopic)

	if s.runner.IsCurrent(pipeline.StageFollowup, seq) {
		s.Dispatch(profile.SetFollowUpQuestions{Questions: questions})
	}
	return questions, err
}

// AnswerFollowUp records the answer for a question ID.
func (s *Session) AnswerFollowUp(id, answer string) {
	s.Dispatch(profile.SetFollowUpResponse{ID: id, Answer: answer})
}

// EnterResult implements the result step's entry semantics: an essay
// stored from a prior session suppresses the auto-trigger, and the
// auto-trigger fires at most once per session. Explicit regeneration
// goes through RegenerateEssay.
func (s *Session) EnterResult(ctx context.Context) (essay string, generated bool, err error) {
	p := s.Profile()
	if p.GeneratedEssay != "" {
		essay = p.GeneratedEssay
		return essay, generated, err
	}

	s.mu.Lock()
	autoRan := s.essayAutoRan
	s.essayAutoRan = true
	s.mu.Unlock()

	if autoRan {
		return essay, generated, err
	}

	essay, err = s.RegenerateEssay(ctx)
	if err != nil {
		return essay, generated, err
	}

	generated = true
	return essay, generated, err
}

// RegenerateEssay runs essay generation and replaces the stored essay
// wholesale. The result is discarded if a newer essay request was
// issued while this one was in flight.
func (s *Session) RegenerateEssay(ctx context.Context) (essay string, err error) {
	var seq uint64
	essay, seq, err = s.runner.GenerateEssay(ctx, s.Profile())
	if err != nil {
		return essay, err
	}

	if s.runner.IsCurrent(pipeline.StageEssay, seq) {
		s.Dispatch(profile.SetGeneratedEssay{Essay: essay})
	} else {
		s.logger.Info("discarding stale essay result")
	}
	return essay, err
}

// RegenerateTopics forces fresh topic suggestions, replacing the cache.
func (s *Session) RegenerateTopics(ctx context.Context) (suggestions map[string][]profile.TopicIdea, err error) {
	suggestions, err = s.EnterTopics(ctx, true)
	return suggestions, err
}

// GenerateSupplemental produces a school-specific essay and appends it
// to the profile.
func (s *Session) GenerateSupplemental(ctx context.Context, essayPrompt string, wordCount int) (result profile.SupplementalEssay, err error) {
	var seq uint64
	result, seq, err = s.runner.GenerateSupplemental(ctx, s.Profile(), essayPrompt, wordCount)
	if err != nil {
		return result, err
	}

	if s.runner.IsCurrent(pipeline.StageSupplemental, seq) {
		s.Dispatch(profile.AddSupplementalEssay{Essay: result})
	}
	return result, err
}

// Reset restores the empty profile, clearing entered fields and every
// generated artifact, and rewinds the wizard to the first step. The
// empty state is persisted immediately.
func (s *Session) Reset(ctx context.Context) (err error) {
	s.Dispatch(profile.ResetProfile{})
	s.nav.SetIndex(0)
	s.persistPosition(ctx)

	s.mu.Lock()
	s.essayAutoRan = false
	s.mu.Unlock()

	err = s.syncer.Flush(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to persist reset")
		return err
	}
	return err
}

// Flush writes any pending profile state immediately.
func (s *Session) Flush(ctx context.Context) (err error) {
	err = s.syncer.Flush(ctx)
	return err
}

// Close cancels pending save timers. Call on teardown so no write
// fires after the session ends.
func (s *Session) Close() {
	s.syncer.Close()
}

// persistPosition saves the step index; failures are logged, never
// surfaced, because losing the resume point is cosmetic.
func (s *Session) persistPosition(ctx context.Context) {
	if s.positions == nil || s.identity == "" {
		return
	}
	err := s.positions.SavePosition(ctx, s.identity, s.nav.Index())
	if err != nil {
		s.logger.Warn("failed to persist step position", zap.Error(err))
	}
}
