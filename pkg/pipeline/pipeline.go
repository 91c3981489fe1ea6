// Package pipeline runs the chained generation stages: topic
// suggestions, follow-up questions, and the essay itself. Each stage
// assembles a prompt from the profile, invokes the generation provider,
// and parses the result. Per-stage sequence numbers let callers discard
// responses superseded by a newer request.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"essaypilot/pkg/llm"
	"essaypilot/pkg/profile"
)

// Stage identifies one generation pipeline stage.
type Stage string

// Pipeline stages.
const (
	StageTopics       Stage = "topics"
	StageFollowup     Stage = "followup"
	StageEssay        Stage = "essay"
	StageSupplemental Stage = "supplemental"
)

// Topic-suggestion rate-limit retry policy.
const (
	// TopicMaxAttempts bounds topic-suggestion calls per request.
	TopicMaxAttempts = 3
	// TopicRetryWait is the fixed wait between rate-limited attempts.
	TopicRetryWait = 5 * time.Second
)

// FallbackQuestions is returned when follow-up question generation
// fails; the stage is non-fatal by design.
//
//nolint:gochecknoglobals // Static fallback content
var FallbackQuestions = []string{
	"What specific moment or experience inspired this topic?",
	"How has this experience changed your perspective?",
	"What concrete details or examples can you share about this story?",
	"How does this topic relate to your future goals?",
	"What did you learn about yourself through this experience?",
}

// Provider is the external generation call.
type Provider interface {
	Complete(ctx context.Context, messages []llm.Message, jsonOutput bool) (text string, err error)
}

// Runner executes pipeline stages against a provider.
type Runner struct {
	provider Provider
	logger   *zap.Logger

	// sleep is swapped out in tests to virtualize the retry wait.
	sleep func(time.Duration)

	retryWait   time.Duration
	maxAttempts int

	mu  sync.Mutex
	seq map[Stage]uint64
}

// NewRunner creates a stage runner. logger may be nil.
func NewRunner(provider Provider, logger *zap.Logger) (r *Runner) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r = &Runner{
		provider:    provider,
		logger:      logger,
		sleep:       time.Sleep,
		retryWait:   TopicRetryWait,
		maxAttempts: TopicMaxAttempts,
	}
	return r
}

// SetSleep overrides the retry wait function. Used in tests.
func (r *Runner) SetSleep(sleep func(time.Duration)) {
	r.sleep = sleep
}

// Begin issues the next sequence number for a stage. A stage result is
// only applied when its sequence equals the stage's latest issued, so a
// slow response from a superseded request is discarded instead of
// overwriting the newer result.
func (r *Runner) Begin(stage Stage) (seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq == nil {
		r.seq = map[Stage]uint64{}
	}
	r.seq[stage]++
	seq = r.seq[stage]
	return seq
}

// IsCurrent reports whether seq is still the latest issued for stage.
func (r *Runner) IsCurrent(stage Stage, seq uint64) (current bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current = r.seq[stage] == seq
	return current
}

// IsRateLimited reports whether err is (or wraps) a provider rate-limit
// error, so the UI can say "rate limited, try again later" instead of a
// generic failure.
func IsRateLimited(err error) (limited bool) {
	var rateLimit *llm.RateLimitError
	limited = errors.As(err, &rateLimit)
	return limited
}

// GenerateTopics produces two essay ideas for each Common App prompt.
// Rate-limit failures are retried with a fixed wait; parse failures and
// other errors are hard failures the caller surfaces with a retry
// affordance.
func (r *Runner) GenerateTopics(ctx context.Context, p profile.Profile) (suggestions map[string][]profile.TopicIdea, seq uint64, err error) {
	seq = r.Begin(StageTopics)
	messages := llm.BuildTopicMessages(p)

	var raw string
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		raw, err = r.provider.Complete(ctx, messages, true)
		if err == nil {
			break
		}

		var rateLimit *llm.RateLimitError
		if !errors.As(err, &rateLimit) {
			err = errors.Wrap(err, "topic suggestion failed")
			return suggestions, seq, err
		}

		if attempt == r.maxAttempts {
			err = errors.Wrapf(err, "topic suggestion rate limited after %d attempts", r.maxAttempts)
			return suggestions, seq, err
		}

		wait := r.retryWait
		if rateLimit.RetryAfter > wait {
			wait = rateLimit.RetryAfter
		}
		r.logger.Info("topic suggestion rate limited, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait))
		r.sleep(wait)
	}

	suggestions, err = llm.DecodeTopicSuggestions(raw)
	if err != nil {
		err = errors.Wrap(err, "topic suggestion returned malformed content")
		return suggestions, seq, err
	}

	return suggestions, seq, err
}

// GenerateFollowUpQuestions produces 5-7 reflection questions for the
// selected topic, assigning stable position-based IDs. Any failure
// falls back to the fixed question list; this stage never returns an
// error.
func (r *Runner) GenerateFollowUpQuestions(ctx context.Context, p profile.Profile, topic profile.SelectedTopic) (questions []profile.FollowUpQuestion, seq uint64) {
	seq = r.Begin(StageFollowup)
	messages := llm.BuildFollowUpMessages(p, topic.Prompt, topic.IdeaTitle)

	raw, err := r.provider.Complete(ctx, messages, true)
	if err != nil {
		r.logger.Warn("follow-up generation failed, using fallback questions", zap.Error(err))
		questions = withQuestionIDs(FallbackQuestions)
		return questions, seq
	}

	texts, err := llm.DecodeQuestions(raw)
	if err != nil {
		r.logger.Warn("follow-up response unparseable, using fallback questions", zap.Error(err))
		questions = withQuestionIDs(FallbackQuestions)
		return questions, seq
	}

	questions = withQuestionIDs(texts)
	return questions, seq
}

// GenerateEssay produces the full essay from the profile, the selected
// topic, and the answered follow-up questions. Failures propagate; the
// caller offers an explicit regenerate.
func (r *Runner) GenerateEssay(ctx context.Context, p profile.Profile) (essay string, seq uint64, err error) {
	seq = r.Begin(StageEssay)

	if p.SelectedTopic == nil {
		err = errors.New("no topic selected")
		return essay, seq, err
	}

	messages := llm.BuildEssayMessages(p, *p.SelectedTopic, answeredQuestions(p))

	essay, err = r.provider.Complete(ctx, messages, false)
	if err != nil {
		err = errors.Wrap(err, "essay generation failed")
		return essay, seq, err
	}

	return essay, seq, err
}

// GenerateSupplemental produces a school-specific supplemental essay
// for the given prompt and target word count.
func (r *Runner) GenerateSupplemental(ctx context.Context, p profile.Profile, essayPrompt string, wordCount int) (result profile.SupplementalEssay, seq uint64, err error) {
	seq = r.Begin(StageSupplemental)
	messages := llm.BuildSupplementalMessages(p, essayPrompt, wordCount)

	var essay string
	essay, err = r.provider.Complete(ctx, messages, false)
	if err != nil {
		err = errors.Wrap(err, "supplemental essay generation failed")
		return result, seq, err
	}

	result = profile.SupplementalEssay{
		Prompt:         essayPrompt,
		WordCount:      wordCount,
		GeneratedEssay: essay,
	}
	return result, seq, err
}

// withQuestionIDs assigns stable position-based identifiers.
func withQuestionIDs(texts []string) (questions []profile.FollowUpQuestion) {
	questions = make([]profile.FollowUpQuestion, len(texts))
	for i, text := range texts {
		questions[i] = profile.FollowUpQuestion{
			ID:   fmt.Sprintf("q%d", i+1),
			Text: text,
		}
	}
	return questions
}

// answeredQuestions collects question/answer pairs with non-empty
// trimmed answers, in question order.
func answeredQuestions(p profile.Profile) (answers []llm.QA) {
	for _, q := range p.FollowUpQuestions {
		answer := strings.TrimSpace(p.FollowUpResponses[q.ID])
		if answer == "" {
			continue
		}
		answers = append(answers, llm.QA{Question: q.Text, Answer: answer})
	}
	return answers
}
