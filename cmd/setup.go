package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"essaypilot/pkg/config"
	"essaypilot/pkg/llm"
	"essaypilot/pkg/session"
	"essaypilot/pkg/store"
	"essaypilot/pkg/wizard"
)

// buildSession wires a session from the configuration: document store
// (Redis when configured, local files otherwise), anonymous identity,
// and the OpenAI client. The returned cleanup closes what was opened.
func buildSession() (sess *session.Session, cfg config.Config, cleanup func(), err error) {
	cleanup = func() {}

	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return sess, cfg, cleanup, err
	}

	var stateDir string
	stateDir, err = cfg.GetStateDir()
	if err != nil {
		return sess, cfg, cleanup, err
	}

	logger := newLogger()

	var docs store.DocumentStore
	var positions wizard.PositionStore
	var closers []func()

	if cfg.RedisURL != "" {
		var rs *store.RedisStore
		rs, err = store.NewRedisStore(cfg.RedisURL)
		if err != nil {
			err = errors.Wrap(err, "failed to connect to redis")
			return sess, cfg, cleanup, err
		}
		closers = append(closers, func() { _ = rs.Close() })
		docs = rs
		positions = rs
	} else {
		var fs *store.FileStore
		fs, err = store.NewFileStore(filepath.Join(stateDir, "store"))
		if err != nil {
			return sess, cfg, cleanup, err
		}
		docs = fs
		positions = fs
	}

	identities := store.NewAnonymousProvider(stateDir)

	client := llm.NewClient(cfg.OpenAIAPIKey, cfg.GetModel())

	sess = session.New(docs, identities, client, positions, logger, reportSaveError)

	cleanup = func() {
		sess.Close()
		for _, closer := range closers {
			closer()
		}
		_ = logger.Sync()
	}

	return sess, cfg, cleanup, err
}

// newLogger returns a development logger when verbose, otherwise a
// no-op logger. Background save failures still reach the user through
// reportSaveError.
func newLogger() (logger *zap.Logger) {
	if getVerbose() {
		logger, _ = zap.NewDevelopment()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// reportSaveError tells the user a background save failed. Edits stay
// in memory and are retried on the next change, so work is not lost
// while the wizard is open.
func reportSaveError(err error) {
	fmt.Fprintf(os.Stderr, "\nWarning: failed to save progress: %v\n", err)
	fmt.Fprintln(os.Stderr, "Your answers are kept in memory and will be retried on the next change.")
}

func promptForInput(label string) (input string) {
	fmt.Printf("%s: ", label)

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		input = strings.TrimSpace(scanner.Text())
	}

	return input
}

// promptForInputDefault shows the current value and keeps it when the
// user just presses enter.
func promptForInputDefault(label, current string) (input string) {
	if current == "" {
		input = promptForInput(label)
		return input
	}

	fmt.Printf("%s [%s]: ", label, current)

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		input = strings.TrimSpace(scanner.Text())
	}
	if input == "" {
		input = current
	}

	return input
}

// promptForChoice prompts until the user picks one of options, by
// number or by exact text. Empty input keeps current when it is set.
func promptForChoice(label string, options []string, current string) (choice string) {
	fmt.Printf("%s:\n", label)
	for i, option := range options {
		marker := " "
		if option == current {
			marker = "*"
		}
		fmt.Printf("  %s %d. %s\n", marker, i+1, option)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Choose: ")
		if !scanner.Scan() {
			choice = current
			return choice
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" && current != "" {
			choice = current
			return choice
		}

		for i, option := range options {
			if text == fmt.Sprintf("%d", i+1) || strings.EqualFold(text, option) {
				choice = option
				return choice
			}
		}
		fmt.Println("Please enter a number from the list.")
	}
}

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Printf("%s ", s.message)
		for {
			select {
			case <-s.stop:
				// Clear the line and ensure cursor is at start of new line
				fmt.Printf("\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Printf("\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// withSpinner runs fn behind a spinner unless verbose output is on.
func withSpinner(message string, fn func() error) (err error) {
	if getVerbose() {
		fmt.Println(message)
		err = fn()
		return err
	}

	sp := newSpinner(message)
	sp.start()
	err = fn()
	sp.stopSpinner()
	return err
}
