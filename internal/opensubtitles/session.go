package opensubtitles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"subseek/internal/fingerprint"
	"subseek/internal/logging"
)

const (
	// DefaultUserAgent is the agent string the catalog accepts for testing.
	DefaultUserAgent = "OS Test User Agent"
	// DefaultLanguageCode is the login language hint.
	DefaultLanguageCode = "eng"

	methodLogIn           = "LogIn"
	methodSearchSubtitles = "SearchSubtitles"
	methodLogOut          = "LogOut"

	statusOK     = "200 OK"
	allLanguages = "all"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LanguagePolicy decides which language code accompanies a login.
type LanguagePolicy string

const (
	// LanguagePolicyAlways sends the configured code on every login.
	LanguagePolicyAlways LanguagePolicy = "always"
	// LanguagePolicyAnonymousEmpty sends "" when the login name is empty.
	LanguagePolicyAnonymousEmpty LanguagePolicy = "anonymous-empty"
)

// Options configures a Session.
type Options struct {
	UserAgent      string
	LanguageCode   string
	LanguagePolicy LanguagePolicy
	Logger         *slog.Logger
}

// Session holds one catalog login. It is not safe for concurrent use.
type Session struct {
	invoker     Invoker
	opts        Options
	logger      *slog.Logger
	state       State
	token       string
	closeCalled bool
}

// NewSession returns an unauthenticated session that sends calls through invoker.
func NewSession(invoker Invoker, opts Options) *Session {
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.LanguageCode == "" {
		opts.LanguageCode = DefaultLanguageCode
	}
	if opts.LanguagePolicy == "" {
		opts.LanguagePolicy = LanguagePolicyAlways
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		invoker: invoker,
		opts:    opts,
		logger:  logging.NewComponentLogger(logger, "opensubtitles"),
		state:   StateUnauthenticated,
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Token returns the session token, or "" unless authenticated.
func (s *Session) Token() string {
	return s.token
}

func (s *Session) languageFor(login string) string {
	if s.opts.LanguagePolicy == LanguagePolicyAnonymousEmpty && login == "" {
		return ""
	}
	return s.opts.LanguageCode
}

// LogIn authenticates the session. An empty login requests an anonymous
// session. On failure the session stays unauthenticated.
func (s *Session) LogIn(ctx context.Context, login, password string) error {
	switch s.state {
	case StateAuthenticated:
		return ErrAlreadyAuthenticated
	case StateClosed:
		return ErrSessionClosed
	}

	result, err := s.invoker.Invoke(ctx, methodLogIn, login, password, s.languageFor(login), s.opts.UserAgent)
	if err != nil {
		return err
	}
	envelope, err := checkStatus(methodLogIn, result)
	if err != nil {
		return err
	}
	token, _ := envelope["token"].(string)
	if token == "" {
		return &NoTokenKeyError{Envelope: result}
	}

	s.token = token
	s.state = StateAuthenticated
	s.logger.Info("catalog session opened",
		logging.Bool("anonymous", login == ""),
		logging.String("language", s.languageFor(login)))
	return nil
}

// SearchSubtitles asks the catalog for subtitles matching fp. An empty
// answer yields no matches and no error.
func (s *Session) SearchSubtitles(ctx context.Context, fp fingerprint.Fingerprint) ([]Match, error) {
	return s.SearchBatch(ctx, fp)
}

// SearchBatch sends one query per fingerprint in a single call and returns
// the combined matches.
func (s *Session) SearchBatch(ctx context.Context, fps ...fingerprint.Fingerprint) ([]Match, error) {
	switch s.state {
	case StateUnauthenticated:
		return nil, ErrNotAuthenticated
	case StateClosed:
		return nil, ErrSessionClosed
	}
	if len(fps) == 0 {
		return nil, ErrInvalidFingerprint
	}

	queries := make([]any, 0, len(fps))
	for _, fp := range fps {
		if fp.Size == 0 || strings.TrimSpace(fp.Digest) == "" {
			return nil, ErrInvalidFingerprint
		}
		queries = append(queries, map[string]any{
			// The catalog requires a double here.
			"moviebytesize": float64(fp.Size),
			"moviehash":     fp.Digest,
			"sublanguageid": allLanguages,
		})
	}

	result, err := s.invoker.Invoke(ctx, methodSearchSubtitles, s.token, queries)
	if err != nil {
		return nil, err
	}
	if isEmptyEnvelope(result) {
		s.logger.Debug("search answered with an empty envelope", logging.Int("queries", len(queries)))
		return nil, nil
	}
	envelope, err := checkStatus(methodSearchSubtitles, result)
	if err != nil {
		return nil, err
	}
	data, ok := envelope["data"]
	if !ok {
		return nil, &NoDataKeyError{Envelope: result}
	}
	matches, err := decodeMatches(data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("search finished",
		logging.Int("queries", len(queries)),
		logging.Int("matches", len(matches)))
	return matches, nil
}

// LogOut releases the server-side session. It is a no-op unless the session
// is authenticated. The session becomes Closed and forgets its token even
// when the call fails; transport failures and faults are returned. The
// answer itself is ignored.
func (s *Session) LogOut(ctx context.Context) error {
	if s.state != StateAuthenticated {
		return nil
	}
	token := s.token
	s.token = ""
	s.state = StateClosed

	if _, err := s.invoker.Invoke(ctx, methodLogOut, token); err != nil {
		return err
	}
	s.logger.Info("catalog session closed")
	return nil
}

// Close retires the session, logging out first when authenticated. Only the
// first call does any work. A logout failure is logged and returned.
func (s *Session) Close(ctx context.Context) error {
	if s.closeCalled {
		return nil
	}
	s.closeCalled = true
	if s.state != StateAuthenticated {
		s.state = StateClosed
		return nil
	}
	if err := s.LogOut(ctx); err != nil {
		logging.WarnWithContext(s.logger, "catalog logout failed", "session_logout_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the server will expire the session on its own"),
			logging.String(logging.FieldImpact, "server-side session left open until it times out"),
		)
		return err
	}
	return nil
}

// With opens a session, runs fn, and closes the session on every exit path,
// panics included. It returns the login or fn error. A logout failure is
// logged by Close and does not replace fn's outcome.
func With(ctx context.Context, invoker Invoker, opts Options, login, password string, fn func(*Session) error) error {
	session := NewSession(invoker, opts)
	defer func() {
		// Logout must still be attempted when ctx was cancelled mid-call.
		_ = session.Close(context.WithoutCancel(ctx))
	}()

	if err := session.LogIn(ctx, login, password); err != nil {
		return err
	}
	return fn(session)
}

func checkStatus(method string, result any) (map[string]any, error) {
	envelope, ok := result.(map[string]any)
	if !ok {
		return nil, &NoStatusKeyError{Method: method, Envelope: result}
	}
	status, ok := envelope["status"]
	if !ok {
		return nil, &NoStatusKeyError{Method: method, Envelope: result}
	}
	if text, _ := status.(string); text != statusOK {
		return nil, &BadStatusError{Method: method, Status: status}
	}
	return envelope, nil
}

func isEmptyEnvelope(result any) bool {
	switch v := result.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	}
	return false
}

func decodeMatches(data any) ([]Match, error) {
	switch v := data.(type) {
	case nil, bool:
		// The catalog answers data=false when nothing matched.
		return nil, nil
	case []any:
		matches := make([]Match, 0, len(v))
		for _, item := range v {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("opensubtitles: SearchSubtitles data holds %T, want struct", item)
			}
			matches = append(matches, Match(record))
		}
		return matches, nil
	default:
		return nil, fmt.Errorf("opensubtitles: SearchSubtitles data has unexpected type %T", data)
	}
}
