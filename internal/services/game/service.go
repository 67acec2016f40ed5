package game

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KirkDiggler/mindmeld/internal/common/clock"
	"github.com/KirkDiggler/mindmeld/internal/models"
	playerRepo "github.com/KirkDiggler/mindmeld/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/mindmeld/internal/repositories/session"
)

// service implements the Service interface
type service struct {
	registry  sessionRepo.Registry
	directory playerRepo.Directory
	clock     clock.Clock
	adminIDs  map[string]bool
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Registry == nil {
		return nil, ErrNilRegistry
	}

	if cfg.Directory == nil {
		return nil, ErrNilDirectory
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	adminIDs := make(map[string]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		adminIDs[id] = true
	}

	return &service{
		registry:  cfg.Registry,
		directory: cfg.Directory,
		clock:     cfg.Clock,
		adminIDs:  adminIDs,
	}, nil
}

// normalizeAnswer upper-cases the first letter of the answer and leaves the
// rest untouched, so "fish" and "Fish" collide while "FISH" and "Fish" stay
// distinct. Uniqueness and equality checks both run on the normalized form.
func normalizeAnswer(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError && size <= 1 {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

// resolvePlayer resolves the acting player, registering them on first
// contact, and re-attaches their render target when the action carries one
func (s *service) resolvePlayer(ctx context.Context, playerID, playerName, renderTarget string) (*models.Player, error) {
	p, err := s.directory.GetOrCreate(ctx, &playerRepo.GetOrCreateInput{
		PlayerID:   playerID,
		PlayerName: playerName,
	})
	if err != nil {
		return nil, err
	}

	if renderTarget != "" {
		p.Lock()
		p.RenderTarget = renderTarget
		p.Unlock()
	}

	return p, nil
}

// lookup resolves the session for a code and locks it. Callers must
// Unlock. A session that was removed between the registry lookup and the
// lock acquisition reports not found.
func (s *service) lookup(ctx context.Context, sessionCode string) (*models.Session, error) {
	sess, err := s.registry.Get(ctx, &sessionRepo.GetInput{Code: sessionCode})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	sess.Lock()
	if sess.Closed {
		sess.Unlock()
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// leaveCurrent removes the player from whatever session they are in, so a
// player is never a member of two sessions at once. The refreshed views for
// the old session's remaining members are returned for the caller to carry
// along with its own output.
func (s *service) leaveCurrent(ctx context.Context, p *models.Player) ([]*ViewUpdate, error) {
	p.Lock()
	oldCode := p.SessionCode
	p.Unlock()

	if oldCode == "" {
		return nil, nil
	}

	leaveOut, err := s.LeaveSession(ctx, &LeaveSessionInput{Code: oldCode, PlayerID: p.ID})
	if err != nil {
		// The old session may have raced away; the player is free either
		// way
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrPlayerNotInSession) {
			return nil, nil
		}
		return nil, err
	}

	var carried []*ViewUpdate
	for _, u := range leaveOut.Updates {
		if u.PlayerID != p.ID {
			carried = append(carried, u)
		}
	}

	return carried, nil
}

// CreateSession opens a new session with the acting player as owner and
// sole member
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, input.PlayerName, input.RenderTarget)
	if err != nil {
		return nil, err
	}

	// Opening a new session while still in another one leaves the old
	// session first
	carried, err := s.leaveCurrent(ctx, p)
	if err != nil {
		return nil, err
	}

	sess, err := s.registry.Create(ctx, &sessionRepo.CreateInput{Owner: p})
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	return &CreateSessionOutput{
		Code:    sess.Code,
		Updates: append(carried, lobbyUpdates(sess)...),
	}, nil
}

// JoinSession adds a player to a lobby session
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, input.PlayerName, input.RenderTarget)
	if err != nil {
		return nil, err
	}

	sessionCode := strings.ToUpper(strings.TrimSpace(input.Code))

	sess, err := s.lookup(ctx, sessionCode)
	if err != nil {
		return nil, err
	}

	if sess.Started {
		sess.Unlock()
		return nil, ErrSessionAlreadyStarted
	}

	if isMember(sess, p.ID) {
		// Already a member; drop out of code-entry mode and re-render
		// the lobby
		p.Lock()
		p.AwaitingCode = false
		p.Unlock()

		updates := lobbyUpdates(sess)
		sess.Unlock()
		return &JoinSessionOutput{Updates: updates}, nil
	}
	sess.Unlock()

	// Joining while still in another session leaves the old one first, so
	// membership stays consistent with the player's session reference. The
	// target is validated above so a mistyped code does not kick the
	// player out of their current session.
	carried, err := s.leaveCurrent(ctx, p)
	if err != nil {
		return nil, err
	}

	// The target may have started or closed while the old session was
	// being left; look it up again and re-check
	sess, err = s.lookup(ctx, sessionCode)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if sess.Started {
		return nil, ErrSessionAlreadyStarted
	}

	if !isMember(sess, p.ID) {
		sess.Members = append(sess.Members, p)
		sess.LastActivity = s.clock.Now()
	}

	p.Lock()
	p.SessionCode = sess.Code
	p.AwaitingCode = false
	p.Answer = ""
	p.Unlock()

	return &JoinSessionOutput{Updates: append(carried, lobbyUpdates(sess)...)}, nil
}

// StartSession begins round 1. Owner only, needs at least two members.
func (s *service) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, "", input.RenderTarget)
	if err != nil {
		return nil, err
	}

	sess, err := s.lookup(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if p.ID != sess.OwnerID {
		return nil, ErrNotAuthorized
	}

	if sess.Started {
		return nil, ErrSessionAlreadyStarted
	}

	if len(sess.Members) < 2 {
		return nil, ErrInsufficientPlayers
	}

	sess.Started = true
	sess.Round = 1
	sess.AnswersReceived = 0
	sess.PreviousAnswers = nil
	sess.LastActivity = s.clock.Now()

	for _, m := range sess.Members {
		m.Lock()
		m.Answer = ""
		m.Unlock()
	}

	return &StartSessionOutput{Updates: roundUpdates(sess)}, nil
}

// SubmitAnswer records a player's answer for the current round and
// resolves the round once every member has answered
func (s *service) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	if input.Text == "" {
		return nil, errors.New("answer cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, "", "")
	if err != nil {
		return nil, err
	}

	sess, err := s.lookup(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if !sess.Started {
		return nil, ErrSessionNotStarted
	}

	if !isMember(sess, p.ID) {
		return nil, ErrPlayerNotInSession
	}

	answer := normalizeAnswer(input.Text)
	for _, used := range sess.History {
		if used == answer {
			return nil, ErrDuplicateAnswer
		}
	}

	// A resubmission within the same round overwrites the pending answer
	// without touching the received count
	p.Lock()
	firstSubmission := p.Answer == ""
	p.Answer = answer
	p.Unlock()

	if firstSubmission {
		sess.AnswersReceived++
	}
	sess.LastActivity = s.clock.Now()

	if sess.AnswersReceived == len(sess.Members) {
		updates, finished := s.resolveRound(sess)
		return &SubmitAnswerOutput{Finished: finished, Updates: updates}, nil
	}

	return &SubmitAnswerOutput{Updates: roundUpdates(sess)}, nil
}

// resolveRound is called with the session locked once every member has
// answered. A unanimous round ends the game; otherwise the next round
// begins with this round's answers shown as hints. Either way every answer
// is appended to the history first.
func (s *service) resolveRound(sess *models.Session) ([]*ViewUpdate, bool) {
	answers := make([]string, 0, len(sess.Members))
	hints := make([]models.PreviousAnswer, 0, len(sess.Members))
	for _, m := range sess.Members {
		m.Lock()
		answers = append(answers, m.Answer)
		hints = append(hints, models.PreviousAnswer{PlayerName: m.Name, Answer: m.Answer})
		m.Answer = ""
		m.Unlock()
	}

	sess.History = append(sess.History, answers...)
	sess.AnswersReceived = 0

	unanimous := true
	for _, a := range answers {
		if a != answers[0] {
			unanimous = false
			break
		}
	}

	if !unanimous {
		sess.PreviousAnswers = hints
		sess.Round++
		return roundUpdates(sess), false
	}

	// Game over. The summary is rendered from the full history, then the
	// session is reset so the same lobby can play again.
	roundsPlayed := sess.Round
	history := sess.History

	sess.Started = false
	sess.Round = 1
	sess.History = nil
	sess.PreviousAnswers = nil

	updates := broadcast(sess, func(se *models.Session, viewer *models.Player) *View {
		return FinishedView(se, viewer, roundsPlayed, history)
	})

	return updates, true
}

// LeaveSession removes a player from a session, destroying the session
// when the last member leaves. A departure mid-round recomputes the
// completion threshold against the remaining membership, so it can itself
// resolve the round.
func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, "", input.RenderTarget)
	if err != nil {
		return nil, err
	}

	sess, err := s.lookup(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, m := range sess.Members {
		if m.ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		sess.Unlock()
		return nil, ErrPlayerNotInSession
	}

	sess.Members = append(sess.Members[:idx], sess.Members[idx+1:]...)
	sess.LastActivity = s.clock.Now()

	p.Lock()
	hadAnswered := p.Answer != ""
	p.SessionCode = ""
	p.Answer = ""
	p.Unlock()

	if hadAnswered && sess.AnswersReceived > 0 {
		sess.AnswersReceived--
	}

	// The departing player returns to the menu
	updates := []*ViewUpdate{singleUpdate(p, MenuView())}

	if len(sess.Members) == 0 {
		sess.Closed = true
		sessionCode := sess.Code
		sess.Unlock()

		if err := s.registry.Remove(ctx, &sessionRepo.RemoveInput{Code: sessionCode}); err != nil {
			return nil, err
		}

		return &LeaveSessionOutput{Closed: true, Updates: updates}, nil
	}

	// A departing owner hands the session to the longest-standing
	// remaining member, so the lobby never becomes unstartable
	if p.ID == sess.OwnerID {
		sess.OwnerID = sess.Members[0].ID
	}

	if sess.Started && sess.AnswersReceived == len(sess.Members) {
		resolved, finished := s.resolveRound(sess)
		sess.Unlock()
		return &LeaveSessionOutput{Finished: finished, Updates: append(updates, resolved...)}, nil
	}

	if sess.Started {
		updates = append(updates, roundUpdates(sess)...)
	} else {
		updates = append(updates, lobbyUpdates(sess)...)
	}
	sess.Unlock()

	return &LeaveSessionOutput{Updates: updates}, nil
}

// StatusRefresh re-renders the current view for a single player without
// touching shared state. Used when a player re-attaches a fresh rendering
// target.
func (s *service) StatusRefresh(ctx context.Context, input *StatusRefreshInput) (*StatusRefreshOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	p, err := s.resolvePlayer(ctx, input.PlayerID, "", input.RenderTarget)
	if err != nil {
		return nil, err
	}

	sess, err := s.lookup(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if !isMember(sess, p.ID) {
		return nil, ErrPlayerNotInSession
	}

	var v *View
	if sess.Started {
		v = RoundView(sess, p)
	} else {
		v = LobbyView(sess, p)
	}

	return &StatusRefreshOutput{Updates: []*ViewUpdate{singleUpdate(p, v)}}, nil
}

// AdminDump returns a read-only snapshot of all sessions and players
func (s *service) AdminDump(ctx context.Context, input *AdminDumpInput) (*AdminDumpOutput, error) {
	if input == nil || input.RequesterID == "" {
		return nil, errors.New("input and requester ID cannot be empty")
	}

	if !s.adminIDs[input.RequesterID] {
		return nil, ErrNotAuthorized
	}

	sessions, err := s.registry.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	players, err := s.directory.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	out := &AdminDumpOutput{
		Sessions: make([]*SessionSnapshot, 0, len(sessions)),
		Players:  make([]*PlayerSnapshot, 0, len(players)),
	}

	for _, sess := range sessions {
		sess.Lock()
		snap := &SessionSnapshot{
			ID:              sess.ID,
			Code:            sess.Code,
			OwnerID:         sess.OwnerID,
			MemberNames:     make([]string, 0, len(sess.Members)),
			Started:         sess.Started,
			Round:           sess.Round,
			AnswersReceived: sess.AnswersReceived,
			HistorySize:     len(sess.History),
			CreatedAt:       sess.CreatedAt,
			LastActivity:    sess.LastActivity,
		}
		for _, m := range sess.Members {
			snap.MemberNames = append(snap.MemberNames, m.Name)
		}
		sess.Unlock()
		out.Sessions = append(out.Sessions, snap)
	}

	for _, p := range players {
		p.Lock()
		out.Players = append(out.Players, &PlayerSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			SessionCode:  p.SessionCode,
			AwaitingCode: p.AwaitingCode,
		})
		p.Unlock()
	}

	return out, nil
}

// isMember reports whether the player is in the session's member list.
// Callers hold the session lock.
func isMember(sess *models.Session, playerID string) bool {
	for _, m := range sess.Members {
		if m.ID == playerID {
			return true
		}
	}
	return false
}
