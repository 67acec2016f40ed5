package game

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/mindmeld/internal/models"
)

// Command tokens carried by view actions. The transport maps them to its
// own button identifiers.
const (
	CommandNewSession = "new_session"
	CommandJoin       = "join_session"
	CommandStart      = "start_session"
	CommandLeave      = "leave_session"
)

// Action is one labeled button the transport should render under a view
type Action struct {
	// Label is the human-readable button text
	Label string

	// Command is the opaque token the transport sends back when the
	// button is pressed
	Command string
}

// View is a renderable snapshot of what one player should currently see
type View struct {
	// Text is the message body
	Text string

	// Actions are the buttons shown under the text, in order
	Actions []Action
}

// ViewUpdate addresses a View to one player's render target
type ViewUpdate struct {
	// PlayerID identifies the recipient
	PlayerID string

	// RenderTarget is the recipient's last known rendering target, or ""
	// if the transport has never rendered for them
	RenderTarget string

	// View is the payload to render
	View *View
}

// MenuView is shown to players outside any session
func MenuView() *View {
	return &View{
		Text: "Menu",
		Actions: []Action{
			{Label: "New game", Command: CommandNewSession},
			{Label: "Join game", Command: CommandJoin},
		},
	}
}

// sessionActions builds the button set shared by the lobby and finished
// views. Start is shown only to the owner, and only while no game is in
// progress.
func sessionActions(sess *models.Session, viewer *models.Player) []Action {
	var actions []Action
	if !sess.Started && viewer.ID == sess.OwnerID {
		actions = append(actions, Action{Label: "Start game", Command: CommandStart})
	}
	actions = append(actions, Action{Label: "Leave game", Command: CommandLeave})
	return actions
}

// LobbyView renders the waiting-for-players screen. Callers hold the
// session lock.
func LobbyView(sess *models.Session, viewer *models.Player) *View {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s\nWaiting for players...\n", sess.Code)
	for _, m := range sess.Members {
		fmt.Fprintf(&b, "\n%s", m.Name)
	}

	return &View{
		Text:    b.String(),
		Actions: sessionActions(sess, viewer),
	}
}

// RoundView renders the waiting-for-answers screen, with the previous
// round's answers as hints and a mark per member showing who has answered.
// Callers hold the session lock.
func RoundView(sess *models.Session, viewer *models.Player) *View {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s, round %d\n", sess.Code, sess.Round)

	if len(sess.PreviousAnswers) > 0 {
		b.WriteString("Previous answers:")
		for _, pa := range sess.PreviousAnswers {
			fmt.Fprintf(&b, "\n%s – %s", pa.PlayerName, pa.Answer)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nWaiting for answers")
	for _, m := range sess.Members {
		mark := "✖"
		if m.Answer != "" {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n\n%s %s", m.Name, mark)
	}

	return &View{
		Text:    b.String(),
		Actions: sessionActions(sess, viewer),
	}
}

// FinishedView renders the end-of-game summary: how many rounds the group
// needed and every answer given along the way. The action set matches the
// lobby so the same group can play again. Callers hold the session lock.
func FinishedView(sess *models.Session, viewer *models.Player, roundsPlayed int, history []string) *View {
	var b strings.Builder
	fmt.Fprintf(&b, "Game over after %d rounds:\n", roundsPlayed)
	for _, answer := range history {
		fmt.Fprintf(&b, "\n%s", answer)
	}
	fmt.Fprintf(&b, "\n\nGame %s", sess.Code)

	return &View{
		Text:    b.String(),
		Actions: sessionActions(sess, viewer),
	}
}

// broadcast builds one ViewUpdate per member. Callers hold the session
// lock; the per-player lock is taken briefly to read the render target,
// which interactive actions update outside the session lock.
func broadcast(sess *models.Session, build func(*models.Session, *models.Player) *View) []*ViewUpdate {
	updates := make([]*ViewUpdate, 0, len(sess.Members))
	for _, m := range sess.Members {
		m.Lock()
		target := m.RenderTarget
		m.Unlock()

		updates = append(updates, &ViewUpdate{
			PlayerID:     m.ID,
			RenderTarget: target,
			View:         build(sess, m),
		})
	}
	return updates
}

// lobbyUpdates broadcasts the lobby view to every member
func lobbyUpdates(sess *models.Session) []*ViewUpdate {
	return broadcast(sess, LobbyView)
}

// roundUpdates broadcasts the round view to every member
func roundUpdates(sess *models.Session) []*ViewUpdate {
	return broadcast(sess, RoundView)
}

// singleUpdate addresses one view to one player
func singleUpdate(p *models.Player, v *View) *ViewUpdate {
	p.Lock()
	target := p.RenderTarget
	p.Unlock()

	return &ViewUpdate{
		PlayerID:     p.ID,
		RenderTarget: target,
		View:         v,
	}
}
