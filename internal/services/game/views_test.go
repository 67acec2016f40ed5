package game

import (
	"strings"
	"testing"

	"github.com/KirkDiggler/mindmeld/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() (*models.Session, *models.Player, *models.Player) {
	owner := &models.Player{ID: "alice", Name: "Alice"}
	member := &models.Player{ID: "bob", Name: "Bob"}
	sess := &models.Session{
		Code:    "WXYZ",
		OwnerID: "alice",
		Members: []*models.Player{owner, member},
		Round:   1,
	}
	return sess, owner, member
}

func actionCommands(v *View) []string {
	commands := make([]string, 0, len(v.Actions))
	for _, a := range v.Actions {
		commands = append(commands, a.Command)
	}
	return commands
}

func TestMenuView(t *testing.T) {
	v := MenuView()

	assert.Equal(t, []string{CommandNewSession, CommandJoin}, actionCommands(v))
}

func TestLobbyViewListsMembersInOrder(t *testing.T) {
	sess, owner, _ := testSession()

	v := LobbyView(sess, owner)

	assert.Contains(t, v.Text, "Game WXYZ")
	assert.Contains(t, v.Text, "Alice")
	assert.Contains(t, v.Text, "Bob")
	assert.Less(t, strings.Index(v.Text, "Alice"), strings.Index(v.Text, "Bob"))
}

func TestLobbyViewStartGatedOnOwner(t *testing.T) {
	sess, owner, member := testSession()

	assert.Equal(t, []string{CommandStart, CommandLeave}, actionCommands(LobbyView(sess, owner)))
	assert.Equal(t, []string{CommandLeave}, actionCommands(LobbyView(sess, member)))
}

func TestRoundViewHidesStartOnceStarted(t *testing.T) {
	sess, owner, _ := testSession()
	sess.Started = true

	assert.Equal(t, []string{CommandLeave}, actionCommands(RoundView(sess, owner)))
}

func TestRoundViewMarksAnswers(t *testing.T) {
	sess, owner, member := testSession()
	sess.Started = true
	owner.Answer = "Cat"

	v := RoundView(sess, member)

	assert.Contains(t, v.Text, "round 1")
	assert.Contains(t, v.Text, "Alice ✅")
	assert.Contains(t, v.Text, "Bob ✖")
}

func TestRoundViewShowsPreviousAnswers(t *testing.T) {
	sess, owner, _ := testSession()
	sess.Started = true
	sess.Round = 2
	sess.PreviousAnswers = []models.PreviousAnswer{
		{PlayerName: "Alice", Answer: "Cat"},
		{PlayerName: "Bob", Answer: "Dog"},
	}

	v := RoundView(sess, owner)

	require.Contains(t, v.Text, "Previous answers:")
	assert.Contains(t, v.Text, "Alice – Cat")
	assert.Contains(t, v.Text, "Bob – Dog")
}

func TestRoundViewOmitsHintsInFirstRound(t *testing.T) {
	sess, owner, _ := testSession()
	sess.Started = true

	assert.NotContains(t, RoundView(sess, owner).Text, "Previous answers")
}

func TestFinishedViewSummarizesGame(t *testing.T) {
	sess, owner, member := testSession()

	v := FinishedView(sess, owner, 2, []string{"Cat", "Dog", "Fish", "Fish"})

	assert.Contains(t, v.Text, "Game over after 2 rounds")
	for _, answer := range []string{"Cat", "Dog", "Fish"} {
		assert.Contains(t, v.Text, answer)
	}
	assert.Contains(t, v.Text, "Game WXYZ")

	// The finished view carries the lobby action set so the group can
	// go again
	assert.Equal(t, []string{CommandStart, CommandLeave}, actionCommands(v))
	assert.Equal(t, []string{CommandLeave}, actionCommands(FinishedView(sess, member, 2, nil)))
}

func TestNormalizeAnswer(t *testing.T) {
	cases := map[string]string{
		"fish":   "Fish",
		"Fish":   "Fish",
		"FISH":   "FISH",
		"cAT":    "CAT",
		"ёлка":   "Ёлка",
		"":       "",
		"2 cats": "2 cats",
	}

	for in, want := range cases {
		assert.Equal(t, want, normalizeAnswer(in), "normalizeAnswer(%q)", in)
	}
}
