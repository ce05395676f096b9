package engine

import (
	"errors"
	"strings"
	"testing"

	"connect4/agent"
	"connect4/game"
	"connect4/searcher"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

type scriptedAgent struct {
	moves []int
	seen  []*game.Board
}

func (a *scriptedAgent) ChooseMove(state *game.Board) (int, error) {
	a.seen = append(a.seen, state)
	if len(a.moves) == 0 {
		return -1, errors.New("script exhausted")
	}
	move := a.moves[0]
	a.moves = a.moves[1:]
	return move, nil
}

func TestLocalEngine(t *testing.T) {
	t.Run("playing random agents to completion", func(t *testing.T) {
		e := NewLocalEngine([]agent.Agent{agent.NewRandomAgent(1), agent.NewRandomAgent(2)})

		outcome, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.True(t, outcome.IsTerminal(), "Game should end decided")
		require.Equal(t, outcome, gameMetric.Outcome)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		require.Len(t, gameMetric.History, gameMetric.TotalMoves)
		require.False(t, gameMetric.EndTime.Before(gameMetric.StartTime))
		for i, m := range moveMetrics {
			require.Equal(t, i+1, m.Step)
			require.Equal(t, gameMetric.History[i], m.Column)
			if i%2 == 0 {
				require.Equal(t, game.PlayerA, m.Player, "First agent should play X")
			} else {
				require.Equal(t, game.PlayerB, m.Player)
			}
		}
	})

	t.Run("alternating agents and reporting the winner", func(t *testing.T) {
		first := &scriptedAgent{moves: []int{0, 1, 2, 3}}
		second := &scriptedAgent{moves: []int{0, 1, 2}}
		e := NewLocalEngine([]agent.Agent{first, second})

		outcome, gameMetric, _, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, game.Won(game.PlayerA), outcome)
		require.Equal(t, []int{0, 0, 1, 1, 2, 2, 3}, gameMetric.History)
		require.Len(t, first.seen, 4)
		require.Len(t, second.seen, 3)
		require.Equal(t, game.PlayerB, second.seen[0].Turn())
	})

	t.Run("handing agents a copy of the board", func(t *testing.T) {
		first := &scriptedAgent{moves: []int{0, 1, 2, 3}}
		second := &scriptedAgent{moves: []int{0, 1, 2}}
		e := NewLocalEngine([]agent.Agent{first, second})

		_, _, _, err := e.Run()
		require.NoError(t, err)

		require.Equal(t, 0, first.seen[0].Moves(), "Snapshot should not follow later moves")
		require.NoError(t, first.seen[0].Play(6))
		require.Equal(t, 7, e.Board().Moves())
	})

	t.Run("rejecting an illegal move", func(t *testing.T) {
		first := &scriptedAgent{moves: []int{0, 0, 0, 0}}
		second := &scriptedAgent{moves: []int{0, 0, 0}}
		e := NewLocalEngine([]agent.Agent{first, second}, WithBoardSize(6, 7))

		_, _, moveMetrics, err := e.Run()

		require.ErrorIs(t, err, game.ErrIllegalMove)
		require.Contains(t, err.Error(), "agent 1")
		require.Len(t, moveMetrics, 6, "Only accepted moves should be recorded")
	})

	t.Run("surfacing agent errors", func(t *testing.T) {
		e := NewLocalEngine([]agent.Agent{&scriptedAgent{moves: []int{3}}, &scriptedAgent{}})

		_, _, _, err := e.Run()

		require.ErrorContains(t, err, "agent 2 (O) failed to choose a move")
	})

	t.Run("recording search metrics from MCTS agents", func(t *testing.T) {
		mcts := agent.NewMCTSAgent(searcher.NewMCTS(searcher.WithEpisodes(50), searcher.WithSeed(1), searcher.WithMetrics()))
		e := NewLocalEngine([]agent.Agent{mcts, agent.NewRandomAgent(5)}, WithBoardSize(4, 4))

		_, _, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, 50, moveMetrics[0].Episodes)
		if len(moveMetrics) > 1 {
			require.Zero(t, moveMetrics[1].Episodes, "Random agent has no search metrics")
		}
	})

	t.Run("printing the game", func(t *testing.T) {
		var out strings.Builder
		first := &scriptedAgent{moves: []int{0, 1, 2, 3}}
		second := &scriptedAgent{moves: []int{0, 1, 2}}
		e := NewLocalEngine([]agent.Agent{first, second}, WithOutput(&out, termenv.Ascii))

		_, _, _, err := e.Run()

		require.NoError(t, err)
		require.Contains(t, out.String(), "Player 1 played in column 3")
		require.Contains(t, out.String(), "Player 2 played in column 2")
		require.Contains(t, out.String(), "|X|X|X|X| | | |")
		require.Contains(t, out.String(), "Game over. Result: win(X)")
	})

	t.Run("requiring two agents", func(t *testing.T) {
		require.Panics(t, func() { NewLocalEngine([]agent.Agent{agent.NewRandomAgent(1)}) })
	})
}
