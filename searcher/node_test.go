package searcher

import (
	"math"
	"testing"

	"connect4/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func parseBoard(t *testing.T, moves string) *game.Board {
	t.Helper()
	b, err := game.ParseMoves(game.DefaultRows, game.DefaultCols, moves)
	require.NoError(t, err)
	return b
}

func TestUCB1(t *testing.T) {
	t.Run("prioritizing unvisited nodes", func(t *testing.T) {
		require.True(t, math.IsInf(ucb1(0, 0, 1.4, 10), 1), "Unvisited child should score +Inf")
		require.True(t, math.IsInf(ucb1(3, 5, 1.4, 0), 1), "Unvisited parent should score +Inf")
	})

	t.Run("computing the UCB1 value", func(t *testing.T) {
		got := ucb1(5, 10, 2.0, 100)

		expected := 5.0/10 + 2.0*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001, "Should compute w/n + c*sqrt(ln(N)/n)")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		require.Greater(t, ucb1(5, 10, 1.4, 1000), ucb1(5, 10, 1.4, 100),
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		require.Greater(t, ucb1(5, 10, 1.4, 100), ucb1(10, 20, 1.4, 100),
			"More child visits at the same win rate should decrease exploration term")
	})

	t.Run("exploitation term increases with wins", func(t *testing.T) {
		require.Greater(t, ucb1(8, 10, 1.4, 100), ucb1(5, 10, 1.4, 100),
			"More wins should increase exploitation term")
	})
}

func TestNodeExpand(t *testing.T) {
	t.Run("adding one child per legal move in column order", func(t *testing.T) {
		state := parseBoard(t, "0 0 0 0 0 0")
		root := newNode(nil, -1, state)

		require.True(t, root.isLeaf())
		require.True(t, root.expand(), "Non-terminal node should expand")

		require.False(t, root.isLeaf())
		require.Len(t, root.children, 6, "Full column should not get a child")
		for i, child := range root.children {
			require.Equal(t, i+1, child.move, "Children should follow column order")
			require.Same(t, root, child.parent, "Child should point back to its parent")
			require.Equal(t, 7, child.state.Moves(), "Child state should include its move")
			require.Equal(t, game.PlayerA, child.state.Cell(0, child.move), "Child move should be played by the parent's mover")
			require.Zero(t, child.visits)
			require.Zero(t, child.wins)
		}
		require.Equal(t, 6, state.Moves(), "Parent state should not change")
	})

	t.Run("refusing to expand a terminal node", func(t *testing.T) {
		root := newNode(nil, -1, parseBoard(t, "0 0 1 1 2 2 3"))

		require.False(t, root.expand(), "Terminal node should not expand")
		require.True(t, root.isLeaf())
	})
}

func TestNodeSelectBestChild(t *testing.T) {
	t.Run("selecting an unvisited child over any visited child", func(t *testing.T) {
		strong := &node{move: 0, wins: 10, visits: 10}
		weak := &node{move: 1, wins: 0, visits: 10}
		unvisited1 := &node{move: 2}
		unvisited2 := &node{move: 3}
		parent := &node{children: []*node{strong, weak, unvisited1, unvisited2}, visits: 20}

		got := parent.selectBestChild(DefaultExploration)

		require.Same(t, unvisited1, got, "Earliest unvisited child should be selected")
	})

	t.Run("selecting the max UCB child", func(t *testing.T) {
		loser := &node{move: 0, wins: 0, visits: 1}
		winner := &node{move: 1, wins: 1, visits: 1}
		parent := &node{children: []*node{loser, winner}, visits: 2}

		got := parent.selectBestChild(DefaultExploration)

		require.Same(t, winner, got, "Child with higher win rate should be selected")
	})

	t.Run("breaking ties by earliest index", func(t *testing.T) {
		first := &node{move: 0, wins: 2, visits: 4}
		second := &node{move: 1, wins: 2, visits: 4}
		parent := &node{children: []*node{first, second}, visits: 8}

		got := parent.selectBestChild(DefaultExploration)

		require.Same(t, first, got)
	})

	t.Run("preferring exploration with a large constant", func(t *testing.T) {
		exploited := &node{move: 0, wins: 90, visits: 100}
		explored := &node{move: 1, wins: 1, visits: 2}
		parent := &node{children: []*node{exploited, explored}, visits: 102}

		require.Same(t, exploited, parent.selectBestChild(0), "Zero exploration should pick the best win rate")
		require.Same(t, explored, parent.selectBestChild(5), "Large exploration should pick the rarely visited child")
	})

	t.Run("panicking without children", func(t *testing.T) {
		require.Panics(t, func() {
			(&node{}).selectBestChild(DefaultExploration)
		})
	})
}

func TestNodeRollout(t *testing.T) {
	t.Run("playing to a terminal outcome without touching the node", func(t *testing.T) {
		state := parseBoard(t, "3 3")
		n := newNode(nil, -1, state)
		before := state.Clone()

		outcome := n.rollout(rand.New(rand.NewSource(1)))

		require.True(t, outcome.IsTerminal(), "Rollout should end in a decided game")
		require.Equal(t, before, n.state, "Rollout should not mutate the node state")
		require.True(t, n.isLeaf(), "Rollout should not grow the tree")
	})

	t.Run("returning the outcome of a terminal node", func(t *testing.T) {
		n := newNode(nil, -1, parseBoard(t, "0 0 1 1 2 2 3"))

		outcome := n.rollout(rand.New(rand.NewSource(1)))

		require.Equal(t, game.Won(game.PlayerA), outcome)
	})

	t.Run("reproducing playouts under a fixed seed", func(t *testing.T) {
		n := newNode(nil, -1, game.NewStandardBoard())
		rng1 := rand.New(rand.NewSource(99))
		rng2 := rand.New(rand.NewSource(99))

		for i := 0; i < 20; i++ {
			require.Equal(t, n.rollout(rng1), n.rollout(rng2), "Same seed should give same outcomes")
		}
	})
}

func TestNodeBackPropagate(t *testing.T) {
	// root (empty board) -> child (X played 0) -> grandchild (O played 0)
	setup := func(t *testing.T) (root, child, grandchild *node) {
		root = newNode(nil, -1, game.NewStandardBoard())
		require.True(t, root.expand())
		child = root.children[0]
		require.True(t, child.expand())
		grandchild = child.children[0]
		return root, child, grandchild
	}

	t.Run("crediting a win to the player who moved into each node", func(t *testing.T) {
		root, child, grandchild := setup(t)

		grandchild.backPropagate(game.Won(game.PlayerA))

		require.Equal(t, 1, root.visits)
		require.Equal(t, 1, child.visits)
		require.Equal(t, 1, grandchild.visits)
		require.Equal(t, WIN, child.wins, "X moved into the child and won")
		require.Equal(t, LOSS, grandchild.wins, "O moved into the grandchild and lost")
		require.Equal(t, LOSS, root.wins, "Root is credited to O, who would have moved last")
	})

	t.Run("crediting half a win on a draw", func(t *testing.T) {
		root, child, grandchild := setup(t)

		grandchild.backPropagate(game.Drawn())

		for _, n := range []*node{root, child, grandchild} {
			require.Equal(t, 1, n.visits)
			require.Equal(t, DRAW, n.wins)
		}
	})

	t.Run("leaving siblings and descendants untouched", func(t *testing.T) {
		root, child, _ := setup(t)

		child.backPropagate(game.Won(game.PlayerB))

		require.Equal(t, 1, root.visits)
		require.Equal(t, WIN, root.wins)
		require.Equal(t, LOSS, child.wins)
		for _, sibling := range root.children[1:] {
			require.Zero(t, sibling.visits, "Siblings should not be updated")
		}
		for _, grandchild := range child.children {
			require.Zero(t, grandchild.visits, "Descendants should not be updated")
		}
	})
}

func TestNodeBestMove(t *testing.T) {
	t.Run("choosing the most visited child", func(t *testing.T) {
		root := newNode(nil, -1, parseBoard(t, "0 0 0 0 0 0"))
		require.True(t, root.expand())
		visits := []int{3, 5, 9, 1, 9, 0}
		wins := []float64{3, 5, 0, 1, 0, 0}
		for i, child := range root.children {
			child.visits = visits[i]
			child.wins = wins[i]
		}

		require.Equal(t, 3, root.bestMove(), "Earliest most visited child should map to column 3")
	})

	t.Run("reporting the visit policy", func(t *testing.T) {
		root := newNode(nil, -1, parseBoard(t, "0 0 0 0 0 0"))
		require.True(t, root.expand())
		root.children[0].visits = 1
		root.children[5].visits = 3

		policy := root.policy()

		require.Len(t, policy, 6)
		require.InDelta(t, 0.25, policy[1], 1e-9)
		require.InDelta(t, 0.75, policy[6], 1e-9)
		require.Zero(t, policy[3])
	})

	t.Run("panicking without children", func(t *testing.T) {
		require.Panics(t, func() {
			newNode(nil, -1, game.NewStandardBoard()).bestMove()
		})
	})
}
