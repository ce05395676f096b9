package searcher

import (
	"fmt"
	"math"

	"connect4/game"

	"golang.org/x/exp/rand"
)

// node is a position in the search tree. Children are owned; parent is a
// back pointer used only to propagate statistics.
type node struct {
	state    *game.Board
	parent   *node
	move     int // Column played from parent to reach this node, -1 for the root
	children []*node
	visits   int
	wins     float64 // Credited to the player who moved into this node
}

func newNode(parent *node, move int, state *game.Board) *node {
	return &node{
		parent: parent,
		move:   move,
		state:  state,
	}
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) isTerminal() bool {
	return n.state.IsTerminal()
}

// expand adds one child per legal move, in column order. Terminal nodes are not
// expandable. Must only be called on a leaf.
func (n *node) expand() bool {
	if n.isTerminal() {
		return false
	}

	moves := n.state.LegalMoves()
	n.children = make([]*node, 0, len(moves))
	for _, move := range moves {
		state := n.state.Clone()
		if err := state.Play(move); err != nil {
			panic(fmt.Sprintf("expanding legal move %d: %v", move, err))
		}
		n.children = append(n.children, newNode(n, move, state))
	}
	return true
}

// selectBestChild returns the child with the highest UCB1 score, the earliest on ties.
func (n *node) selectBestChild(c float64) *node {
	if n.isLeaf() {
		panic("cannot select from a node without children")
	}

	best := 0
	maxScore := math.Inf(-1)
	for i, child := range n.children {
		score := ucb1(child.wins, child.visits, c, n.visits)
		if math.IsInf(score, 1) {
			return child
		}
		if score > maxScore {
			maxScore = score
			best = i
		}
	}
	return n.children[best]
}

// rollout plays uniformly random moves on a copy of the state until the game ends.
func (n *node) rollout(rng *rand.Rand) game.Outcome {
	state := n.state.Clone()
	moves := state.LegalMoves()
	for len(moves) > 0 {
		move := moves[rng.Intn(len(moves))]
		if err := state.Play(move); err != nil {
			panic(fmt.Sprintf("rollout played illegal move %d: %v", move, err))
		}
		moves = state.LegalMoves()
	}
	return state.Outcome()
}

// backPropagate records outcome on n and every ancestor up to the root.
func (n *node) backPropagate(outcome game.Outcome) {
	for cur := n; cur != nil; cur = cur.parent {
		cur.visits++
		cur.wins += reward(outcome, cur.state.LastPlayer())
	}
}

// bestMove returns the column of the most visited child, the earliest on ties.
func (n *node) bestMove() int {
	if n.isLeaf() {
		panic("node has no children")
	}

	best := 0
	for i, child := range n.children {
		if child.visits > n.children[best].visits {
			best = i
		}
	}
	return n.children[best].move
}

// policy returns each child's share of the visits, keyed by column.
func (n *node) policy() map[int]float64 {
	total := 0
	for _, child := range n.children {
		total += child.visits
	}

	policy := make(map[int]float64, len(n.children))
	for _, child := range n.children {
		if total == 0 {
			policy[child.move] = 1 / float64(len(n.children))
			continue
		}
		policy[child.move] = float64(child.visits) / float64(total)
	}
	return policy
}
