package evaluation

import (
	"github.com/forestml/canopy/pkg/errors"
)

// ScoreBoard maps model identifiers to their scores while preserving
// insertion order. Order is load-bearing: ties in best-model selection are
// broken by the earlier entry, so the board stores scores in a slice and
// keeps a name index alongside rather than relying on a map alone.
type ScoreBoard struct {
	scores []ModelScore
	index  map[string]int
}

// NewScoreBoard builds a board from scores in the given order. It fails with
// DuplicateModelError if two scores share a model identifier.
func NewScoreBoard(scores ...ModelScore) (*ScoreBoard, error) {
	board := &ScoreBoard{
		scores: make([]ModelScore, 0, len(scores)),
		index:  make(map[string]int, len(scores)),
	}
	for _, score := range scores {
		if _, ok := board.index[score.Model]; ok {
			return nil, errors.NewDuplicateModelError(score.Model)
		}
		board.index[score.Model] = len(board.scores)
		board.scores = append(board.scores, score)
	}
	return board, nil
}

// Len returns the number of entries on the board.
func (b *ScoreBoard) Len() int {
	return len(b.scores)
}

// Scores returns the scores in insertion order.
func (b *ScoreBoard) Scores() []ModelScore {
	out := make([]ModelScore, len(b.scores))
	copy(out, b.scores)
	return out
}

// Lookup returns the score for a model identifier.
func (b *ScoreBoard) Lookup(model string) (ModelScore, bool) {
	i, ok := b.index[model]
	if !ok {
		return ModelScore{}, false
	}
	return b.scores[i], true
}

// SelectBest returns the identifier with the strictly minimal RMSE. When two
// or more models tie exactly, the one inserted first wins. It fails with
// EmptyScoreBoardError on a board with no entries.
func (b *ScoreBoard) SelectBest() (string, error) {
	if len(b.scores) == 0 {
		return "", errors.NewEmptyScoreBoardError("SelectBest")
	}

	best := b.scores[0]
	for _, score := range b.scores[1:] {
		if score.RMSE < best.RMSE {
			best = score
		}
	}
	return best.Model, nil
}
