package acoustic

import "github.com/dgnsrekt/simplephon/utterance"

// Link aligns every child with the first parent: (0, i) for each child i.
// The child sequence must be complete, since the pair count follows its
// length.
func Link[P, C any](parents *utterance.Sequence[P], children *utterance.Sequence[C]) (*utterance.Relation, error) {
	pairs := make([]utterance.IntegerPair, 0, children.Len())
	for i := 0; i < children.Len(); i++ {
		pairs = append(pairs, utterance.IntegerPair{Left: 0, Right: i})
	}
	return utterance.NewRelation(parents, children, pairs)
}
