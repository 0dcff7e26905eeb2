// Package agenda holds the conflict-resolution policy a working memory
// consults to decide which pending Activation fires next. The queue
// itself lives in package wm, since the agenda is one more memory cell;
// this package only supplies the comparator.
package agenda

import "github.com/andrew-nguyen/clara-rules/ruleengine/rete"

// Order reports whether a should fire before b. wm.Transient.PopActivation
// picks the activation that Less ranks ahead of every other pending one.
type Order interface {
	Less(a, b rete.Activation) bool
}

// salienceSpecificityLIFO breaks ties by descending salience, then
// descending specificity, then most-recently-enqueued first. This mirrors
// the combined strategy a rule author reaches for when two productions
// could both fire: an explicit priority first, a more specific match
// second, and otherwise newest wins.
type salienceSpecificityLIFO struct{}

// Default returns the built-in salience/specificity/LIFO ordering.
func Default() Order { return salienceSpecificityLIFO{} }

func (salienceSpecificityLIFO) Less(a, b rete.Activation) bool {
	if a.Salience != b.Salience {
		return a.Salience > b.Salience
	}
	if a.Specificity != b.Specificity {
		return a.Specificity > b.Specificity
	}
	return a.Sequence() > b.Sequence()
}

// FIFO fires activations in the order they were enqueued, ignoring
// salience and specificity. Useful for tests that want a deterministic,
// insertion-ordered firing sequence.
type fifo struct{}

func FIFO() Order { return fifo{} }

func (fifo) Less(a, b rete.Activation) bool { return a.Sequence() < b.Sequence() }
