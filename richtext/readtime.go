package richtext

import (
	"errors"
	"fmt"
)

// DefaultWordsPerMinute is the assumed average reading speed.
const DefaultWordsPerMinute = 200

// ErrInvalidArgument is returned for a non-positive reading rate.
var ErrInvalidArgument = errors.New("richtext: invalid argument")

// Estimator computes reading times with a configurable rate and word
// counter. The zero value is not usable: WordsPerMinute must be positive.
// A nil Count uses CountWords.
type Estimator struct {
	WordsPerMinute int
	Count          WordCounter
}

// NewEstimator returns an Estimator at DefaultWordsPerMinute using the
// legacy counter.
func NewEstimator() Estimator {
	return Estimator{WordsPerMinute: DefaultWordsPerMinute, Count: CountWords}
}

// EstimateReadingTime returns the whole minutes needed to read doc at
// wordsPerMinute, rounded up. Heading and body span words of every block
// are summed with CountWords.
func EstimateReadingTime(doc Document, wordsPerMinute int) (int, error) {
	return Estimator{WordsPerMinute: wordsPerMinute, Count: CountWords}.Estimate(doc)
}

// Estimate returns the reading time of doc in whole minutes.
func (e Estimator) Estimate(doc Document) (int, error) {
	if e.WordsPerMinute <= 0 {
		return 0, fmt.Errorf("%w: words per minute must be positive, got %d", ErrInvalidArgument, e.WordsPerMinute)
	}
	return Minutes(e.Words(doc), e.WordsPerMinute)
}

// Words returns the total word count of doc, counting each span separately.
func (e Estimator) Words(doc Document) int {
	count := e.counter()
	total := 0
	for _, b := range doc {
		total += count(b.Heading)
		for _, s := range b.Body {
			total += count(s.Text)
		}
	}
	return total
}

func (e Estimator) counter() WordCounter {
	if e.Count == nil {
		return CountWords
	}
	return e.Count
}

// FlattenedWords counts words per block over the heading and the
// flattened body instead of span by span.
func FlattenedWords(doc Document, count WordCounter) int {
	if count == nil {
		count = CountWords
	}
	total := 0
	for _, b := range doc {
		total += count(b.Heading) + count(FlattenToPlainText(b.Body))
	}
	return total
}

// Minutes is ceil(words / wordsPerMinute).
func Minutes(words, wordsPerMinute int) (int, error) {
	if wordsPerMinute <= 0 {
		return 0, fmt.Errorf("%w: words per minute must be positive, got %d", ErrInvalidArgument, wordsPerMinute)
	}
	if words <= 0 {
		return 0, nil
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute, nil
}
