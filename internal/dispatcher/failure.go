package dispatcher

import "github.com/maheshrc27/tweetgenie/internal/metrics"

// Kind classifies why a dispatch failed. Every kind is terminal.
type Kind string

const (
	KindValidation Kind = "validation"
	KindMedia      Kind = "media"
	KindPublish    Kind = "publish"
)

// Failure is the reason a record was moved to failed. Its Error text is what
// ends up in failure_reason.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) outcome() string {
	switch f.Kind {
	case KindValidation:
		return metrics.OutcomeFailedValidation
	case KindMedia:
		return metrics.OutcomeFailedMedia
	default:
		return metrics.OutcomeFailedPublish
	}
}
