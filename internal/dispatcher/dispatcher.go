// Package dispatcher turns due scheduled tweets into published tweets or
// recorded failures.
//
// A record leaves pending exactly once. The commit is a compare-and-swap on
// the stored status, and a Locker keeps scans from overlapping so a record is
// never published twice.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/lock"
	"github.com/maheshrc27/tweetgenie/internal/metrics"
	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 10
	defaultTimeout     = 30 * time.Second

	// commitTimeout bounds the store writes that follow a publish. They run
	// detached from the scan context so a platform-accepted post is always
	// recorded.
	commitTimeout = 10 * time.Second
)

var ErrStoreUnavailable = errors.New("scheduled tweet store unavailable")

type Store interface {
	FindDuePending(ctx context.Context, now time.Time) ([]*models.ScheduledTweet, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledTweet, error)
	TryTransition(ctx context.Context, id int64, from, to models.ScheduleStatus, fields models.TransitionFields) (bool, error)
}

// PostSink publishes to the platform.
type PostSink interface {
	UploadMedia(ctx context.Context, media *service.Media, creds service.Credentials) (string, error)
	Publish(ctx context.Context, content string, mediaIDs []string, creds service.Credentials) (string, error)
}

type MediaResolver interface {
	Fetch(ctx context.Context, url string) (*service.Media, error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, st *models.ScheduledTweet) (service.Credentials, error)
}

type HistoryRecorder interface {
	Create(ctx context.Context, t *models.Tweet) (int64, error)
}

type Config struct {
	// Concurrency bounds the dispatches running at once within one scan.
	Concurrency int
	// Timeout bounds every network call of a dispatch.
	Timeout time.Duration
}

type Dispatcher struct {
	store   Store
	sink    PostSink
	media   MediaResolver
	creds   CredentialResolver
	history HistoryRecorder
	locker  lock.Locker
	cfg     Config
	now     func() time.Time
	tracer  trace.Tracer
}

func New(store Store, sink PostSink, media MediaResolver, creds CredentialResolver, history HistoryRecorder, locker lock.Locker, cfg Config) *Dispatcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Dispatcher{
		store:   store,
		sink:    sink,
		media:   media,
		creds:   creds,
		history: history,
		locker:  locker,
		cfg:     cfg,
		now:     time.Now,
		tracer:  otel.Tracer("github.com/maheshrc27/tweetgenie/internal/dispatcher"),
	}
}

// Scan dispatches every pending record due at or before now. Per-record
// failures are recorded on the record; only a failure to read the store or to
// take the lock is returned.
func (d *Dispatcher) Scan(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "dispatcher.Scan")
	defer span.End()

	release, ok, err := d.locker.TryLock(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !ok {
		metrics.ScansSkipped.Inc()
		span.SetAttributes(attribute.Bool("scan.skipped", true))
		slog.InfoContext(ctx, "dispatch scan already running, skipping")
		return nil
	}
	defer release()

	timer := prometheus.NewTimer(metrics.ScanDuration)
	defer timer.ObserveDuration()

	now := d.now()
	due, err := d.store.FindDuePending(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to load due scheduled tweets", "error", err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	metrics.DueRecords.Set(float64(len(due)))
	span.SetAttributes(attribute.Int("scan.due", len(due)))
	if len(due) == 0 {
		return nil
	}
	slog.InfoContext(ctx, "dispatching due scheduled tweets", "count", len(due), "now", now.Format(time.RFC3339))

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for _, st := range due {
		g.Go(func() error {
			d.dispatchOne(ctx, st)
			return nil
		})
	}
	g.Wait()

	return nil
}

// DispatchByID dispatches a single record if it is still pending and due. It
// holds the same lock as Scan.
func (d *Dispatcher) DispatchByID(ctx context.Context, id int64) error {
	release, ok, err := d.locker.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !ok {
		metrics.NudgesSkipped.Inc()
		slog.InfoContext(ctx, "dispatch lock held, leaving record to the scan", "post_id", id)
		return nil
	}
	defer release()

	st, err := d.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if st == nil {
		slog.InfoContext(ctx, "scheduled tweet no longer exists", "post_id", id)
		return nil
	}
	if st.Status != models.ScheduleStatusPending || st.ScheduledTime.After(d.now()) {
		return nil
	}

	d.dispatchOne(ctx, st)
	return nil
}

// dispatchOne runs validate, credentials, media, publish, commit in that
// order and stops at the first failure.
func (d *Dispatcher) dispatchOne(ctx context.Context, st *models.ScheduledTweet) {
	ctx, span := d.tracer.Start(ctx, "dispatcher.dispatchOne", trace.WithAttributes(
		attribute.Int64("post.id", st.ID),
	))
	defer span.End()

	timer := prometheus.NewTimer(metrics.DispatchDuration)
	defer timer.ObserveDuration()

	if st.Status != models.ScheduleStatusPending {
		return
	}

	tweetID, failure := d.attempt(ctx, st)
	if failure != nil {
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		slog.InfoContext(ctx, "scheduled tweet failed", "post_id", st.ID, "kind", failure.Kind, "error", failure.Err)
		d.commit(ctx, span, st, models.ScheduleStatusFailed, models.TransitionFields{FailureReason: failure.Error()}, failure.outcome())
		return
	}

	if d.commit(ctx, span, st, models.ScheduleStatusPosted, models.TransitionFields{PostedTweetID: tweetID}, metrics.OutcomePosted) {
		d.recordHistory(ctx, st, tweetID)
	}
}

func (d *Dispatcher) attempt(ctx context.Context, st *models.ScheduledTweet) (string, *Failure) {
	if err := service.ValidateContent(st.Content); err != nil {
		return "", &Failure{Kind: KindValidation, Err: err}
	}

	creds, err := d.creds.Resolve(ctx, st)
	if err != nil {
		return "", &Failure{Kind: KindValidation, Err: err}
	}
	if !creds.Complete() {
		return "", &Failure{Kind: KindValidation, Err: service.ErrMissingCredentials}
	}

	var mediaIDs []string
	if st.ImageURL != "" {
		mediaID, err := d.prepareMedia(ctx, st.ImageURL, creds)
		if err != nil {
			return "", &Failure{Kind: KindMedia, Err: err}
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	tweetID, err := d.sink.Publish(callCtx, st.Content, mediaIDs, creds)
	if err != nil {
		return "", &Failure{Kind: KindPublish, Err: err}
	}
	return tweetID, nil
}

func (d *Dispatcher) prepareMedia(ctx context.Context, url string, creds service.Credentials) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	media, err := d.media.Fetch(fetchCtx, url)
	if err != nil {
		return "", err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	return d.sink.UploadMedia(uploadCtx, media, creds)
}

// commit moves the record out of pending. It reports whether this call made
// the transition; losing the compare-and-swap means another dispatcher did.
// Cancelling ctx does not abort the write.
func (d *Dispatcher) commit(ctx context.Context, span trace.Span, st *models.ScheduledTweet, to models.ScheduleStatus, fields models.TransitionFields, outcome string) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	ok, err := d.store.TryTransition(ctx, st.ID, models.ScheduleStatusPending, to, fields)
	if err != nil {
		metrics.DispatchOutcomes.WithLabelValues(metrics.OutcomeCommitError).Inc()
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to commit scheduled tweet", "post_id", st.ID, "status", to, "error", err)
		return false
	}
	if !ok {
		metrics.DispatchOutcomes.WithLabelValues(metrics.OutcomeSkippedContention).Inc()
		slog.InfoContext(ctx, "scheduled tweet already left pending, skipping", "post_id", st.ID)
		return false
	}

	span.SetAttributes(attribute.String("post.status", string(to)))
	metrics.DispatchOutcomes.WithLabelValues(outcome).Inc()
	return true
}

func (d *Dispatcher) recordHistory(ctx context.Context, st *models.ScheduledTweet, tweetID string) {
	if d.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	_, err := d.history.Create(ctx, &models.Tweet{
		UserID:    st.UserID,
		UserName:  st.UserName,
		Content:   st.Content,
		ImageURL:  st.ImageURL,
		TwitterID: tweetID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record tweet history", "post_id", st.ID, "twitter_id", tweetID, "error", err)
	}
}
