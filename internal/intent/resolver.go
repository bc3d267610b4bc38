package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/metrics"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

const (
	DefaultClassifierTimeout = 8 * time.Second

	causeClassifierError   = "classifier_error"
	causeClassifierTimeout = "classifier_timeout"
	causeInvalidPayload    = "invalid_payload"
	causeClassifierUnknown = "classifier_unknown"
)

type Config struct {
	ClassifierTimeout time.Duration
}

type Resolver struct {
	classifier Classifier
	schema     *jsonschema.Schema
	timeout    time.Duration
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
}

func NewResolver(classifier Classifier, cfg Config, m *metrics.Metrics, logger *zap.SugaredLogger) (*Resolver, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = NopClassifier{}
	}
	if cfg.ClassifierTimeout <= 0 {
		cfg.ClassifierTimeout = DefaultClassifierTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{
		classifier: classifier,
		schema:     schema,
		timeout:    cfg.ClassifierTimeout,
		metrics:    m,
		logger:     logger,
	}, nil
}

// Resolve never fails: the result is a valid intent or an unknown one whose Reason
// says why.
func (r *Resolver) Resolve(ctx context.Context, message string, menu []domain.MenuItem, cartHasItems bool, cart []domain.CartLine) domain.Intent {
	text := strings.TrimSpace(message)
	if text == "" {
		return domain.UnknownIntent("empty", domain.SourceNone)
	}

	in, cause := r.classify(ctx, text, menu, cartHasItems, cart)
	if cause == "" {
		return in
	}

	r.metrics.Fallback(cause)
	return matchFallback(text, menu, cartHasItems, cause)
}

// classify returns the classifier's intent, or a non-empty fallback cause when it
// cannot be trusted.
func (r *Resolver) classify(ctx context.Context, text string, menu []domain.MenuItem, cartHasItems bool, cart []domain.CartLine) (domain.Intent, string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.callClassifier(ctx, newRequest(text, menu, cartHasItems, cart))
	if err != nil {
		cause := causeClassifierError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			cause = causeClassifierTimeout
		}
		r.logger.Warnw("classifier failed, using fallback", "cause", cause, "error", err)
		return domain.Intent{}, cause
	}

	in, err := decodePayload(r.schema, raw, menu)
	if err != nil {
		r.logger.Warnw("classifier payload rejected, using fallback", "error", err)
		return domain.Intent{}, causeInvalidPayload
	}
	if !in.Valid || in.Kind == domain.KindUnknown {
		return domain.Intent{}, causeClassifierUnknown
	}
	return in, ""
}

// callClassifier turns a classifier panic into an error.
func (r *Resolver) callClassifier(ctx context.Context, req Request) (raw json.RawMessage, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("classifier panicked", "panic", p)
			raw, err = nil, fmt.Errorf("classifier panicked: %v", p)
		}
	}()
	return r.classifier.Classify(ctx, req)
}
