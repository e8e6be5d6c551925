package linkreport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/docregistry/internal/config"
	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
	"git.home.luguber.info/inful/docregistry/internal/logfields"
)

// Publisher delivers broken-link events to interested consumers. Seen
// reports whether an event for the same (page, reference) pair was already
// delivered, so repeated verification runs do not re-announce known breaks.
type Publisher interface {
	Seen(ctx context.Context, event *BrokenLinkEvent) bool
	Publish(ctx context.Context, event *BrokenLinkEvent) error
	Close() error
}

// NATSPublisher publishes broken-link events to a JetStream subject and
// deduplicates through a KV bucket.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
}

// NewNATSPublisher connects to NATS and prepares the KV dedupe bucket.
func NewNATSPublisher(cfg *config.LinkVerificationConfig) (*NATSPublisher, error) {
	if !cfg.PublishEnabled() {
		return nil, derrors.ConfigError("link event publishing is not enabled").Build()
	}

	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", cfg.NATSURL).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "failed to create JetStream context").Build()
	}

	p := &NATSPublisher{conn: conn, js: js, subject: cfg.Subject}
	if err := p.initKVBucket(cfg.KVBucket); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("NATS publisher initialized for broken-link events",
		logfields.URL(cfg.NATSURL),
		slog.String("subject", cfg.Subject),
		slog.String("kv_bucket", cfg.KVBucket))
	return p, nil
}

func (p *NATSPublisher) initKVBucket(bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := p.js.KeyValue(ctx, bucket)
	if err == nil {
		p.kv = kv
		return nil
	}

	kv, err = p.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "Broken-link dedupe cache for the docs registry",
		History:     1,
	})
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "failed to create KV bucket").
			WithContext("bucket", bucket).
			Build()
	}
	p.kv = kv
	return nil
}

// eventKey builds a KV-safe key from the (page, reference) pair.
func eventKey(event *BrokenLinkEvent) string {
	raw := event.SourcePath + "|" + event.Reference
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Seen reports whether this (page, reference) pair was published before.
func (p *NATSPublisher) Seen(ctx context.Context, event *BrokenLinkEvent) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := p.kv.Get(ctx, eventKey(event))
	return err == nil
}

// Publish delivers the event and records it in the dedupe bucket.
func (p *NATSPublisher) Publish(ctx context.Context, event *BrokenLinkEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal broken-link event").Build()
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "failed to publish broken-link event").
			WithContext("subject", p.subject).
			Build()
	}

	if _, err := p.kv.Put(ctx, eventKey(event), data); err != nil {
		slog.Warn("Failed to record broken-link event in dedupe cache", logfields.Error(err))
	}

	slog.Debug("Published broken-link event",
		logfields.Reference(event.Reference),
		logfields.Path(event.SourcePath))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
