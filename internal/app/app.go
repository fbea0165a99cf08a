// Package app assembles the services shared by the API server, the operator
// CLI and the verification console.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	assessmentStore "github.com/MrJamesThe3rd/levy/internal/assessment/store"
	"github.com/MrJamesThe3rd/levy/internal/audit"
	auditStore "github.com/MrJamesThe3rd/levy/internal/audit/store"
	"github.com/MrJamesThe3rd/levy/internal/cache"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/levy/internal/catalog/store"
	"github.com/MrJamesThe3rd/levy/internal/config"
	"github.com/MrJamesThe3rd/levy/internal/database"
	"github.com/MrJamesThe3rd/levy/internal/feed"
	"github.com/MrJamesThe3rd/levy/internal/gateway"
	"github.com/MrJamesThe3rd/levy/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/levy/internal/matching/store"
	"github.com/MrJamesThe3rd/levy/internal/metrics"
	"github.com/MrJamesThe3rd/levy/internal/notice"
	noticeStore "github.com/MrJamesThe3rd/levy/internal/notice/store"
	"github.com/MrJamesThe3rd/levy/internal/notify"
	"github.com/MrJamesThe3rd/levy/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/levy/internal/payment/store"
	"github.com/MrJamesThe3rd/levy/internal/render"
	"github.com/MrJamesThe3rd/levy/internal/statement"
)

const feedQueueSize = 1024

type App struct {
	Config  *config.Config
	DB      *sql.DB
	Metrics *metrics.Metrics
	Hub     *feed.Hub
	Storage *render.Storage

	Audit       *audit.Logger
	Catalog     *catalog.Service
	Calculator  *calc.Calculator
	Assessments *assessment.Service
	Notices     *notice.Service
	Payments    *payment.Service
	Matching    *matching.Service
	Statements  *statement.Service

	redis  *redis.Client
	kafka  *feed.KafkaSink
	async  *feed.Async
	cancel context.CancelFunc
	done   []<-chan struct{}
}

// New connects to the database and the optional backing services and wires
// the domain services together. Background workers start with Start.
func New(cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a := &App{Config: cfg, DB: db, Metrics: metrics.New(reg), Hub: feed.NewHub()}

	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	a.Storage, err = render.NewStorage(render.StorageConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
		URLExpiry: cfg.Storage.URLExpiry,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to object storage: %w", err)
	}

	notifier := notify.NewDispatcher(a.senders())
	renderer := render.NewRenderer(a.Storage, render.Authority{
		Name:    cfg.App.Authority,
		Address: cfg.App.AuthorityAddress,
		Contact: cfg.App.AuthorityContact,
	})

	a.Audit = audit.NewLogger(auditStore.New(db))
	a.Catalog = catalog.NewService(catalogStore.New(db), cache.New(a.redis, cfg.Redis.CacheTTL))
	a.Calculator = calc.NewCalculator(a.Catalog)
	a.Assessments = assessment.NewService(assessmentStore.New(db), a.Calculator, a.Audit,
		assessment.WithValidity(time.Duration(cfg.Assessment.ValidityDays)*24*time.Hour),
	)
	a.Notices = notice.NewService(noticeStore.New(db), a.Assessments, renderer, notifier, a.Audit,
		notice.WithGracePeriod(cfg.Assessment.GracePeriod),
	)
	a.Matching = matching.NewService(matchingStore.New(db), a.Notices)
	a.Payments = payment.NewService(paymentStore.New(db),
		gateway.Instrument(a.gateway(), a.Metrics), a.Calculator, a.Audit, notifier, a.publisher(),
		payment.WithSettler(a.Matching),
		payment.WithMetrics(a.Metrics),
		payment.WithGatewayTimeout(cfg.Gateway.Timeout),
	)
	a.Statements = statement.NewService(a.Payments, a.Matching)

	return a, nil
}

func (a *App) gateway() gateway.Gateway {
	client := &http.Client{Timeout: a.Config.Gateway.Timeout}
	gw := a.Config.Gateway

	if gw.Provider == "remita" {
		return gateway.NewRemita(gateway.RemitaConfig{
			BaseURL:       gw.RemitaBaseURL,
			MerchantID:    gw.RemitaMerchantID,
			ServiceTypeID: gw.RemitaServiceID,
			APIKey:        gw.RemitaAPIKey,
		}, client)
	}

	return gateway.NewPaystack(gw.PaystackBaseURL, gw.PaystackSecret, gw.CallbackURL, client)
}

func (a *App) senders() []notify.Sender {
	n := a.Config.Notify

	var senders []notify.Sender
	if n.SMTPHost != "" {
		senders = append(senders, notify.NewEmailSender(n.SMTPHost, n.SMTPPort, n.SMTPUser, n.SMTPPassword, n.From))
	}

	if n.SMSBaseURL != "" {
		senders = append(senders, notify.NewSMSSender(n.SMSBaseURL, n.SMSAPIKey, n.SMSSender, nil))
	}

	if len(senders) == 0 {
		slog.Warn("no notification channels configured")
	}

	return senders
}

// publisher routes payment events. With Redis, every instance's hub is fed
// from the shared channel by Start; otherwise events go straight to the local
// hub. External sinks are drained off the request path.
func (a *App) publisher() feed.Publisher {
	var sinks feed.Fanout

	if a.redis != nil {
		sinks = append(sinks, feed.NewRedisPublisher(a.redis, a.Config.Redis.FeedChannel))
	}

	if len(a.Config.Kafka.Brokers) > 0 {
		a.kafka = feed.NewKafkaSink(a.Config.Kafka.Brokers, a.Config.Kafka.Topic)
		sinks = append(sinks, a.kafka)
	}

	if len(sinks) == 0 {
		return a.Hub
	}

	a.async = feed.NewAsync(sinks, feedQueueSize)

	if a.redis != nil {
		return a.async
	}

	return feed.Fanout{a.Hub, a.async}
}

// Start launches the feed workers. They stop when ctx ends or on Close.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.async != nil {
		go a.async.Run(ctx)
		a.done = append(a.done, a.async.Done())
	}

	if a.redis != nil {
		relayed := make(chan struct{})
		a.done = append(a.done, relayed)

		go func() {
			defer close(relayed)

			if err := feed.Relay(ctx, a.redis, a.Config.Redis.FeedChannel, a.Hub); err != nil {
				slog.Error("feed relay stopped", "error", err)
			}
		}()
	}
}

// Close stops the workers, waiting for queued events to flush, and releases
// connections.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()

		for _, done := range a.done {
			<-done
		}
	}

	var errs []error

	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}

	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}

	errs = append(errs, a.DB.Close())

	return errors.Join(errs...)
}
