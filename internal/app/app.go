package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/niksmo/medsupply/config"
	"github.com/niksmo/medsupply/internal/adapter/httphandler"
	"github.com/niksmo/medsupply/internal/adapter/kafka"
	"github.com/niksmo/medsupply/internal/adapter/storage"
	"github.com/niksmo/medsupply/internal/core/service"
	"github.com/niksmo/medsupply/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const (
	sessionIdle   = 24 * time.Hour
	pruneInterval = 10 * time.Minute
)

type serdes struct {
	auditEntry schema.Serde
	quote      schema.Serde
}

type producers struct {
	auditLog *kafka.AuditLogProducer
	quotes   *kafka.QuotesProducer
}

type streams struct {
	inquiryProc    *kafka.InquiryCounterProcessor
	inquiryView    *kafka.InquiryView
	quotesConsumer *kafka.QuotesConsumer
}

type storages struct {
	sqldb       *storage.SQLDB
	preferences *storage.PreferenceStorage
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	serdes     serdes
	producers  producers
	streams    streams
	storages   storages
	store      *service.Store
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorages()
	if cfg.Broker.Enabled() {
		app.initSerdes()
		app.initProducers()
		app.initInquiryCounter()
	}
	app.initCoreService()
	if cfg.Broker.Enabled() && app.storages.sqldb != nil {
		app.initQuotesConsumer()
	}
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorages() {
	const op = "App.initStorages"
	log := slog.With("op", op)

	var (
		prefs *storage.PreferenceStorage
		err   error
	)
	if app.cfg.PreferencesPath == "" {
		log.Warn("preferences path is not set, keeping preferences in memory")
		prefs, err = storage.NewMemPreferenceStorage()
	} else {
		prefs, err = storage.NewPreferenceStorage(app.cfg.PreferencesPath)
	}
	if err != nil {
		app.fallDown(op, err)
	}
	app.storages.preferences = prefs

	if app.cfg.SQLDB == "" {
		log.Warn("sql database is not set, quote archive is disabled")
		return
	}

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.storages.sqldb = &sqldb
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	topics := app.cfg.Broker.Topics
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	auditEntrySerde, err := schema.NewSerdeAuditEntryV1(
		ctx,
		schema.SubjectOpt(schema.SubjectName(topics.AuditLog)),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	quoteSerde, err := schema.NewSerdeQuoteV1(
		ctx,
		schema.SubjectOpt(schema.SubjectName(topics.Quotes)),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.auditEntry = auditEntrySerde
	app.serdes.quote = quoteSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	auditLogProducer, err := kafka.NewAuditLogProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.AuditLog),
		kafka.ProducerEncoderOpt(app.serdes.auditEntry),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	quotesProducer, err := kafka.NewQuotesProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.Quotes),
		kafka.ProducerEncoderOpt(app.serdes.quote),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.auditLog = &auditLogProducer
	app.producers.quotes = &quotesProducer
}

func (app *App) initInquiryCounter() {
	const op = "App.initInquiryCounter"

	seedBrokers := app.cfg.Broker.SeedBrokers
	group := app.cfg.Broker.Consumers.InquiryCounterGroup

	proc, err := kafka.NewInquiryCounterProc(
		seedBrokers,
		app.cfg.Broker.Topics.Quotes,
		group,
		app.serdes.quote,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewInquiryView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.streams.inquiryProc = proc
	app.streams.inquiryView = view
}

func (app *App) initCoreService() {
	opts := []service.Opt{
		service.SyncDelaysOpt(
			app.cfg.SyncDelay.Catalog, app.cfg.SyncDelay.Quote,
		),
		service.PreferenceStorageOpt(app.storages.preferences),
		service.MaxSessionsOpt(app.cfg.MaxSessions),
	}

	if app.producers.auditLog != nil {
		opts = append(opts,
			service.AuditLogProducerOpt(app.producers.auditLog),
			service.QuotesProducerOpt(app.producers.quotes),
		)
	}

	if app.streams.inquiryProc != nil {
		opts = append(opts, service.InquiryCounterOpt(
			app.streams.inquiryView, app.streams.inquiryProc,
		))
	}

	if app.storages.sqldb != nil {
		opts = append(opts, service.QuotesStorageOpt(
			storage.NewQuotesRepository(app.storages.sqldb),
		))
	}

	app.store = service.New(opts...)
}

func (app *App) initQuotesConsumer() {
	const op = "App.initQuotesConsumer"

	c, err := kafka.NewQuotesConsumer(
		kafka.ConsumerClientOpt(
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.Quotes,
			app.cfg.Broker.Consumers.QuoteArchiveGroup,
		),
		kafka.ConsumerDecoderOpt(app.serdes.quote),
		kafka.QuotesConsumerSaverOpt(app.store),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.streams.quotesConsumer = &c
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	key := []byte(app.cfg.SessionKey)
	if len(key) == 0 {
		slog.Warn(
			"session key is not set, sessions will not survive restart",
			"op", op,
		)
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			app.fallDown(op, fmt.Errorf("failed to generate session key"))
		}
	}

	mux := http.NewServeMux()
	httphandler.Register(mux, app.store)

	sessions := httphandler.NewSessions(
		httphandler.NewCookieStore(key), app.store,
	)
	handler := httphandler.NewHandler(mux, sessions)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	app.store.Run(app.ctx, stopFn)

	if v := app.streams.inquiryView; v != nil {
		go v.Run(app.ctx)
	}

	if c := app.streams.quotesConsumer; c != nil {
		go c.Run(app.ctx)
	}

	go app.pruneSessions()
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) pruneSessions() {
	const op = "App.pruneSessions"
	log := slog.With("op", op)

	t := time.NewTicker(pruneInterval)
	defer t.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-t.C:
			if n := app.store.PruneSessions(sessionIdle); n != 0 {
				log.Info("idle sessions pruned", "nSessions", n)
			}
		}
	}
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if err := app.store.Wait(ctx); err != nil {
		slog.Error("pending writes are lost", "err", err)
	}

	if p := app.producers.auditLog; p != nil {
		p.Close()
	}
	if p := app.producers.quotes; p != nil {
		p.Close()
	}
	if c := app.streams.quotesConsumer; c != nil {
		c.Close()
	}
	app.store.Close()

	if db := app.storages.sqldb; db != nil {
		db.Close()
	}
	app.storages.preferences.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
