package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/nats-io/nats.go"

	config "github.com/avvvet/card-services/configs"
	"github.com/avvvet/card-services/internal/cardsvc/audit"
	"github.com/avvvet/card-services/internal/cardsvc/broker"
	cardcfg "github.com/avvvet/card-services/internal/cardsvc/config"
	pg "github.com/avvvet/card-services/internal/cardsvc/db"
	handlers "github.com/avvvet/card-services/internal/cardsvc/handlers"
	"github.com/avvvet/card-services/internal/cardsvc/service"
	"github.com/avvvet/card-services/internal/cardsvc/store"
	"github.com/avvvet/card-services/internal/db"
	natsconn "github.com/avvvet/card-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "card"

var instanceId string

func init() {
	config.LoadEnv(SERVICE_NAME)
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId[:8])
}

func main() {
	cfg, err := cardcfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cardStore := openStore(cfg)
	defer pg.ClosePool()

	var notifiers []service.Notifier
	var auditStore *audit.MongoAuditStore

	// card change audit trail (optional)
	if cfg.MongoURI != "" {
		mdb, client, err := db.ConnectToDB(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		auditStore = audit.NewMongoAuditStore(mdb)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := auditStore.EnsureIndexes(ctx); err != nil {
			log.Warnf("unable to create audit index %v", err)
		}
		cancel()

		notifiers = append(notifiers, auditStore)
		log.Printf("mongo audit store ready")
	}

	var nc *natsconn.Nats
	if cfg.NatsUrl != "" {
		nc, err = natsconn.Connect(cfg.NatsUrl, cfg.NatsToken, SERVICE_NAME+"_service_"+instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		defer nc.Conn.Close()
		log.Printf("NATS connection established successfully %s", nc.Url)
	}

	var cardBroker *broker.Broker
	if nc != nil {
		cardBroker = broker.NewBroker(nc.Conn, nil)
		notifiers = append(notifiers, cardBroker)
	}

	cardService := service.NewCardService(cardStore, cfg.AuditActor,
		service.WithInsertAttempts(cfg.CardNumberRetries),
		service.WithNotifiers(notifiers...),
	)

	// answer card and audit lookups from sibling services
	var subs []*nats.Subscription
	if cardBroker != nil {
		cardBroker.CardService = cardService
		sub, err := cardBroker.QueueSubscribeCardQuery(broker.QueryTopic, SERVICE_NAME+"_service")
		if err != nil {
			log.Fatalf("Error: unable to subscribe to queue %v", err)
		}
		subs = append(subs, sub)

		if auditStore != nil {
			cardBroker.Audit = auditStore
			sub, err := cardBroker.QueueSubscribeAuditQuery(broker.AuditTopic, SERVICE_NAME+"_service")
			if err != nil {
				log.Fatalf("Error: unable to subscribe to queue %v", err)
			}
			subs = append(subs, sub)
		}
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.AllowedOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(c.Handler)

	// Init handlers and routes
	h, err := handlers.NewHandler(cardService, cfg.BuildVersion, cfg.Contact)
	if err != nil {
		log.Fatalf("Failed to init handlers: %v", err)
	}
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	for _, sub := range subs {
		sub.Unsubscribe()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

func openStore(cfg cardcfg.Config) store.CardStore {
	if cfg.StoreBackend == "mem" {
		log.Warn("using in-memory card store, data is lost on restart")
		return store.NewMemoryCardStore(cfg.AuditActor)
	}

	// pg connection
	dbpool, err := pg.Connect(cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	log.Printf("pg connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pg.Migrate(ctx, dbpool); err != nil {
		log.Fatalf("Failed to migrate cards schema: %v", err)
	}

	return store.NewCardStore(dbpool, cfg.AuditActor)
}
