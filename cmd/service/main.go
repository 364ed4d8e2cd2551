package main

import (
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"

	"github.com/pagerline/incident-backend/api"
	"github.com/pagerline/incident-backend/calendar"
	"github.com/pagerline/incident-backend/db"
	"github.com/pagerline/incident-backend/dispatch"
	"github.com/pagerline/incident-backend/notifications"
	"github.com/pagerline/incident-backend/notifications/chat"
	"github.com/pagerline/incident-backend/notifications/file"
	"github.com/pagerline/incident-backend/notifications/internallog"
	"github.com/pagerline/incident-backend/notifications/sendgrid"
	"github.com/pagerline/incident-backend/notifications/twilio"
	"github.com/pagerline/incident-backend/templates"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.StringP("secret", "s", "", "API secret")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "incident-backend", "The name of the MongoDB database")
	flag.String("chat-endpoint", "", "chat service base URL (empty for the provider default)")
	flag.String("call-callback-url", "", "public base URL for voice call TwiML callbacks")
	flag.String("templates-dir", "", "directory with notification templates (empty for the embedded ones)")
	flag.Bool("strict-audit", false, "fail a dispatch when the audit record cannot be stored")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("INCIDENT")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	mongoURL := viper.GetString("mongo-url")
	mongoDB := viper.GetString("mongo-db")
	chatEndpoint := viper.GetString("chat-endpoint")
	callCallbackURL := viper.GetString("call-callback-url")
	templatesDir := viper.GetString("templates-dir")
	strictAudit := viper.GetBool("strict-audit")
	// initialize the MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()
	// load the notification templates
	var tmpl *templates.Store
	if templatesDir != "" {
		tmpl, err = templates.LoadDir(templatesDir)
	} else {
		tmpl, err = templates.LoadDefault()
	}
	if err != nil {
		log.Fatalf("could not load the notification templates: %v", err)
	}
	// build the channel registry
	chatChannel := chat.New()
	if chatEndpoint != "" {
		chatChannel = chat.NewWithEndpoint(chatEndpoint)
	}
	registry, err := notifications.NewRegistry(map[db.ProviderKind]notifications.Channel{
		db.ProviderKindMail:        sendgrid.New(),
		db.ProviderKindFile:        file.New(),
		db.ProviderKindInternalLog: internallog.New(),
		db.ProviderKindChat:        chatChannel,
		db.ProviderKindVoiceCall:   twilio.New(callCallbackURL),
	})
	if err != nil {
		log.Fatalf("could not build the channel registry: %v", err)
	}
	// create the dispatch engine
	engine, err := dispatch.New(&dispatch.Config{
		Store:       database,
		Registry:    registry,
		Templates:   tmpl,
		Calendar:    calendar.Japanese{},
		StrictAudit: strictAudit,
	})
	if err != nil {
		log.Fatalf("could not create the dispatch engine: %v", err)
	}
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Secret: secret,
		DB:     database,
		Engine: engine,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
