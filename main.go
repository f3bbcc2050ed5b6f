package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/cyverse-de/configurate"
	"github.com/cyverse-de/go-mod/otelutils"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/db"
	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/handlers"
	"github.com/bigheart-studio/studio-booking/metrics"
	"github.com/bigheart-studio/studio-booking/publisher"
	"github.com/bigheart-studio/studio-booking/router"
)

var log = common.Log

const defaultConfig = `
listen:
  port: 5000

db:
  driver: sqlite
  uri: file:bigheart.db?_time_format=sqlite

admin:
  password: admin123

uploads:
  dir: uploads

public:
  dir: public

amqp:
  uri: ""
  exchange:
    name: studio
    type: topic
`

// shutdownTimeout bounds the time in-flight requests get to finish once a signal arrives.
const shutdownTimeout = 5 * time.Second

// commandLineOptionValues represents the values of the command-line options that were passed on the command line when
// this service was invoked.
type commandLineOptionValues struct {
	Config string
	Debug  bool
}

func parseCommandLine() *commandLineOptionValues {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	// Default option values.
	defaultConfigPath := "/etc/bigheart/studio.yml"

	// Define the command-line options.
	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.Config, "config", defaultConfigPath,
		opt.Alias("c"),
		opt.Description("the path to the configuration file"))
	opt.BoolVar(&optionValues.Debug, "debug", false,
		opt.Alias("d"),
		opt.Description("enable debug logging"))

	// Parse the command line, handling requests for help and usage errors.
	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues
}

// loadConfig reads the configuration file over the built-in defaults. Only the defaults are used when the file
// doesn't exist. Environment variables override both, with dots replaced by underscores, so ADMIN_PASSWORD
// sets admin.password.
func loadConfig(path string) (*viper.Viper, error) {
	cfg, err := configurate.InitDefaults(path, defaultConfig)
	if err != nil {
		return nil, err
	}

	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	return cfg, nil
}

func newPublisher(cfg *viper.Viper) publisher.Publisher {
	amqpSettings := &common.AMQPSettings{
		URI:          cfg.GetString("amqp.uri"),
		ExchangeName: cfg.GetString("amqp.exchange.name"),
		ExchangeType: cfg.GetString("amqp.exchange.type"),
	}
	if amqpSettings.URI == "" {
		log.Info("no AMQP URI configured; notifications will not be published")
		return publisher.Nop{}
	}

	pub, err := publisher.New(amqpSettings)
	if err != nil {
		log.Fatal(err)
	}
	return pub
}

func main() {
	// Parse the command-line.
	optionValues := parseCommandLine()

	// Initialize logging.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	if optionValues.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Load a .env file if there is one.
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %s", err)
	}

	// Read in the configuration file.
	cfg, err := loadConfig(optionValues.Config)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize tracing.
	tracerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdownTracer := otelutils.TracerProviderFromEnv(tracerCtx, common.ServiceName, func(e error) { log.Fatal(e) })
	defer shutdownTracer()

	// Establish the database connection.
	driverName := cfg.GetString("db.driver")
	sqlDB, err := db.InitDatabase(driverName, cfg.GetString("db.uri"))
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	dbClient, err := db.NewClient(sqlDB, driverName)
	if err != nil {
		log.Fatal(err)
	}
	if err = dbClient.Migrate(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Set up notification publishing.
	pub := newPublisher(cfg)
	defer pub.Close()

	// Register the metrics collectors.
	metrics.Register(prometheus.DefaultRegisterer)

	uploadDir := cfg.GetString("uploads.dir")
	if err = os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatal(err)
	}

	h := handlers.New(dbClient, pub, gate.New(cfg.GetString("admin.password")), uploadDir)
	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.GetInt("listen.port")),
		Handler: router.NewRouter(h, router.Config{
			UploadDir: uploadDir,
			PublicDir: cfg.GetString("public.dir"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server.
	go func() {
		log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Wait for a termination signal, then let in-flight requests finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err = srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced to shut down: %s", err)
	}
}
