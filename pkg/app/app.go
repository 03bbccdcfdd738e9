package app

import (
	"net/url"
	"sync"
	"time"

	"ookscan/pkg/app/config"
	"ookscan/pkg/metrics"
	"ookscan/pkg/mqtt"
	"ookscan/pkg/report"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/womat/debug"
)

// bodyLimit is the largest trace accepted by the decode web service.
const bodyLimit = 64 << 20

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:4000/
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// registry holds the prometheus metrics of this instance
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// last is the result of the last scan
	last lastScan

	// shutdown signals application shutdown
	shutdown chan struct{}
}

// lastScan holds the reports of the last decoded trace.
type lastScan struct {
	sync.Mutex
	time    time.Time
	reports []report.Report
}

// New checks the Web server URL and initialize the main app structure
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	reg := prometheus.NewRegistry()

	app := &App{
		config:    config,
		urlParsed: u,

		web: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             bodyLimit,
		}),
		mqtt: mqtt.New(),

		registry: reg,
		metrics:  metrics.New(reg),

		shutdown: make(chan struct{}),
	}

	// initDefaultRoutes should be always called last because it may access things like app.metrics
	app.initDefaultRoutes()

	return app, nil
}

// Run connects to the mqtt broker and starts the web server.
func (app *App) Run() error {
	if err := app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()

	return nil
}

// Shutdown returns the read only shutdown channel.
// Shutdown is used to be able to react on application shutdown. (see cmd/ookscan.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

func (app *App) Close() error {
	if app.web != nil {
		_ = app.web.Shutdown()
	}

	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}
	return nil
}
