package app

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"ookscan/pkg/ook"
	"ookscan/pkg/protocol"
	"ookscan/pkg/report"
	"ookscan/pkg/scan"
	"ookscan/pkg/trace"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/womat/debug"
)

// protocolResp is the web representation of a protocol template.
type protocolResp struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	PulseLength int64  `json:"pulselength"`
	Start       [2]int `json:"start"`
	Zero        [2]int `json:"zero"`
	One         [2]int `json:"one"`
}

// dataResp is the result of the last decoded trace.
type dataResp struct {
	TimeStamp time.Time       `json:"time"`
	Reports   []report.Report `json:"reports"`
}

// runWebServer starts the applications web server and listens for web requests.
// It's designed to run in a separate go function to not block the main go function.
//
//	e.g.: go runWebServer()
//
// See app.Run()
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData returns the reports of the last decoded trace.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		app.last.Lock()
		defer app.last.Unlock()

		return ctx.JSON(dataResp{TimeStamp: app.last.time, Reports: app.last.reports})
	}
}

// HandleProtocols returns the configured protocol templates.
func (app *App) HandleProtocols() fiber.Handler {
	waveform := func(w protocol.Waveform) [2]int {
		return [2]int{w.High, w.Low}
	}

	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request protocols")

		resp := make([]protocolResp, 0, len(app.config.Protocols))
		for i, t := range app.config.Protocols {
			resp = append(resp, protocolResp{
				Index:       i,
				Name:        t.Name,
				PulseLength: t.PulseLength.Microseconds(),
				Start:       waveform(t.Start),
				Zero:        waveform(t.Zero),
				One:         waveform(t.One),
			})
		}
		return ctx.JSON(resp)
	}
}

// HandleDecode decodes the trace of the request body with all configured protocols.
// The query parameter protocol restricts the scan to one protocol index.
//
//	curl --data-binary @trace.csv http://localhost:4000/decode?protocol=0
func (app *App) HandleDecode() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request decode")

		body := ctx.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "empty trace")
		}

		templates := app.config.Protocols
		if q := ctx.Query("protocol"); q != "" {
			i, err := strconv.Atoi(q)
			if err != nil || i < 0 || i >= len(templates) {
				return fiber.NewError(fiber.StatusBadRequest, "invalid protocol index "+q)
			}
			templates = templates[i : i+1]
		}

		edges, err := trace.ReadAll(bytes.NewReader(body))
		if err != nil {
			app.metrics.ScanErrors.Inc()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := scan.Run(ctx.UserContext(), edges, templates, app.config.ScanOptions())
		if err != nil {
			app.metrics.ScanErrors.Inc()
			debug.ErrorLog.Printf("decode trace: %v", err)

			if errors.Is(err, ook.ErrOutOfOrder) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		app.metrics.Observe(reports)
		resp := report.NewAll(reports)

		app.last.Lock()
		app.last.time = time.Now()
		app.last.reports = resp
		app.last.Unlock()

		app.publish(resp)

		return ctx.JSON(resp)
	}
}

// HandleMetrics serves the prometheus metrics of the application registry.
func (app *App) HandleMetrics() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
}
