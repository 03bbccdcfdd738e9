package app

import (
	"ookscan/pkg/mqtt"
	"ookscan/pkg/report"

	"github.com/womat/debug"
)

// frameMessage is the mqtt payload of a decoded frame.
type frameMessage struct {
	Protocol string `json:"protocol"`
	report.Frame
}

// publish sends every decoded frame to the mqtt topic of its protocol.
// Nothing is sent if no broker is configured.
func (app *App) publish(reports []report.Report) {
	if !app.mqtt.Connected() {
		return
	}

	for _, r := range reports {
		topic := mqtt.Topic(app.config.MQTT.Topic, r.Protocol)
		for _, f := range r.Frames {
			if err := app.mqtt.Publish(topic, frameMessage{Protocol: r.Protocol, Frame: f}); err != nil {
				debug.ErrorLog.Printf("publish frame %v: %v", f.Bits, err)
			}
		}
	}
}
