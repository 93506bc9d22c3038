// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/relabs-tech/fake_humans/internal/config"
	"github.com/relabs-tech/fake_humans/internal/humans"
	"github.com/relabs-tech/fake_humans/internal/transport"
)

// FormatTracks renders a tracks message as a single console line.
func FormatTracks(msg humans.TrackedHumans) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[HUMANS] %s frame=%s n=%d", msg.Header.Stamp.Format("15:04:05.000"), msg.Header.FrameID, len(msg.Tracks))
	for _, h := range msg.Tracks {
		fmt.Fprintf(&b, " | id=%d X=%6.3f Y=%6.3f YAW=%7.2f° VX=%6.3f VY=%6.3f WZ=%7.3f",
			h.TrackID,
			h.Pose.Position.X, h.Pose.Position.Y,
			h.Pose.Orientation.Yaw()*180/math.Pi,
			h.Twist.Linear.X, h.Twist.Linear.Y, h.Twist.Angular.Z,
		)
	}
	return b.String()
}

// FormatMarker renders a marker message as a single console line.
func FormatMarker(m humans.Marker) string {
	return fmt.Sprintf("[MARKER] %s frame=%s id=%d X=%6.3f Y=%6.3f YAW=%7.2f°",
		m.Header.Stamp.Format("15:04:05.000"), m.Header.FrameID, m.ID,
		m.Pose.Position.X, m.Pose.Position.Y,
		m.Pose.Orientation.Yaw()*180/math.Pi,
	)
}

// consolePrinter serializes lines from the MQTT callback goroutines.
type consolePrinter struct {
	mu  sync.Mutex
	out io.Writer
	log *zap.Logger
}

func (c *consolePrinter) humans(payload []byte) {
	var msg humans.TrackedHumans
	if err := transport.Decode(payload, &msg); err != nil {
		c.log.Warn("humans unmarshal error", zap.Error(err))
		return
	}
	c.println(FormatTracks(msg))
}

func (c *consolePrinter) marker(payload []byte) {
	var m humans.Marker
	if err := transport.Decode(payload, &m); err != nil {
		c.log.Warn("marker unmarshal error", zap.Error(err))
		return
	}
	c.println(FormatMarker(m))
}

func (c *consolePrinter) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// RunConsoleMQTT prints every humans and marker message to out until ctx is
// cancelled.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, out io.Writer, log *zap.Logger) error {
	log = log.Named("console")

	client := transport.NewMQTTClient(cfg.MQTTBroker, transport.ClientID(cfg.MQTTClientIDConsole), log)
	if err := client.Connect(connectTimeout); err != nil {
		return err
	}
	defer client.Close()

	p := &consolePrinter{out: out, log: log}
	if err := client.Subscribe(cfg.TopicHumans, p.humans); err != nil {
		return err
	}
	if err := client.Subscribe(cfg.TopicHumansMarker, p.marker); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}
