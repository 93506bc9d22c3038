// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/fake_humans/internal/config"
	"github.com/relabs-tech/fake_humans/internal/humans"
	"github.com/relabs-tech/fake_humans/internal/simulation"
	"github.com/relabs-tech/fake_humans/internal/transport"
)

const connectTimeout = 5 * time.Second

// Producer publishes one simulated human per tick.
type Producer struct {
	source  simulation.Source
	humans  transport.Sink
	markers transport.Sink // nil when markers are disabled
	now     func() time.Time
	log     *zap.Logger
}

// NewProducer wires a source to its output sinks. Pass a nil markers sink to
// disable marker publishing.
func NewProducer(source simulation.Source, humansSink, markers transport.Sink, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{
		source:  source,
		humans:  humansSink,
		markers: markers,
		now:     time.Now,
		log:     log,
	}
}

// Tick advances the source once and sends the resulting messages.
func (p *Producer) Tick() humans.TrackedHumans {
	msg, marker := p.source.Next(p.now())
	p.humans.Send(msg)
	if p.markers != nil {
		p.markers.Send(marker)
	}

	if ce := p.log.Check(zap.DebugLevel, "tick"); ce != nil {
		h := msg.Tracks[0]
		ce.Write(
			zap.Float64("x", h.Pose.Position.X),
			zap.Float64("y", h.Pose.Position.Y),
			zap.Float64("yaw", h.Pose.Orientation.Yaw()),
			zap.Float64("vx", h.Twist.Linear.X),
			zap.Float64("vy", h.Twist.Linear.Y),
			zap.Float64("wz", h.Twist.Angular.Z),
		)
	}
	return msg
}

// Run ticks immediately and then every interval until ctx is done.
// Missed ticks are skipped, not caught up. Cancellation returns nil.
func (p *Producer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.Tick()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunHumanProducer connects to the broker from cfg and publishes the fake
// human until ctx is cancelled.
func RunHumanProducer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log = log.Named("producer")

	client := transport.NewMQTTClient(cfg.MQTTBroker, transport.ClientID(cfg.MQTTClientIDProducer), log)
	if err := client.Connect(connectTimeout); err != nil {
		if !errors.Is(err, transport.ErrTimeout) {
			return err
		}
		log.Warn("broker not reachable yet, publishing anyway", zap.Error(err))
	}
	defer client.Close()

	p, channels := newPublishingProducer(cfg, client, log)

	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range channels {
		ch := ch // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error { ch.Run(ctx); return nil })
	}

	log.Info("starting publish loop",
		zap.Float64("start_x", cfg.StartX), zap.Float64("start_y", cfg.StartY),
		zap.Float64("end_x", cfg.EndX), zap.Float64("end_y", cfg.EndY),
		zap.Bool("publish_markers", cfg.PublishMarkers),
		zap.Duration("period", simulation.TickPeriod),
	)
	g.Go(func() error { return p.Run(ctx, simulation.TickPeriod) })

	err := g.Wait()
	for _, ch := range channels {
		log.Info("channel stopped", zap.String("topic", ch.Topic()),
			zap.Uint64("sent", ch.Sent()), zap.Uint64("dropped", ch.Dropped()))
	}
	return err
}

// newPublishingProducer builds the generator from cfg and one channel per
// enabled topic. The humans channel holds a single pending message; the marker
// channel only exists when markers are enabled.
func newPublishingProducer(cfg *config.Config, pub transport.Publisher, log *zap.Logger) (*Producer, []*transport.Channel) {
	seg := simulation.Segment{
		Start: humans.Point{X: cfg.StartX, Y: cfg.StartY},
		End:   humans.Point{X: cfg.EndX, Y: cfg.EndY},
	}
	gen := simulation.NewGenerator(seg, cfg.FrameID)

	humansCh := transport.NewChannel(cfg.TopicHumans, 1, pub, log)
	channels := []*transport.Channel{humansCh}

	var markers transport.Sink
	if cfg.PublishMarkers {
		markerCh := transport.NewChannel(cfg.TopicHumansMarker, cfg.MarkerQueueSize, pub, log)
		channels = append(channels, markerCh)
		markers = markerCh
		log.Debug("will publish markers", zap.String("topic", markerCh.Topic()))
	}

	return NewProducer(gen, humansCh, markers, log), channels
}
