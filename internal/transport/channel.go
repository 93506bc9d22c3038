// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package transport

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Sink accepts outbound messages without blocking the caller.
type Sink interface {
	Send(msg any)
}

// Publisher delivers an encoded payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Channel is a Sink for one topic. It keeps at most capacity encoded messages
// and drops the oldest one when a new message arrives on a full queue, so a
// slow broker only ever sees the most recent state. Run drains the queue.
type Channel struct {
	topic string
	pub   Publisher
	queue chan []byte
	log   *zap.Logger

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewChannel creates a channel for topic. capacity below 1 is treated as 1.
func NewChannel(topic string, capacity int, pub Publisher, log *zap.Logger) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		topic: topic,
		pub:   pub,
		queue: make(chan []byte, capacity),
		log:   log.With(zap.String("topic", topic)),
	}
}

// Topic returns the topic the channel publishes to.
func (c *Channel) Topic() string { return c.topic }

// Send encodes msg and queues it. Send must be called from a single goroutine.
func (c *Channel) Send(msg any) {
	payload, err := Encode(msg)
	if err != nil {
		c.log.Warn("dropping message", zap.Error(err))
		return
	}

	for {
		select {
		case c.queue <- payload:
			return
		default:
		}
		// full: evict the oldest and retry
		select {
		case <-c.queue:
			c.dropped.Add(1)
		default:
		}
	}
}

// Run publishes queued payloads until ctx is done. Publish errors are logged
// and otherwise ignored.
func (c *Channel) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.queue:
			if err := c.pub.Publish(c.topic, payload); err != nil {
				c.log.Debug("publish failed", zap.Error(err))
				continue
			}
			c.sent.Add(1)
		}
	}
}

// Sent is the number of payloads handed to the publisher successfully.
func (c *Channel) Sent() uint64 { return c.sent.Load() }

// Dropped is the number of payloads evicted before they could be published.
func (c *Channel) Dropped() uint64 { return c.dropped.Load() }
