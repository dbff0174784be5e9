// Package mqtt implements the MQTT trigger source described in spec §4.2
// item 3: it subscribes to device-twin update-result topics and turns each
// matching publish into a device index for the mapper.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/edgemesh/ruleengine/pkg/model"
	"github.com/edgemesh/ruleengine/pkg/resource"
)

const (
	// topicPattern is the subscription filter. The server never publishes,
	// only subscribes, so QoS is fixed at AtMostOnce (spec §6).
	topicPattern = "$hw/events/device/+/twin/update/result"
	clientID     = "ruleengine"
)

// deviceNameRegex extracts the device name out of a concrete topic. Per
// spec §9 open question (1), a device name containing '/' will never match
// and the publish is silently dropped — logged at trace (debug) level only.
var deviceNameRegex = regexp.MustCompile(`^\$hw/events/device/([a-zA-Z0-9_-]+)/twin/update/result$`)

// Config configures the MQTT trigger source.
type Config struct {
	Broker    string // e.g. "tcp://127.0.0.1:1883"
	Namespace string // default "default", per spec §9 open question (3)
}

// Trigger subscribes to the broker and emits matched device indices.
type Trigger struct {
	cfg     Config
	devices chan<- model.DeviceIndex
	log     *slog.Logger
	client  mqtt.Client
}

// New builds a Trigger. devices is the shared channel the Mapper consumes.
func New(cfg Config, devices chan<- model.DeviceIndex, log *slog.Logger) *Trigger {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	return &Trigger{cfg: cfg, devices: devices, log: log}
}

// Run connects, subscribes, and blocks until ctx is done. It returns an
// error only when the initial connect or subscribe fails. Incoming packets
// are handled inside the paho client: an unexpected packet does not end
// this task, and a lost connection is logged and left to auto-reconnect.
func (t *Trigger) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(t.cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(c mqtt.Client) {
			t.log.Info("mqtt connected", "broker", t.cfg.Broker)
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			t.log.Error("mqtt connection lost", "error", err)
		})

	t.client = mqtt.NewClient(opts)
	if token := t.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect to %s: %w", t.cfg.Broker, token.Error())
	}
	defer t.client.Disconnect(250)

	token := t.client.Subscribe(topicPattern, 0, t.onMessage)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topicPattern, token.Error())
	}

	<-ctx.Done()
	return nil
}

func (t *Trigger) onMessage(_ mqtt.Client, msg mqtt.Message) {
	match := deviceNameRegex.FindStringSubmatch(msg.Topic())
	if match == nil {
		t.log.Debug("mqtt topic did not match device update pattern, dropping", "topic", msg.Topic())
		return
	}
	idx := resource.New[resource.Device](t.cfg.Namespace, match[1])
	select {
	case t.devices <- idx:
	case <-time.After(time.Second):
		t.log.Warn("mqtt trigger: device queue send timed out", "device", idx.String())
	}
}
