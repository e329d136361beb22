package statusfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/assetplan/assetmap-core/internal/audit"
	"github.com/assetplan/assetmap-core/internal/device"
	"github.com/assetplan/assetmap-core/internal/infrastructure/logging"
	"github.com/assetplan/assetmap-core/internal/infrastructure/mqtt"
)

// applyTimeout bounds the store round trip for a single report.
const applyTimeout = 5 * time.Second

// Broker is the subset of the MQTT client the feed uses.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Topics() mqtt.Topics
}

// HistorySink records applied transitions for later availability
// queries. Implemented by influxdb.Client; nil disables history.
type HistorySink interface {
	WriteStatusTransition(deviceID, locationID, status string)
}

// Notifier receives applied updates for fan-out to live consumers.
// nil disables notification.
type Notifier interface {
	DeviceUpdated(d device.Device)
}

// report is the payload agents publish on status topics.
type report struct {
	Status string `json:"status"`
}

// Feed subscribes to the status topic tree and applies reports.
type Feed struct {
	broker   Broker
	devices  device.Repository
	history  HistorySink
	notifier Notifier
	events   audit.Repository
	logger   *logging.Logger
	qos      byte
}

// New creates a feed. history and notifier may be nil.
func New(broker Broker, devices device.Repository, history HistorySink, notifier Notifier, qos byte, logger *logging.Logger) *Feed {
	return &Feed{
		broker:   broker,
		devices:  devices,
		history:  history,
		notifier: notifier,
		logger:   logger.With("component", "statusfeed"),
		qos:      qos,
	}
}

// SetEventLog enables recording applied transitions in the device
// change log. Must be called before Start.
func (f *Feed) SetEventLog(events audit.Repository) {
	f.events = events
}

// Start subscribes to the wildcard status topic. The subscription is
// restored automatically by the client after broker reconnects.
func (f *Feed) Start() error {
	topic := f.broker.Topics().AllDeviceStatuses()
	if err := f.broker.Subscribe(topic, f.qos, f.handleReport); err != nil {
		return fmt.Errorf("statusfeed: subscribe %s: %w", topic, err)
	}
	f.logger.Info("status feed started", "topic", topic)
	return nil
}

// Stop removes the subscription. Reports already in flight may still
// be delivered and applied.
func (f *Feed) Stop() error {
	topic := f.broker.Topics().AllDeviceStatuses()
	if err := f.broker.Unsubscribe(topic); err != nil && !errors.Is(err, mqtt.ErrNotConnected) {
		return fmt.Errorf("statusfeed: unsubscribe %s: %w", topic, err)
	}
	return nil
}

// handleReport validates and applies one published transition.
func (f *Feed) handleReport(topic string, payload []byte) error {
	deviceID := f.broker.Topics().DeviceIDFromStatusTopic(topic)
	if deviceID == "" {
		return fmt.Errorf("statusfeed: unrecognised topic %q", topic)
	}

	var r report
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("statusfeed: decode report for %s: %w", deviceID, err)
	}

	status := device.DeviceStatus(r.Status)
	if err := device.ValidateDeviceStatus(status); err != nil {
		return fmt.Errorf("statusfeed: report for %s: %w", deviceID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	d, err := f.devices.GetByID(ctx, deviceID)
	if errors.Is(err, device.ErrDeviceNotFound) {
		f.logger.Debug("status report for unmapped device", "device_id", deviceID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("statusfeed: load %s: %w", deviceID, err)
	}
	if d.Status == status {
		return nil
	}

	if err := f.devices.UpdateStatus(ctx, deviceID, status); err != nil {
		return fmt.Errorf("statusfeed: apply %s -> %s: %w", deviceID, status, err)
	}

	f.logger.Info("status transition applied",
		"device_id", deviceID,
		"from", d.Status,
		"to", status)

	if f.history != nil {
		f.history.WriteStatusTransition(deviceID, d.LocationID, string(status))
	}
	if f.events != nil {
		event := &audit.Event{
			Action:     audit.ActionStatus,
			DeviceID:   deviceID,
			LocationID: d.LocationID,
			Source:     audit.SourceMQTT,
			Details:    map[string]any{"from": string(d.Status), "to": string(status)},
		}
		if err := f.events.Record(ctx, event); err != nil {
			f.logger.Error("failed to record status event", "device_id", deviceID, "error", err)
		}
	}
	if f.notifier != nil {
		d.Status = status
		f.notifier.DeviceUpdated(*d)
	}
	return nil
}
