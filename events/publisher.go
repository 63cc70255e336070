package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"supermarket-erp/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher announces domain events to other systems
type Publisher interface {
	PublishSaleRecorded(ctx context.Context, sale models.Sale) error
	PublishStockLow(ctx context.Context, item models.StockItem) error
	Close() error
}

// RabbitPublisher publishes JSON events to the topic exchange
type RabbitPublisher struct {
	ch  *amqp.Channel
	now func() time.Time
}

// Dial connects to the broker at url
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// NewRabbitPublisher opens a channel on conn and declares the exchange
func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &RabbitPublisher{ch: ch, now: time.Now}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishSaleRecorded(ctx context.Context, sale models.Sale) error {
	body, err := json.Marshal(newSaleRecordedEvent(sale, p.now()))
	if err != nil {
		return fmt.Errorf("marshal SaleRecorded: %w", err)
	}
	return p.publishJSON(ctx, SaleRecordedRoutingKey, body)
}

func (p *RabbitPublisher) PublishStockLow(ctx context.Context, item models.StockItem) error {
	body, err := json.Marshal(newStockLowEvent(item, p.now()))
	if err != nil {
		return fmt.Errorf("marshal StockLow: %w", err)
	}
	return p.publishJSON(ctx, StockLowRoutingKey, body)
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// NopPublisher drops every event. It stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSaleRecorded(context.Context, models.Sale) error {
	return nil
}

func (NopPublisher) PublishStockLow(context.Context, models.StockItem) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
