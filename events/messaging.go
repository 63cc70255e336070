package events

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange         = "supermarket.events"
	SaleRecordedRoutingKey = "sale.recorded.v1"
	StockLowRoutingKey     = "stock.low.v1"
	producerName           = "supermarket-erp"
)

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
