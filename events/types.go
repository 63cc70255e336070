package events

import (
	"time"

	"supermarket-erp/models"

	"github.com/google/uuid"
)

const (
	EventTypeSaleRecorded = "SaleRecorded"
	EventTypeStockLow     = "StockLow"
)

// EventEnvelope carries the metadata shared by every event
type EventEnvelope struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	OccurredAt   time.Time `json:"occurredAt"`
	PartitionKey string    `json:"partitionKey"`
}

type SaleLineEvent struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

type SaleRecordedPayload struct {
	SaleID        string          `json:"saleId"`
	TransactionID string          `json:"transactionId"`
	Cashier       string          `json:"cashier"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Lines         []SaleLineEvent `json:"lines"`
	Subtotal      int64           `json:"subtotal"`
	Tax           int64           `json:"tax"`
	Total         int64           `json:"total"`
	Timestamp     time.Time       `json:"timestamp"`
}

type SaleRecordedEvent struct {
	EventEnvelope
	Payload SaleRecordedPayload `json:"payload"`
}

type StockLowPayload struct {
	ProductID    string `json:"productId"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int    `json:"currentStock"`
	MinStock     int    `json:"minStock"`
	Status       string `json:"status"`
}

type StockLowEvent struct {
	EventEnvelope
	Payload StockLowPayload `json:"payload"`
}

func newEnvelope(name, key string, occurredAt time.Time) EventEnvelope {
	return EventEnvelope{
		EventName:    name,
		EventVersion: 1,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		OccurredAt:   occurredAt.UTC(),
		PartitionKey: key,
	}
}

func newSaleRecordedEvent(sale models.Sale, occurredAt time.Time) SaleRecordedEvent {
	payload := SaleRecordedPayload{
		SaleID:        sale.ID,
		TransactionID: sale.TransactionID,
		Cashier:       sale.Cashier,
		PaymentMethod: string(sale.PaymentMethod),
		Status:        string(sale.Status),
		Lines:         make([]SaleLineEvent, 0, len(sale.Lines)),
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Timestamp:     sale.Timestamp,
	}
	for _, l := range sale.Lines {
		payload.Lines = append(payload.Lines, SaleLineEvent{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return SaleRecordedEvent{
		EventEnvelope: newEnvelope(EventTypeSaleRecorded, sale.ID, occurredAt),
		Payload:       payload,
	}
}

func newStockLowEvent(item models.StockItem, occurredAt time.Time) StockLowEvent {
	return StockLowEvent{
		EventEnvelope: newEnvelope(EventTypeStockLow, item.ProductID, occurredAt),
		Payload: StockLowPayload{
			ProductID:    item.ProductID,
			SKU:          item.SKU,
			Name:         item.Name,
			CurrentStock: item.CurrentStock,
			MinStock:     item.MinStock,
			Status:       string(item.Status),
		},
	}
}
