package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-DeliveryScheduler/internal/domain"
)

// Routing keys событий журнала бронирований
const (
	RoutingBookingCommitted = "booking.committed"
	RoutingBookingCancelled = "booking.cancelled"
)

// BookingEvent тело сообщения о бронировании
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	Shop       string    `json:"shop"`
	Date       string    `json:"date"`
	SlotID     string    `json:"slotId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewBookingEvent строит событие из записи журнала
func NewBookingEvent(eventType string, record *domain.BookingRecord, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  record.ID,
		Shop:       record.Shop,
		Date:       record.Date,
		SlotID:     record.SlotID.String(),
		OrderID:    record.OrderID,
		CustomerID: record.CustomerID,
		OccurredAt: at.UTC(),
	}
}

// Publisher публикует события бронирований в topic exchange RabbitMQ
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

// NewPublisher объявляет exchange и создает издателя
func NewPublisher(channel *amqp.Channel, exchange string, timeout time.Duration) (*Publisher, error) {
	err := channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSetup, exchange, err)
	}

	return &Publisher{channel: channel, exchange: exchange, timeout: timeout}, nil
}

// BookingCommitted публикует событие о новом бронировании
func (p *Publisher) BookingCommitted(ctx context.Context, record *domain.BookingRecord) error {
	return p.publish(ctx, NewBookingEvent(RoutingBookingCommitted, record, time.Now()))
}

// BookingCancelled публикует события об отменённых бронированиях
func (p *Publisher) BookingCancelled(ctx context.Context, records []*domain.BookingRecord) error {
	now := time.Now()
	for _, record := range records {
		if err := p.publish(ctx, NewBookingEvent(RoutingBookingCancelled, record, now)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPublish, event.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.BookingID,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %s order=%s: %v", ErrPublish, event.Type, event.OrderID, err)
	}

	return nil
}
