package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует события записей в RabbitMQ для сервиса уведомлений.
// Соединение держится открытым на всё время жизни сервиса; очереди durable,
// сообщения persistent. Ошибки публикации логируются вызывающей стороной и
// никогда не прерывают основной поток обработки запроса.
type Publisher struct {
	url string
	log Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher создает издателя и устанавливает соединение с брокером.
// Недоступность брокера на старте не фатальна: переподключение произойдёт
// при первой публикации.
func NewPublisher(url string, log Logger) *Publisher {
	p := &Publisher{url: url, log: log}
	if err := p.connect(); err != nil {
		log.Warn("notify: broker unavailable at startup, will retry on publish: %v", err)
	}
	return p
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrNotConnected, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: open channel: %v", ErrNotConnected, err)
	}

	for _, queue := range []string{
		QueueAppointmentConfirmed,
		QueueAppointmentCancelled,
		QueueAppointmentRescheduled,
	} {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return fmt.Errorf("%w: declare queue %s: %v", ErrNotConnected, queue, err)
		}
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) publish(ctx context.Context, queue string, event AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	err = p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = имя очереди
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		// Канал мог умереть - сбрасываем, чтобы следующая публикация переподключилась
		p.ch = nil
		return fmt.Errorf("%w: queue %s: %v", ErrPublish, queue, err)
	}

	return nil
}

// AppointmentConfirmed публикует событие подтверждения записи
func (p *Publisher) AppointmentConfirmed(ctx context.Context, event AppointmentEvent) error {
	return p.publish(ctx, QueueAppointmentConfirmed, event)
}

// AppointmentCancelled публикует событие отмены записи
func (p *Publisher) AppointmentCancelled(ctx context.Context, event AppointmentEvent) error {
	return p.publish(ctx, QueueAppointmentCancelled, event)
}

// AppointmentRescheduled публикует событие переноса записи
func (p *Publisher) AppointmentRescheduled(ctx context.Context, event AppointmentEvent) error {
	return p.publish(ctx, QueueAppointmentRescheduled, event)
}

// Close закрывает соединение с брокером
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}
