package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/jobhunter-api/internal/application/ports"
	"github.com/jhoicas/jobhunter-api/pkg/logger"
)

var _ ports.Mailer = (*AMQPPublisher)(nil)

// AMQPPublisher encola el correo en una cola durable; lo entrega cmd/mailer.
// La conexión se abre en el primer envío y se reabre si el broker la cierra.
type AMQPPublisher struct {
	url   string
	queue string
	log   *logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher construye el publicador. No conecta hasta el primer envío.
func NewAMQPPublisher(url, queue string, log *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log.Component("amqp-publisher")}
}

// EncodeVerification serializa el mensaje tal como viaja por la cola.
func EncodeVerification(m ports.VerificationMail) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeVerification interpreta un mensaje de la cola.
func DecodeVerification(body []byte) (ports.VerificationMail, error) {
	var m ports.VerificationMail
	if err := json.Unmarshal(body, &m); err != nil {
		return m, fmt.Errorf("unmarshal: %w", err)
	}
	if m.To == "" || m.Link == "" {
		return m, errors.New("mensaje sin destinatario o enlace")
	}
	return m, nil
}

// SendVerification publica el correo como mensaje persistente.
func (p *AMQPPublisher) SendVerification(ctx context.Context, m ports.VerificationMail) error {
	body, err := EncodeVerification(m)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.resetLocked()
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) channelLocked() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.resetLocked()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	p.log.Info().Str("queue", p.queue).Msg("conectado al broker")
	return ch, nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close cierra canal y conexión.
func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

// Consumer lee la cola de correos y entrega cada mensaje con el Mailer dado.
type Consumer struct {
	url      string
	queue    string
	delivery ports.Mailer
	log      *logger.Logger
}

// NewConsumer construye el consumidor.
func NewConsumer(url, queue string, delivery ports.Mailer, log *logger.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, delivery: delivery, log: log.Component("mail-consumer")}
}

// Run consume hasta que ctx se cancele, reconectando con backoff exponencial (máx. 30s).
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("no se pudo conectar al broker")
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consumo interrumpido, reconectando")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo fijar QoS")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info().Str("queue", c.queue).Msg("consumiendo")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de entregas cerrado")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				c.log.Error().Err(err).Msg("no se pudo entregar el correo")
				// Sin reencolar para no entrar en bucle con un mensaje defectuoso.
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodifica un mensaje y lo entrega.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	m, err := DecodeVerification(body)
	if err != nil {
		return err
	}
	return c.delivery.SendVerification(ctx, m)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
