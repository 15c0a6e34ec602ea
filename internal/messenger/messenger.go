package messenger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ZilDuck/elysium-marketplace/internal/config"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var (
	ErrExchangeNotFound = errors.New("exchange not found")
)

type MessageService interface {
	GetQueue(item Item) (*amqp.Queue, error)
	SendMessage(item Item, body []byte, reliable bool) error
	ConsumeMessages(ctx context.Context, item Item, callback func(msg []byte)) error
	GetQueueSize(item Item) (*int, error)
	Close() error
}

type Messenger struct {
	amqpUri string
	conn    *connection
}

type connection struct {
	mu   sync.Mutex
	amqp *amqp.Connection
}

type Item string

var (
	MetadataRefresh  Item = "metadata.refresh"
	SaleNotification Item = "marketplace.sale"
)

// Token identifies a token in a queued message.
type Token struct {
	Collection entity.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
}

func (i Item) queue() string {
	return fmt.Sprintf("%s.%s", config.Get().Index, i)
}

func NewMessenger(amqpUri string) MessageService {
	return Messenger{amqpUri: amqpUri, conn: &connection{}}
}

func (m Messenger) GetQueue(item Item) (*amqp.Queue, error) {
	ch, err := m.openChannel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	queue, err := ch.QueueDeclare(item.queue(), true, false, false, false, nil)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("queue", item.queue())).Error("[Queue] Failed to create queue")
		return nil, err
	}

	return &queue, nil
}

func (m Messenger) SendMessage(item Item, body []byte, reliable bool) error {
	ex, ok := exchanges[item]
	if !ok {
		zap.L().With(zap.String("item", string(item))).Error("[Queue] Exchange not found")
		return ErrExchangeNotFound
	}

	ch, err := m.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ex.declare(ch); err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Exchange Declare")
		return err
	}

	var confirms chan amqp.Confirmation
	if reliable {
		if err := ch.Confirm(false); err != nil {
			zap.L().With(zap.Error(err)).Error("[Queue] Channel could not be put into confirm mode")
			return err
		}

		confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	}

	publishing := amqp.Publishing{
		Headers:      amqp.Table{},
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}

	if err = ch.Publish(ex.Name, item.queue(), false, false, publishing); err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Exchange Publish")
		return err
	}

	if confirms != nil {
		m.confirmOne(confirms)
	}

	zap.L().With(zap.String("exchange", ex.Name), zap.String("routingKey", item.queue())).Debug("[Queue] Published message")

	return nil
}

// ConsumeMessages blocks delivering messages to callback until ctx is done or the channel closes.
func (m Messenger) ConsumeMessages(ctx context.Context, item Item, callback func(msg []byte)) error {
	ex, ok := exchanges[item]
	if !ok {
		return ErrExchangeNotFound
	}

	ch, err := m.openChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ex.declare(ch); err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Exchange Declare")
		return err
	}

	q, err := ch.QueueDeclare(item.queue(), true, false, false, false, nil)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to declare a queue")
		return err
	}

	if err = ch.QueueBind(q.Name, item.queue(), ex.Name, false, nil); err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to bind a queue")
		return err
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to consume the queue")
		return err
	}

	zap.S().With(zap.String("exchange", ex.Name)).Debugf("[Queue] Waiting for messages")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			zap.L().Debug("[Queue] Received message")
			callback(d.Body)
		}
	}
}

func (m Messenger) GetQueueSize(item Item) (*int, error) {
	queue, err := m.GetQueue(item)
	if err != nil {
		return nil, err
	}

	return &queue.Messages, nil
}

func (m Messenger) Close() error {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()

	if m.conn.amqp == nil || m.conn.amqp.IsClosed() {
		return nil
	}

	return m.conn.amqp.Close()
}

func (m Messenger) openConnection() (*amqp.Connection, error) {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()

	if m.conn.amqp != nil && !m.conn.amqp.IsClosed() {
		return m.conn.amqp, nil
	}

	conn, err := amqp.Dial(m.amqpUri)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Queue] Failed to connect to RabbitMQ")
		return nil, err
	}

	m.conn.amqp = conn

	return conn, nil
}

func (m Messenger) openChannel() (*amqp.Channel, error) {
	conn, err := m.openConnection()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		zap.S().With(zap.Error(err)).Error("[Queue] Failed to open channel")
	}

	return ch, err
}

func (m Messenger) confirmOne(confirms <-chan amqp.Confirmation) {
	zap.L().Debug("[Queue] Waiting for publish confirmation")

	if confirmed := <-confirms; confirmed.Ack {
		zap.L().Debug("[Queue] Publish confirmed")
	} else {
		zap.L().Warn("[Queue] Publish failed")
	}
}
