package messenger

import "github.com/streadway/amqp"

type exchange struct {
	Name        string
	Type        string
	Durable     bool
	AutoDeleted bool
	Internal    bool
	NoWait      bool
	Arguments   amqp.Table
}

// Every item publishes to a durable topic exchange of the same name.
var exchanges = topicExchanges(MetadataRefresh, SaleNotification)

func topicExchanges(items ...Item) map[Item]exchange {
	out := make(map[Item]exchange, len(items))
	for _, item := range items {
		out[item] = exchange{
			Name:    string(item),
			Type:    amqp.ExchangeTopic,
			Durable: true,
			NoWait:  true,
		}
	}
	return out
}

func (e exchange) declare(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(e.Name, e.Type, e.Durable, e.AutoDeleted, e.Internal, e.NoWait, e.Arguments)
}
