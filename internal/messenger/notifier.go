package messenger

import (
	"encoding/json"

	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"go.uber.org/zap"
)

// SubscribeSaleNotifications publishes every sale receipt to the sale exchange.
func SubscribeSaleNotifications(events event.Manager, messageService MessageService) {
	events.AddEventListener(event.TokenSoldEvent, func(msg interface{}) {
		sold := msg.(event.TokenSold)

		body, err := json.Marshal(sold.Sale)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("[Queue] Failed to encode sale")
			return
		}

		if err := messageService.SendMessage(SaleNotification, body, true); err != nil {
			zap.L().With(zap.Error(err), zap.String("sale", sold.Sale.ID)).Error("[Queue] Failed to publish sale")
		}
	})
}
