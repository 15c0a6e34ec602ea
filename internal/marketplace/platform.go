package marketplace

import (
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"go.uber.org/zap"
)

func (e engine) Platform() entity.PlatformConfig {
	e.platformMu.RLock()
	defer e.platformMu.RUnlock()

	return *e.platform
}

func (e engine) GetPlatformFee() entity.Wei {
	return e.Platform().Fee
}

func (e engine) GetFeeRecipient() entity.Address {
	return e.Platform().FeeRecipient
}

// UpdatePlatformFee applies to listings created afterwards. Open listings keep
// the fee they were listed with.
func (e engine) UpdatePlatformFee(caller entity.Address, fee entity.Wei) (entity.PlatformConfig, error) {
	return e.updatePlatform(caller, event.PlatformFeeUpdatedEvent, func(p *entity.PlatformConfig) error {
		p.Fee = fee
		return nil
	})
}

func (e engine) ChangeFeeRecipient(caller, recipient entity.Address) (entity.PlatformConfig, error) {
	return e.updatePlatform(caller, event.FeeRecipientChangedEvent, func(p *entity.PlatformConfig) error {
		if !recipient.Valid() {
			return ErrInvalidAddress
		}
		p.FeeRecipient = recipient
		return nil
	})
}

func (e engine) updatePlatform(caller entity.Address, eventType event.Type, update func(p *entity.PlatformConfig) error) (entity.PlatformConfig, error) {
	e.platformMu.Lock()
	if caller != e.platform.Owner {
		e.platformMu.Unlock()
		zap.L().With(zap.String("caller", caller.String()), zap.String("event", string(eventType))).
			Warn("Marketplace: Unauthorized platform update")
		return entity.PlatformConfig{}, ErrUnauthorized
	}

	next := *e.platform
	if err := update(&next); err != nil {
		e.platformMu.Unlock()
		return entity.PlatformConfig{}, err
	}
	*e.platform = next
	e.platformMu.Unlock()

	zap.L().With(
		zap.String("fee", next.Fee.String()),
		zap.String("feeRecipient", next.FeeRecipient.String()),
	).Info("Marketplace: Platform updated")

	e.emit(eventType, event.PlatformUpdated{Platform: next, At: time.Now().UTC()})

	return next, nil
}
