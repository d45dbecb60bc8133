package handler

import (
	"github.com/NKavindya/device-mgt-core-sub000/internal/broker"
	"github.com/NKavindya/device-mgt-core-sub000/internal/configstore"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/notification"
)

type Handlers struct {
	Notification *NotificationHandler
	Config       *ConfigHandler
	Stream       *StreamHandler
}

func NewHandlers(notifService notification.Service, configs configstore.Store, eventBroker *broker.Broker) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(notifService),
		Config:       NewConfigHandler(configs),
		Stream:       NewStreamHandler(eventBroker),
	}
}
