// Package push delivers push notifications through Firebase Cloud Messaging.
// The service layer decides whether a recipient should be pushed at all; this
// package only carries the payload over the wire.
package push

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/maddevsio/fcm.v1"
)

// Dispatcher sends one push notification to a device token.
type Dispatcher interface {
	Send(token, title, body string, data map[string]interface{}) error
}

// FCMDispatcher implements Dispatcher against the FCM legacy HTTP API.
type FCMDispatcher struct {
	serverKey string
	logger    *logrus.Logger
}

// NewFCMDispatcher creates a dispatcher using the given FCM server key.
func NewFCMDispatcher(serverKey string, logger *logrus.Logger) *FCMDispatcher {
	return &FCMDispatcher{serverKey: serverKey, logger: logger}
}

func (d *FCMDispatcher) Send(token, title, body string, data map[string]interface{}) error {
	c := fcm.NewFCM(d.serverKey)

	response, err := c.Send(fcm.Message{
		Data:             data,
		RegistrationIDs:  []string{token},
		ContentAvailable: true,
		Priority:         fcm.PriorityHigh,
		Notification: fcm.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"status":  response.StatusCode,
		"success": response.Success,
		"fail":    response.Fail,
	}).Debug("push delivered")

	return nil
}

// NopDispatcher discards every push. Used when no FCM key is configured and
// in tests.
type NopDispatcher struct{}

func (NopDispatcher) Send(string, string, string, map[string]interface{}) error {
	return nil
}
