package common

import (
	"github.com/mcnijman/go-emailaddress"
	"github.com/sirupsen/logrus"
)

// ServiceName is the name the server reports in logs, traces and published events.
const ServiceName = "studio-booking"

// Log is the base log entry shared by every package in the service.
var Log = logrus.WithFields(logrus.Fields{
	"service": ServiceName,
	"art-id":  ServiceName,
	"group":   "bigheart",
})

// AMQPSettings represents the settings that we require in order to connect to the AMQP exchange.
type AMQPSettings struct {
	URI          string
	ExchangeName string
	ExchangeType string
}

// ValidateEmailAddress returns an error if the format of an email address is invalid.
func ValidateEmailAddress(emailAddress string) error {
	_, err := emailaddress.Parse(emailAddress)
	return err
}
