package rabbitmq_test

import (
	"encoding/json"
	"testing"
	"time"

	"propertyapi/internal/models"
	"propertyapi/pkg/rabbitmq"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEvent(t *testing.T) {
	occurred := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	event := models.PropertyEvent{
		ID:         "2f4a1b2c-0000-4000-8000-000000000001",
		Type:       models.PropertyCreated,
		PropertyID: 7,
		Property:   &models.Property{ID: 7, Address: "X", Price: 100, Bedrooms: 2, Bathrooms: 1},
		OccurredAt: occurred,
	}

	msg, err := rabbitmq.EncodeEvent(event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.ID, msg.MessageId)
	assert.Equal(t, models.PropertyCreated, msg.Type)
	assert.Equal(t, occurred, msg.Timestamp)

	var decoded models.PropertyEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, event, decoded)
}

func TestEncodeEvent_DeleteOmitsProperty(t *testing.T) {
	msg, err := rabbitmq.EncodeEvent(models.PropertyEvent{ID: "id", Type: models.PropertyDeleted, PropertyID: 3})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &raw))
	assert.NotContains(t, raw, "property")
	assert.EqualValues(t, 3, raw["propertyId"])
}
