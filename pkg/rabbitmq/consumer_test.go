package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQosFor(t *testing.T) {
	assert.Equal(t, byte(1), QosFor("coffee/prediction/0"))
	assert.Equal(t, byte(1), QosFor("coffee/prediction/#"))
	assert.Equal(t, byte(1), QosFor("coffee/export"))
	assert.Equal(t, byte(0), QosFor("coffee/heartbeat"))
}
