package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDelivery(t *testing.T) {
	deliveries.Reset()

	observeDelivery("slack", "application", nil, 30*time.Millisecond)
	observeDelivery("slack", "application", errors.New("502"), time.Second)
	observeDelivery("discord", "contact", nil, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(deliveries.WithLabelValues("slack", "application", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(deliveries.WithLabelValues("slack", "application", "failed")))
	assert.Equal(t, 3, testutil.CollectAndCount(deliveries))
}
