package smtp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type recordingClient struct {
	attempts int
	failures int
}

func (c *recordingClient) DialAndSend(...*mail.Msg) error {
	c.attempts++
	if c.attempts <= c.failures {
		return errors.New("dial tcp: connection refused")
	}
	return nil
}

func TestSend_ReportsTotalDeliveryFailure(t *testing.T) {
	client := &recordingClient{failures: 3}
	mailer := &Mailer{client: client, from: "Horizon Bank <no_reply@horizonbank.test>"}

	err := mailer.Send("customer@example.test", map[string]any{"Username": "ramesh"}, "welcome.tmpl")

	require.Error(t, err)
	require.Equal(t, 3, client.attempts)
}

func TestSend_SucceedsOnFirstAttempt(t *testing.T) {
	client := &recordingClient{}
	mailer := &Mailer{client: client, from: "Horizon Bank <no_reply@horizonbank.test>"}

	err := mailer.Send("customer@example.test", map[string]any{"Username": "ramesh"}, "welcome.tmpl")

	require.NoError(t, err)
	require.Equal(t, 1, client.attempts)
}

func TestSend_RecoversOnRetry(t *testing.T) {
	client := &recordingClient{failures: 1}
	mailer := &Mailer{client: client, from: "Horizon Bank <no_reply@horizonbank.test>"}

	err := mailer.Send("customer@example.test", map[string]any{"Username": "ramesh"}, "welcome.tmpl")

	require.NoError(t, err)
	require.Equal(t, 2, client.attempts)
}
