package relay

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cret"

// --- Mocks ---

type mockNotifier struct {
	messages []string
	ctxErrs  []error
	err      error
}

func (m *mockNotifier) Notify(ctx context.Context, content string) error {
	m.messages = append(m.messages, content)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	return m.err
}

type mockObserver struct {
	outcomes []Outcome
}

func (m *mockObserver) Observe(_ context.Context, outcome Outcome) {
	m.outcomes = append(m.outcomes, outcome)
}

func signedRequest(event, body string) Request {
	return Request{
		Body:      []byte(body),
		Signature: Sign([]byte(body), testSecret),
		Event:     event,
		Delivery:  "delivery-1",
	}
}

// --- Tests ---

func TestProcess_StarEvent_NotifiesFormattedMessage(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	notifier := &mockNotifier{}
	relay := New(testSecret, notifier)

	// when
	outcome, err := relay.Process(context.Background(), signedRequest("star", starPayload))

	// then
	r.NoError(err)
	a.Equal([]string{"User alice created star on org/repo"}, notifier.messages)
	a.Equal("star", outcome.Event)
	a.Equal("delivery-1", outcome.Delivery)
	a.True(outcome.Delivered)
}

func TestProcess_BadSignature_SkipsNotification(t *testing.T) {
	a := assert.New(t)

	// given
	notifier := &mockNotifier{}
	observer := &mockObserver{}
	relay := New(testSecret, notifier, observer)
	req := signedRequest("star", starPayload)
	req.Signature = Sign(req.Body, "wrong")

	// when
	_, err := relay.Process(context.Background(), req)

	// then
	a.True(errors.Is(err, ErrUnauthorized))
	a.Empty(notifier.messages)
	a.Empty(observer.outcomes)
}

func TestProcess_MissingSignature_Rejected(t *testing.T) {
	notifier := &mockNotifier{}
	relay := New(testSecret, notifier)
	req := signedRequest("star", starPayload)
	req.Signature = ""

	_, err := relay.Process(context.Background(), req)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Empty(t, notifier.messages)
}

func TestProcess_EmptySecretIsStillAKey(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given a relay keyed by the empty string
	notifier := &mockNotifier{}
	relay := New("", notifier)
	body := []byte(starPayload)

	// when signed with the empty key
	_, err := relay.Process(context.Background(), Request{Body: body, Signature: Sign(body, ""), Event: "star"})

	// then
	r.NoError(err)
	a.Len(notifier.messages, 1)

	// when signed with any other key
	_, err = relay.Process(context.Background(), Request{Body: body, Signature: Sign(body, "other"), Event: "star"})

	// then
	a.True(errors.Is(err, ErrUnauthorized))
	a.Len(notifier.messages, 1)
}

func TestProcess_WithoutSecret_RejectsEverything(t *testing.T) {
	// given
	notifier := &mockNotifier{}
	relay := NewWithoutSecret(notifier)
	body := []byte(starPayload)

	// when
	_, err := relay.Process(context.Background(), Request{Body: body, Signature: Sign(body, ""), Event: "star"})

	// then
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Empty(t, notifier.messages)
}

func TestProcess_NotifierFailure_StillSucceeds(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	notifier := &mockNotifier{err: errors.New("discord returned 500")}
	observer := &mockObserver{}
	relay := New(testSecret, notifier, observer)

	// when
	outcome, err := relay.Process(context.Background(), signedRequest("issues", issuesPayload))

	// then
	r.NoError(err)
	a.False(outcome.Delivered)
	a.Equal("An issue was closed by bob", outcome.Message)
	r.Len(observer.outcomes, 1)
	a.False(observer.outcomes[0].Delivered)
}

func TestProcess_EmptyEventDefaultsToUnknown(t *testing.T) {
	a := assert.New(t)

	notifier := &mockNotifier{}
	relay := New(testSecret, notifier)

	outcome, err := relay.Process(context.Background(), signedRequest("", `{}`))

	a.NoError(err)
	a.Equal(EventUnknown, outcome.Event)
	a.Equal([]string{"Unknown event unknown"}, notifier.messages)
}

func TestProcess_MalformedPayload_NotForwarded(t *testing.T) {
	a := assert.New(t)

	notifier := &mockNotifier{}
	relay := New(testSecret, notifier)

	_, err := relay.Process(context.Background(), signedRequest("star", `{"action":`))

	a.True(errors.Is(err, ErrMalformedPayload))
	a.Empty(notifier.messages)
}

func TestProcess_CancelledRequestDoesNotCancelDelivery(t *testing.T) {
	a := assert.New(t)

	// given
	notifier := &mockNotifier{}
	relay := New(testSecret, notifier)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	_, err := relay.Process(ctx, signedRequest("ping", `{}`))

	// then
	a.NoError(err)
	a.Equal([]error{nil}, notifier.ctxErrs)
}
