package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/pushid"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var testIncident = domain.Incident{
	Title:       "Kidnapping",
	Description: "N/A",
	Time:        "2021-01-01 14:00",
	Lat:         6.5,
	Lon:         3.3,
	County:      "Lagos",
	Actor:       "N/A",
}

func newTestStore(w messageWriter) *Store {
	return &Store{
		Generator: pushid.New(),
		writer:    w,
	}
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage("-NabcDEF0123456789xy", testIncident)
	require.NoError(t, err)

	assert.Equal(t, []byte("-NabcDEF0123456789xy"), msg.Key)
	assert.JSONEq(t, `{"title":"Kidnapping","description":"N/A","time":"2021-01-01 14:00","lat":6.5,"lon":3.3,"county":"Lagos","actor":"N/A"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "content_type", msg.Headers[0].Key)
	assert.Equal(t, "county", msg.Headers[1].Key)
	assert.Equal(t, []byte("Lagos"), msg.Headers[1].Value)
}

func TestStore_Put(t *testing.T) {
	w := &fakeWriter{}
	s := newTestStore(w)

	key := s.NewKey()
	require.NoError(t, s.Put(context.Background(), key, testIncident))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, key, string(w.msgs[0].Key))
}

func TestStore_Put_Error(t *testing.T) {
	s := newTestStore(&fakeWriter{err: errors.New("broker unavailable")})

	err := s.Put(context.Background(), "k1", testIncident)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish incident k1")
}

func TestStore_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newTestStore(w).Close())
	assert.True(t, w.closed)
}
