package ctlserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{ControlAddr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestDispatchDataRateAcceptsKnownMode(t *testing.T) {
	s := newTestServer(t)
	sess := &session{mode: "M1200L"}

	resp := s.dispatch(sess, "CMD:DATA RATE:M600S")
	assert.Equal(t, "OK:DATA RATE:M600S", resp)
	assert.Equal(t, "M600S", sess.mode)
}

func TestDispatchDataRateAcceptsBarePrefixForm(t *testing.T) {
	s := newTestServer(t)
	sess := &session{mode: "M1200L"}

	resp := s.dispatch(sess, "CMD:DATA RATE:2400S")
	assert.Equal(t, "OK:DATA RATE:2400S", resp)
	assert.Equal(t, "M2400S", sess.mode)
}

func TestDispatchDataRateRejectsUnknownMode(t *testing.T) {
	s := newTestServer(t)
	sess := &session{mode: "M1200L"}

	resp := s.dispatch(sess, "CMD:DATA RATE:BOGUS")
	assert.Equal(t, "ERROR:UNKNOWN MODE", resp)
	assert.Equal(t, "M1200L", sess.mode, "mode should not change on a rejected command")
}

func TestDispatchRecordToggle(t *testing.T) {
	s := newTestServer(t)
	sess := &session{}

	assert.Equal(t, "OK:RECORD TX:ON", s.dispatch(sess, "CMD:RECORD TX:ON"))
	assert.True(t, sess.recording)

	assert.Equal(t, "OK:RECORD PREFIX:mycapture", s.dispatch(sess, "CMD:RECORD PREFIX:mycapture"))
	assert.Equal(t, "mycapture", sess.recordName)
}

func TestDispatchUnrecognizedCommand(t *testing.T) {
	s := newTestServer(t)
	resp := s.dispatch(&session{}, "CMD:NONSENSE")
	assert.Equal(t, "ERROR:UNRECOGNIZED COMMAND", resp)
}
