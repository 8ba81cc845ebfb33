package dap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n-mahendra/sol/pkg/proc"
)

func testTypeName(v proc.Value) string {
	if v == nil {
		return "nil"
	}
	return "value"
}

// writeRequest encodes req the way a real DAP client would, for feeding to
// Server.Serve via an io.Reader.
func writeRequest(t *testing.T, req dap.Message) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dap.WriteProtocolMessage(&buf, req))
	return buf.Bytes()
}

// readMessages decodes every protocol message written to out.
func readMessages(t *testing.T, out *bytes.Buffer) []dap.Message {
	t.Helper()
	var msgs []dap.Message
	r := bytes.NewReader(out.Bytes())
	for {
		m, err := dap.ReadProtocolMessage(r)
		if err != nil {
			break
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func TestServeInitializeSendsResponseAndEvent(t *testing.T) {
	t.Parallel()

	in := proc.New(testTypeName, nil)
	initReq := &dap.InitializeRequest{}
	initReq.Type = "request"
	initReq.Command = "initialize"
	initReq.Seq = 1

	disconnectReq := &dap.DisconnectRequest{}
	disconnectReq.Type = "request"
	disconnectReq.Command = "disconnect"
	disconnectReq.Seq = 2

	var in1, in2 bytes.Buffer
	in1.Write(writeRequest(t, initReq))
	in2.Write(writeRequest(t, disconnectReq))
	reqStream := strings.NewReader(in1.String() + in2.String())

	var out bytes.Buffer
	s := NewServer(in, reqStream, &out, nil)
	require.NoError(t, s.Serve())

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 3, "initialize response, initialized event, disconnect response")

	initResp, ok := msgs[0].(*dap.InitializeResponse)
	require.True(t, ok, "first message should be an InitializeResponse, got %T", msgs[0])
	assert.True(t, initResp.Success)
	assert.Equal(t, 1, initResp.RequestSeq)

	initEvent, ok := msgs[1].(*dap.InitializedEvent)
	require.True(t, ok, "second message should be an InitializedEvent, got %T", msgs[1])
	assert.Equal(t, "initialized", initEvent.Event)
}

func TestServeThreadsReportsSoleThread(t *testing.T) {
	t.Parallel()

	in := proc.New(testTypeName, nil)
	threadsReq := &dap.ThreadsRequest{}
	threadsReq.Type = "request"
	threadsReq.Command = "threads"
	threadsReq.Seq = 1

	disconnectReq := &dap.DisconnectRequest{}
	disconnectReq.Type = "request"
	disconnectReq.Command = "disconnect"
	disconnectReq.Seq = 2

	reqStream := strings.NewReader(string(writeRequest(t, threadsReq)) + string(writeRequest(t, disconnectReq)))

	var out bytes.Buffer
	s := NewServer(in, reqStream, &out, nil)
	require.NoError(t, s.Serve())

	msgs := readMessages(t, &out)
	require.Len(t, msgs, 2)

	resp, ok := msgs[0].(*dap.ThreadsResponse)
	require.True(t, ok, "expected a ThreadsResponse, got %T", msgs[0])
	require.Len(t, resp.Body.Threads, 1)
	assert.Equal(t, soleThreadID, resp.Body.Threads[0].Id)
}
