package conn

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dreamware/kvstore/internal/store"
)

func newTestPair(t *testing.T) (client net.Conn, s *store.Store) {
	t.Helper()
	server, client := net.Pipe()
	st, err := store.New(16)
	require.NoError(t, err)

	c := New(server, st, zap.NewNop(), DefaultOptions())
	go c.Serve()
	return client, st
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestServeSimpleSetGet(t *testing.T) {
	client, _ := newTestPair(t)
	defer client.Close()
	r := bufio.NewReader(client)

	_, err := client.Write([]byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"))
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", readLine(t, r))

	_, err = client.Write([]byte("*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"))
	require.NoError(t, err)
	require.Equal(t, "$1\r\n", readLine(t, r))
	require.Equal(t, "v\r\n", readLine(t, r))
}

func TestServeInlineCommand(t *testing.T) {
	client, _ := newTestPair(t)
	defer client.Close()
	r := bufio.NewReader(client)

	_, err := client.Write([]byte("PING\r\n"))
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", readLine(t, r))
}

func TestServePipelinedRequests(t *testing.T) {
	client, _ := newTestPair(t)
	defer client.Close()
	r := bufio.NewReader(client)

	_, err := client.Write([]byte(
		"*3\r\n$3\r\nSET\r\n$1\r\na\r\n$1\r\n1\r\n" +
			"*3\r\n$3\r\nSET\r\n$1\r\nb\r\n$1\r\n2\r\n" +
			"*2\r\n$3\r\nGET\r\n$1\r\na\r\n",
	))
	require.NoError(t, err)

	require.Equal(t, "+OK\r\n", readLine(t, r))
	require.Equal(t, "+OK\r\n", readLine(t, r))
	require.Equal(t, "$1\r\n", readLine(t, r))
	require.Equal(t, "1\r\n", readLine(t, r))
}

func TestServeUnknownCommandRepliesErrorAndKeepsGoing(t *testing.T) {
	client, _ := newTestPair(t)
	defer client.Close()
	r := bufio.NewReader(client)

	_, err := client.Write([]byte("*1\r\n$7\r\nBOGUSOP\r\n"))
	require.NoError(t, err)
	line := readLine(t, r)
	require.Contains(t, line, "-ERR")

	_, err = client.Write([]byte("PING\r\n"))
	require.NoError(t, err)
	require.Equal(t, "+PONG\r\n", readLine(t, r))
}

func TestServeClosesOnEOF(t *testing.T) {
	client, _ := newTestPair(t)
	client.Close()
	time.Sleep(20 * time.Millisecond)
}

func TestServeClosesConnectionAfterQuit(t *testing.T) {
	client, _ := newTestPair(t)
	defer client.Close()
	r := bufio.NewReader(client)

	_, err := client.Write([]byte("*1\r\n$4\r\nQUIT\r\n"))
	require.NoError(t, err)
	require.Equal(t, "+OK\r\n", readLine(t, r))

	_, err = r.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}
