package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Turntable.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chats lists the known chats and their queue summaries.
func (c *Client) Chats() (*ChatsResponse, error) {
	var resp ChatsResponse
	if err := c.client.Call("Turntable.Chats", ChatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Queue retrieves one chat's queue listing.
func (c *Client) Queue(chatID int64) (*QueueResponse, error) {
	var resp QueueResponse
	if err := c.client.Call("Turntable.Queue", QueueRequest{ChatID: chatID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopChat clears one chat's queue.
func (c *Client) StopChat(chatID int64) (*StopChatResponse, error) {
	var resp StopChatResponse
	if err := c.client.Call("Turntable.StopChat", StopChatRequest{ChatID: chatID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
