package grpcsync

import (
	"context"
	"fmt"

	"github.com/RockkLee/order-bot/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client submits placed orders to the management service. It also satisfies
// notify.Notifier.
type Client struct {
	conn *grpc.ClientConn
}

func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(JSONCodec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("grpcsync: dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*SubmitOrderResponse, error) {
	var resp SubmitOrderResponse
	if err := c.conn.Invoke(ctx, methodSubmitOrder, &req, &resp); err != nil {
		return nil, fmt.Errorf("grpcsync: submit order %s: %w", req.OrderID, err)
	}
	return &resp, nil
}

func (c *Client) Notify(ctx context.Context, event domain.OrderPlacedEvent) error {
	resp, err := c.SubmitOrder(ctx, submitRequestFromEvent(event))
	if err != nil {
		return err
	}
	if !resp.Accepted {
		return fmt.Errorf("grpcsync: order %s not accepted", event.OrderID)
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
