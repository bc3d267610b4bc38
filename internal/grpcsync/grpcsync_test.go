package grpcsync

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type orderSink interface {
	receive(req SubmitOrderRequest)
}

type recordingSink struct {
	got chan SubmitOrderRequest
}

func (r *recordingSink) receive(req SubmitOrderRequest) { r.got <- req }

// startOrderSyncServer stands in for the management service.
func startOrderSyncServer(t *testing.T, sink *recordingSink) string {
	t.Helper()
	gs := grpc.NewServer(grpc.ForceServerCodec(JSONCodec{}))
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: "ordersync.OrderSyncService",
		HandlerType: (*orderSink)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: "SubmitOrder",
			Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				var req SubmitOrderRequest
				if err := dec(&req); err != nil {
					return nil, err
				}
				srv.(orderSink).receive(req)
				return &SubmitOrderResponse{Accepted: true}, nil
			},
		}},
	}, sink)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)
	return lis.Addr().String()
}

func TestClientNotifySubmitsOrder(t *testing.T) {
	sink := &recordingSink{got: make(chan SubmitOrderRequest, 1)}
	addr := startOrderSyncServer(t, sink)

	c, err := NewClient("passthrough:///" + addr)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := domain.OrderPlacedEvent{
		OrderID: "o1", CartID: "c1", SessionID: "s1", TotalScaled: 900,
		Items: []domain.OrderPlacedItem{{ID: "l1", MenuItemID: "m1", Name: "Burger", Quantity: 2, UnitPriceScaled: 450, TotalPriceScaled: 900}},
	}
	require.NoError(t, c.Notify(ctx, event))

	got := <-sink.got
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, int64(900), got.TotalScaled)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int32(2), got.Items[0].Quantity)
}

type fakeUpdater struct {
	orderID, status string
}

func (f *fakeUpdater) UpdateOrderStatus(_ context.Context, orderID, status string) (bool, error) {
	f.orderID, f.status = orderID, status
	return orderID == "o1", nil
}

func TestCallbackServerUpdatesStatus(t *testing.T) {
	updater := &fakeUpdater{}
	s := NewCallbackServer("127.0.0.1:0", updater, zap.NewNop().Sugar())
	require.NoError(t, s.Start())
	defer s.Stop()

	conn, err := grpc.NewClient("passthrough:///"+s.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(JSONCodec{})),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var resp UpdateOrderStatusResponse
	err = conn.Invoke(ctx, "/ordersync.OrderCallbackService/UpdateOrderStatus",
		&UpdateOrderStatusRequest{OrderID: "o1", Status: "DONE"}, &resp)
	require.NoError(t, err)
	assert.True(t, resp.Updated)
	assert.Equal(t, "DONE", updater.status)

	err = conn.Invoke(ctx, "/ordersync.OrderCallbackService/UpdateOrderStatus",
		&UpdateOrderStatusRequest{}, &resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
