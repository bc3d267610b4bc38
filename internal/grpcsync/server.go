package grpcsync

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusUpdater applies a status callback. It reports whether an order changed.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID, status string) (bool, error)
}

// CallbackServer receives order status callbacks from the management service.
type CallbackServer struct {
	addr     string
	updater  StatusUpdater
	server   *grpc.Server
	listener net.Listener
	logger   *zap.SugaredLogger
}

func NewCallbackServer(addr string, updater StatusUpdater, logger *zap.SugaredLogger) *CallbackServer {
	gs := grpc.NewServer(grpc.ForceServerCodec(JSONCodec{}))
	s := &CallbackServer{addr: addr, updater: updater, server: gs, logger: logger}
	gs.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceOrderCallback,
		HandlerType: (*StatusUpdater)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: methodUpdateOrderStatus,
			Handler:    s.updateOrderStatus,
		}},
	}, updater)
	return s
}

func (s *CallbackServer) updateOrderStatus(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	var req UpdateOrderStatusRequest
	if err := dec(&req); err != nil {
		return nil, err
	}
	if req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}

	updated, err := s.updater.UpdateOrderStatus(ctx, req.OrderID, req.Status)
	if err != nil {
		s.logger.Errorw("order status callback failed", "order_id", req.OrderID, "status", req.Status, "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.logger.Infow("order status callback", "order_id", req.OrderID, "status", req.Status, "updated", updated)
	return &UpdateOrderStatusResponse{Updated: updated}, nil
}

func (s *CallbackServer) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpcsync: listen %s: %w", s.addr, err)
	}
	s.listener = lis
	go func() { _ = s.server.Serve(lis) }()
	return nil
}

// Addr is the bound address once Start has returned.
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

func (s *CallbackServer) Stop() {
	s.server.GracefulStop()
}
