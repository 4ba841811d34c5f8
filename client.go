package modelhub

import (
	"io"

	v1 "github.com/emrgen/modelhub/apis/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultAddress is the grpc address of a locally started server.
const DefaultAddress = "localhost:4020"

type Client interface {
	io.Closer
	v1.ModelServiceClient
	v1.PublishServiceClient
	v1.ProjectServiceClient
}

type client struct {
	conn *grpc.ClientConn
	v1.ModelServiceClient
	v1.PublishServiceClient
	v1.ProjectServiceClient
}

// NewClient connects to the grpc server at addr, DefaultAddress when empty.
func NewClient(addr string, opts ...grpc.DialOption) (Client, error) {
	if addr == "" {
		addr = DefaultAddress
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		conn:                 conn,
		ModelServiceClient:   v1.NewModelServiceClient(conn),
		PublishServiceClient: v1.NewPublishServiceClient(conn),
		ProjectServiceClient: v1.NewProjectServiceClient(conn),
	}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}
