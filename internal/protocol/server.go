package protocol

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"

	"texlab/internal/config"
	"texlab/internal/logging"
)

// Serve runs the LSP server over rwc (typically stdin/stdout) until the
// connection closes or ctx is canceled, dispatching every request to a
// fresh Handler.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, cfg *config.Config, configPath string) error {
	handler := NewHandler(cfg, configPath)
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		return handler.dispatch(ctx, conn, req)
	}))
	defer handler.closeWatchers()
	logging.Boot("texlab LSP server listening on stdio")
	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		_ = conn.Close()
		return ctx.Err()
	}
}
