package telemetry

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/moneytom/LD2412-Tools/pkg/framework"
)

// Feed pushes window reports to websocket clients at /stats.
// Slow clients miss reports instead of blocking the loop.
type Feed struct {
	Addr string

	clients map[chan []byte]struct{}
	lock    sync.Mutex
}

// NewFeed creates a Feed listening on addr.
func NewFeed(addr string) *Feed {
	return &Feed{Addr: addr, clients: make(map[chan []byte]struct{})}
}

// HandleReport implements ReportHandler.
func (f *Feed) HandleReport(ctx context.Context, rep *Report) {
	payload, err := rep.Encode()
	if err != nil {
		glog.Errorf("encode report: %v", err)
		return
	}
	f.lock.Lock()
	for ch := range f.clients {
		select {
		case ch <- payload:
		default:
		}
	}
	f.lock.Unlock()
}

// Run implements Runnable.
func (f *Feed) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/stats", websocket.Handler(f.serveClient))
	server := &http.Server{Addr: f.Addr, Handler: mux}
	glog.Infof("stats feed listening on %s", f.Addr)
	return fx.RunWithContextCancel(ctx, func() { server.Close() }, func() error {
		err := server.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
}

func (f *Feed) serveClient(conn *websocket.Conn) {
	ch := make(chan []byte, 4)
	f.lock.Lock()
	f.clients[ch] = struct{}{}
	f.lock.Unlock()
	defer func() {
		f.lock.Lock()
		delete(f.clients, ch)
		f.lock.Unlock()
	}()

	closed := make(chan struct{})
	go func() {
		// returns when the client goes away
		io.Copy(io.Discard, conn)
		close(closed)
	}()
	for {
		select {
		case payload := <-ch:
			if err := websocket.Message.Send(conn, string(payload)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
