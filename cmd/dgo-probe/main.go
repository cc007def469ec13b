// Command dgo-probe runs a small HTTP debug server for inspecting raw ETF
// blobs captured from the gateway wire, using the library's tree-parse
// decoder to render a tag-labeled structure without committing to a
// concrete Go type.
package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/ocx/dgo/config"
	"github.com/ocx/dgo/etf"
)

func main() {
	cfg := config.Get()

	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/decode", handleDecode).Methods(http.MethodPost)

	addr := cfg.Monitoring.Addr
	if addr == "" {
		addr = ":8090"
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("dgo-probe listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("dgo-probe server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("dgo-probe shutting down")
	srv.Close()
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// renderedNode is the JSON-friendly projection of an etf.TreeNode.
type renderedNode struct {
	Tag      int            `json:"tag"`
	Summary  string         `json:"summary"`
	RawLen   int            `json:"raw_len"`
	Children []renderedNode `json:"children,omitempty"`
	Keys     []renderedNode `json:"keys,omitempty"`
}

func render(n *etf.TreeNode) renderedNode {
	out := renderedNode{Tag: int(n.Tag), Summary: n.String(), RawLen: len(n.Raw)}
	for _, c := range n.Children {
		out.Children = append(out.Children, render(c))
	}
	for _, k := range n.Keys {
		out.Keys = append(out.Keys, render(k))
	}
	return out
}

// handleDecode accepts a raw ETF byte body and returns its parse tree as
// JSON, for manual inspection of captured gateway frames.
func handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	tree, err := etf.ParseTree(body)
	if err != nil {
		http.Error(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render(tree))
}
