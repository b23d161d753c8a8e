package main

import (
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pingcap-incubator/tinytpcc/bench/measurement"
	"github.com/pingcap-incubator/tinytpcc/bench/metrics"
	"github.com/pingcap-incubator/tinytpcc/log"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
)

type statusHandler struct {
	measure *measurement.Measurement
	rd      *render.Render
}

// Get returns the latency statistics of every transaction type so far.
func (h *statusHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.rd.JSON(w, http.StatusOK, h.measure.Snapshot())
}

// GetOp returns the statistics of a single transaction type.
func (h *statusHandler) GetOp(w http.ResponseWriter, r *http.Request) {
	op := mux.Vars(r)["op"]
	stats, ok := h.measure.Snapshot()[op]
	if !ok {
		h.rd.JSON(w, http.StatusNotFound, "no samples for "+op)
		return
	}
	h.rd.JSON(w, http.StatusOK, stats)
}

func newStatusRouter(measure *measurement.Measurement) *mux.Router {
	rd := render.New(render.Options{
		IndentJSON: true,
	})
	h := &statusHandler{measure: measure, rd: rd}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/status", h.Get).Methods("GET")
	router.HandleFunc("/status/{op}", h.GetOp).Methods("GET")
	return router
}

func startStatusServer(addr string, measure *measurement.Measurement) (*http.Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Annotatef(err, "listen on %s", addr)
	}
	srv := &http.Server{Handler: newStatusRouter(measure)}
	go func() {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("status server: %v", err)
		}
	}()
	log.Infof("status server listening on %s", l.Addr())
	return srv, nil
}
