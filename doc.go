package tinytpcc

/*
TinyTPCC is an in-memory OLTP engine that runs the five TPC-C transactions (new-order, payment, order-status,
delivery and stock-level) over the fixed TPC-C schema. It is intended for measuring transaction throughput and for
experimenting with partitioned execution. Nothing is persisted and there is no SQL layer.

Building TinyTPCC produces one executable, `tpcc`, which loads a number of warehouses, runs a transaction mix
against them and reports throughput and latency. `tpcc shell` runs single transactions interactively.

The `tinytpcc` module is organized into the following packages:

* `kv/util/bptree`: a generic B+Tree, the ordered index under every table.
* `kv/tpcc`: the record store, the transactions, and the undo log that reverts them exactly.
* `kv/tpcc/random`, `kv/tpcc/loader`, `kv/tpcc/client`: the random generator, the initial population and the
  transaction mix driver.
* `kv/transaction`: executors that let several goroutines share one store, either serially or partitioned by
  warehouse with latches.
* `bench`: the benchmark runner, latency histograms and Prometheus metrics.
* `config`: the TOML configuration.
* `cmd/tpcc`: the command line.
*/
