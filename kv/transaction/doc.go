package transaction

// The transaction package makes a tpcc.DB safe to share between goroutines. The record store itself gives each
// transaction single-threaded semantics: it mutates rows in place and only protects the structure of its indexes.
// Isolation between transactions is the job of the wrappers defined here, both of which implement tpcc.DB so that a
// workload driver cannot tell them apart from the store.
//
// `Serial` is the simplest possible scheme: one mutex held for the whole of every call. Throughput does not scale with
// threads but the behaviour is trivially equivalent to running the transactions one after another.
//
// `Partitioned` exploits the fact that every TPC-C transaction names, before it starts, the warehouses it might touch.
// A new-order touches its home warehouse and the supply warehouse of each line; a payment touches the home warehouse
// and the customer's warehouse; the other three touch only their home warehouse. The wrapper latches that whole set
// at once (see the latches package) and only then runs the transaction. Because a thread never holds one latch while
// waiting for another, latching cannot deadlock.
//
// Inside the latch, multi-warehouse transactions are split the way a partitioned store would run them: the home
// warehouse part (`NewOrderHome`, `PaymentHome`) runs first, then one remote part per other warehouse in increasing
// warehouse order (`NewOrderRemote`, `PaymentRemote`), and the partial outputs are merged with `NewOrderCombine` and
// `PaymentCombine`. The merged output is the same as the single-call form would produce.
//
// Undo logs are threaded through every part, so rolling back a split transaction restores all the warehouses it
// touched. `ApplyUndo` latches the warehouses recorded in the undo log before reverting.
