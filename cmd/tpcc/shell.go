// Copyright 2018 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/pingcap-incubator/tinytpcc/kv/tpcc"
	"github.com/pingcap-incubator/tinytpcc/kv/util/clock"
	"github.com/pingcap-incubator/tinytpcc/log"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

func newShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "shell [num warehouses]",
		Short:        "Run TPC-C transactions interactively",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runShellCommandFunc,
		SilenceUsage: true,
	}
}

func runShellCommandFunc(cmd *cobra.Command, args []string) error {
	cfg, err := initialConfig(cmd, args)
	if err != nil {
		return err
	}
	tables, _, err := loadTables(globalContext, cmd.OutOrStdout(), cfg)
	if err != nil {
		return err
	}
	s := newShell(tables, clock.SystemClock{}, cmd.OutOrStdout())
	return s.loop()
}

// shell runs one transaction per input line against a single store. With
// undo on, the changes of every transaction since the last rollback or
// commit are kept in one undo log.
type shell struct {
	db     tpcc.DB
	tables *tpcc.Tables
	clock  clock.Clock
	out    io.Writer

	undoOn bool
	undo   *tpcc.Undo
}

func newShell(tables *tpcc.Tables, clk clock.Clock, out io.Writer) *shell {
	return &shell{db: tables, tables: tables, clock: clk, out: out}
}

func (s *shell) undoSlot() **tpcc.Undo {
	if !s.undoOn {
		return nil
	}
	return &s.undo
}

func (s *shell) run(args []string) {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "TPC-C shell command",
	}
	cmd.SetArgs(args)
	cmd.SetOutput(s.out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.AddCommand(
		&cobra.Command{
			Use:                   "neworder w d c item:supply:quantity [item:supply:quantity ...]",
			Short:                 "Enter a new order",
			Args:                  cobra.MinimumNArgs(4),
			RunE:                  s.runNewOrder,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "payment w d cw cd c|last amount",
			Short:                 "Pay for a customer by id or last name",
			Args:                  cobra.ExactArgs(6),
			RunE:                  s.runPayment,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "orderstatus w d c|last",
			Short:                 "Show the last order of a customer",
			Args:                  cobra.ExactArgs(3),
			RunE:                  s.runOrderStatus,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "delivery w carrier",
			Short:                 "Deliver the oldest new order of every district",
			Args:                  cobra.ExactArgs(2),
			RunE:                  s.runDelivery,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "stocklevel w d threshold",
			Short:                 "Count recently ordered items low on stock",
			Args:                  cobra.ExactArgs(3),
			RunE:                  s.runStockLevel,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "undo on|off",
			Short:                 "Record changes for rollback",
			Args:                  cobra.ExactArgs(1),
			RunE:                  s.runUndo,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "rollback",
			Short:                 "Revert the recorded changes",
			Args:                  cobra.NoArgs,
			RunE:                  s.runRollback,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "commit",
			Short:                 "Keep the recorded changes",
			Args:                  cobra.NoArgs,
			RunE:                  s.runCommit,
			DisableFlagsInUseLine: true,
		},
		&cobra.Command{
			Use:                   "count",
			Short:                 "Show table sizes",
			Args:                  cobra.NoArgs,
			Run:                   s.runCount,
			DisableFlagsInUseLine: true,
		},
	)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func parseID(name, arg string) (int32, error) {
	v, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, errors.Errorf("invalid %s %q", name, arg)
	}
	return int32(v), nil
}

func parseIDs(names []string, args []string) ([]int32, error) {
	ids := make([]int32, len(names))
	for i, name := range names {
		id, err := parseID(name, args[i])
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// parseItem parses item:supply:quantity. The supply warehouse defaults to
// home and the quantity to 1 when omitted.
func parseItem(arg string, home int32) (tpcc.NewOrderItem, error) {
	item := tpcc.NewOrderItem{SupplyWID: home, Quantity: 1}
	parts := strings.Split(arg, ":")
	if len(parts) > 3 {
		return item, errors.Errorf("invalid item %q, expected item:supply:quantity", arg)
	}
	var err error
	if item.IID, err = parseID("item", parts[0]); err != nil {
		return item, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if item.SupplyWID, err = parseID("supply warehouse", parts[1]); err != nil {
			return item, err
		}
	}
	if len(parts) > 2 {
		if item.Quantity, err = parseID("quantity", parts[2]); err != nil {
			return item, err
		}
	}
	if item.Quantity < 1 {
		return item, errors.Errorf("quantity of %q must be positive", arg)
	}
	return item, nil
}

// parseCustomer returns the customer id, or the last name when arg is not a
// number.
func parseCustomer(arg string) (int32, string) {
	if id, err := strconv.ParseInt(arg, 10, 32); err == nil {
		return int32(id), ""
	}
	return 0, strings.ToUpper(arg)
}

func (s *shell) checkWarehouses(ws ...int32) error {
	for _, w := range ws {
		if !s.db.HasWarehouse(w) {
			return errors.Errorf("warehouse %d does not exist", w)
		}
	}
	return nil
}

// checkDistrict also checks the warehouse, since district keys embed it.
func (s *shell) checkDistrict(w, d int32) error {
	if err := s.checkWarehouses(w); err != nil {
		return err
	}
	if d < 1 || d > tpcc.DistrictsPerWarehouse || s.tables.FindDistrict(w, d) == nil {
		return errors.Errorf("district %d of warehouse %d does not exist", d, w)
	}
	return nil
}

func (s *shell) checkCustomer(w, d, c int32, last string) error {
	if err := s.checkDistrict(w, d); err != nil {
		return err
	}
	if last != "" {
		if s.tables.FindCustomerByName(w, d, last) == nil {
			return errors.Errorf("no customer named %s in district %d of warehouse %d", last, d, w)
		}
		return nil
	}
	if c < 1 || c > tpcc.CustomersPerDistrict || s.tables.FindCustomer(w, d, c) == nil {
		return errors.Errorf("customer %d of district %d, warehouse %d does not exist", c, d, w)
	}
	return nil
}

func (s *shell) runNewOrder(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs([]string{"warehouse", "district", "customer"}, args)
	if err != nil {
		return err
	}
	w, d, c := ids[0], ids[1], ids[2]
	if err := s.checkCustomer(w, d, c, ""); err != nil {
		return err
	}
	lines := args[3:]
	if len(lines) > tpcc.MaxOLCnt {
		return errors.Errorf("at most %d items per order, got %d", tpcc.MaxOLCnt, len(lines))
	}
	items := make([]tpcc.NewOrderItem, 0, len(lines))
	for _, arg := range lines {
		item, err := parseItem(arg, w)
		if err != nil {
			return err
		}
		if err := s.checkWarehouses(item.SupplyWID); err != nil {
			return err
		}
		items = append(items, item)
	}

	var out tpcc.NewOrderOutput
	ok := s.db.NewOrder(w, d, c, items, s.clock.DateTimestamp(), &out, s.undoSlot())
	if !ok {
		fmt.Fprintf(s.out, "aborted: %s\n", tpcc.Text(out.Status[:]))
		return nil
	}
	fmt.Fprintf(s.out, "order %d for %s (%s) discount %.4f w_tax %.4f d_tax %.4f\n",
		out.OID, tpcc.Text(out.CLast[:]), tpcc.Text(out.CCredit[:]), out.CDiscount, out.WTax, out.DTax)
	for i, info := range out.Items {
		fmt.Fprintf(s.out, "  %2d %-24s %c price %7.2f amount %8.2f stock %3d\n",
			items[i].IID, tpcc.Text(info.IName[:]), info.BrandGeneric, info.IPrice, info.OLAmount, info.SQuantity)
	}
	fmt.Fprintf(s.out, "total %.2f\n", out.Total)
	return nil
}

func (s *shell) runPayment(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs([]string{"warehouse", "district", "customer warehouse", "customer district"}, args)
	if err != nil {
		return err
	}
	w, d, cw, cd := ids[0], ids[1], ids[2], ids[3]
	if err := s.checkDistrict(w, d); err != nil {
		return err
	}
	c, last := parseCustomer(args[4])
	if err := s.checkCustomer(cw, cd, c, last); err != nil {
		return err
	}
	amount, err := strconv.ParseFloat(args[5], 32)
	if err != nil || amount <= 0 {
		return errors.Errorf("invalid amount %q", args[5])
	}

	var out tpcc.PaymentOutput
	now := s.clock.DateTimestamp()
	if last == "" {
		s.db.Payment(w, d, cw, cd, c, float32(amount), now, &out, s.undoSlot())
	} else {
		s.db.PaymentByName(w, d, cw, cd, last, float32(amount), now, &out, s.undoSlot())
	}
	cust := &out.Customer
	fmt.Fprintf(s.out, "customer %d %s %s balance %.2f ytd %.2f payments %d (%s)\n",
		cust.ID, tpcc.Text(cust.First[:]), tpcc.Text(cust.Last[:]),
		cust.Balance, cust.YTDPayment, cust.PaymentCnt, tpcc.Text(cust.Credit[:]))
	fmt.Fprintf(s.out, "warehouse %s ytd %.2f, district %s ytd %.2f\n",
		tpcc.Text(out.Warehouse.Name[:]), out.Warehouse.YTD, tpcc.Text(out.District.Name[:]), out.District.YTD)
	return nil
}

func (s *shell) runOrderStatus(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs([]string{"warehouse", "district"}, args)
	if err != nil {
		return err
	}
	w, d := ids[0], ids[1]
	c, last := parseCustomer(args[2])
	if err := s.checkCustomer(w, d, c, last); err != nil {
		return err
	}

	var out tpcc.OrderStatusOutput
	if last == "" {
		s.db.OrderStatus(w, d, c, &out)
	} else {
		s.db.OrderStatusByName(w, d, last, &out)
	}
	fmt.Fprintf(s.out, "customer %d %s %s %s balance %.2f\n", out.CID,
		tpcc.Text(out.CFirst[:]), tpcc.Text(out.CMiddle[:]), tpcc.Text(out.CLast[:]), out.CBalance)
	fmt.Fprintf(s.out, "order %d entered %s carrier %d\n", out.OID, tpcc.Text(out.OEntryD[:]), out.OCarrierID)
	for _, line := range out.Lines {
		fmt.Fprintf(s.out, "  item %d supply %d quantity %d amount %.2f delivered %s\n",
			line.IID, line.SupplyWID, line.Quantity, line.Amount, tpcc.Text(line.DeliveryD[:]))
	}
	return nil
}

func (s *shell) runDelivery(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs([]string{"warehouse", "carrier"}, args)
	if err != nil {
		return err
	}
	w, carrier := ids[0], ids[1]
	if err := s.checkWarehouses(w); err != nil {
		return err
	}
	if carrier < tpcc.MinCarrierID || carrier > tpcc.MaxCarrierID {
		return errors.Errorf("carrier must be in [%d, %d], got %d", tpcc.MinCarrierID, tpcc.MaxCarrierID, carrier)
	}

	var orders []tpcc.DeliveryOrderInfo
	s.db.Delivery(w, carrier, s.clock.DateTimestamp(), &orders, s.undoSlot())
	fmt.Fprintf(s.out, "delivered %d orders\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(s.out, "  district %d order %d\n", o.DID, o.OID)
	}
	return nil
}

func (s *shell) runStockLevel(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs([]string{"warehouse", "district", "threshold"}, args)
	if err != nil {
		return err
	}
	w, d, threshold := ids[0], ids[1], ids[2]
	if err := s.checkDistrict(w, d); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d items below %d\n", s.db.StockLevel(w, d, threshold), threshold)
	return nil
}

func (s *shell) runUndo(cmd *cobra.Command, args []string) error {
	switch strings.ToLower(args[0]) {
	case "on":
		s.undoOn = true
	case "off":
		if s.undo != nil {
			return errors.New("rollback or commit the recorded changes first")
		}
		s.undoOn = false
	default:
		return errors.Errorf("expected on or off, got %q", args[0])
	}
	fmt.Fprintf(s.out, "undo %s\n", strings.ToLower(args[0]))
	return nil
}

func (s *shell) runRollback(cmd *cobra.Command, args []string) error {
	if s.undo == nil {
		return errors.New("nothing to roll back")
	}
	n := s.undo.Len()
	s.db.ApplyUndo(s.undo)
	s.undo = nil
	fmt.Fprintf(s.out, "reverted %d changes\n", n)
	return nil
}

func (s *shell) runCommit(cmd *cobra.Command, args []string) error {
	if s.undo == nil {
		return errors.New("nothing to commit")
	}
	n := s.undo.Len()
	s.db.FreeUndo(s.undo)
	s.undo = nil
	fmt.Fprintf(s.out, "kept %d changes\n", n)
	return nil
}

func (s *shell) runCount(cmd *cobra.Command, args []string) {
	fmt.Fprintf(s.out, "items %d, orders %d, order lines %d, new orders %d, history %d\n",
		s.tables.NumItems(), s.tables.NumOrders(), s.tables.NumOrderLines(),
		s.tables.NumNewOrders(), s.tables.NumHistory())
}

func (s *shell) loop() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[31mtpcc»\033[0m ",
		HistoryFile:       "/tmp/tpcc-readline.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "^D",
		HistorySearchFold: true,
	})
	if err != nil {
		return errors.Trace(err)
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			continue
		}
		args, err := shellwords.Parse(line)
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return nil
		}
		log.Debugf("shell command %q", args)
		s.run(args)
	}
}
