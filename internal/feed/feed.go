// Package feed decodes the textual command feed into structured
// instructions. Everything the engine would otherwise have to trust is
// validated here: a non-nil decode error means the record is dropped,
// never half-applied.
package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mimir/internal/common"
)

var (
	ErrEmptyLine   = errors.New("empty line")
	ErrUnknownType = errors.New("unknown record type")
	ErrFieldCount  = errors.New("wrong field count")
	ErrBadField    = errors.New("malformed field")
)

type Kind int

const (
	AddKind Kind = iota
	CancelKind
)

// Instruction is one decoded feed record.
type Instruction interface {
	Kind() Kind
}

// Add asks the engine to match a new limit order and rest any remainder.
type Add struct {
	Timestamp int64
	OrderID   int64
	Side      common.Side
	Price     int64
	Quantity  uint64
	Trader    string
}

func (Add) Kind() Kind { return AddKind }

// Order converts the instruction into the engine's order type. The arrival
// sequence is left zero; the book assigns it if the order rests.
func (a Add) Order() common.Order {
	return common.Order{
		ID:        a.OrderID,
		Side:      a.Side,
		Price:     a.Price,
		Quantity:  a.Quantity,
		Trader:    a.Trader,
		Timestamp: a.Timestamp,
	}
}

// Cancel asks the engine to remove a resting order.
type Cancel struct {
	Timestamp int64
	OrderID   int64
}

func (Cancel) Kind() Kind { return CancelKind }

// Decode parses one feed line:
//
//	A,ts,id,side,price,qty,trader
//	C,ts,id
//
// A trailing carriage return is stripped so CRLF feeds decode the same as
// LF ones.
func Decode(line string) (Instruction, error) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return nil, ErrEmptyLine
	}
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "A":
		return decodeAdd(fields)
	case "C":
		return decodeCancel(fields)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, fields[0])
}

func decodeAdd(fields []string) (Instruction, error) {
	if len(fields) != 7 {
		return nil, fmt.Errorf("%w: add wants 7 fields, got %d", ErrFieldCount, len(fields))
	}
	ts, err := parseInt("timestamp", fields[1])
	if err != nil {
		return nil, err
	}
	id, err := parseInt("order id", fields[2])
	if err != nil {
		return nil, err
	}
	side, err := parseSide(fields[3])
	if err != nil {
		return nil, err
	}
	price, err := parseInt("price", fields[4])
	if err != nil {
		return nil, err
	}
	qty, err := parseUint("quantity", fields[5])
	if err != nil {
		return nil, err
	}
	return Add{
		Timestamp: ts,
		OrderID:   id,
		Side:      side,
		Price:     price,
		Quantity:  qty,
		Trader:    fields[6],
	}, nil
}

func decodeCancel(fields []string) (Instruction, error) {
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: cancel wants 3 fields, got %d", ErrFieldCount, len(fields))
	}
	ts, err := parseInt("timestamp", fields[1])
	if err != nil {
		return nil, err
	}
	id, err := parseInt("order id", fields[2])
	if err != nil {
		return nil, err
	}
	return Cancel{Timestamp: ts, OrderID: id}, nil
}

func parseSide(s string) (common.Side, error) {
	switch s {
	case "B":
		return common.Buy, nil
	case "S":
		return common.Sell, nil
	}
	return 0, fmt.Errorf("%w: side %q", ErrBadField, s)
}

func parseInt(name, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrBadField, name, s)
	}
	return v, nil
}

func parseUint(name, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrBadField, name, s)
	}
	return v, nil
}
