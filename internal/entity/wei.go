package entity

import (
	"errors"
	"strconv"

	"github.com/holiman/uint256"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountOverflow = errors.New("amount overflow")
)

// BasisPoints is the denominator of royalty fees.
const BasisPoints uint64 = 10000

// Wei is an amount of the native currency in its smallest unit.
type Wei struct {
	v uint256.Int
}

func NewWei(n uint64) Wei {
	var w Wei
	w.v.SetUint64(n)
	return w
}

func ParseWei(s string) (Wei, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Wei{}, ErrInvalidAmount
	}
	return Wei{v: *v}, nil
}

func (w Wei) Add(o Wei) (Wei, error) {
	var r Wei
	if _, overflow := r.v.AddOverflow(&w.v, &o.v); overflow {
		return Wei{}, ErrAmountOverflow
	}
	return r, nil
}

// Sub returns w-o, failing when o exceeds w.
func (w Wei) Sub(o Wei) (Wei, error) {
	var r Wei
	if _, underflow := r.v.SubOverflow(&w.v, &o.v); underflow {
		return Wei{}, ErrAmountOverflow
	}
	return r, nil
}

// Share returns floor(w * bps / 10000).
func (w Wei) Share(bps uint64) Wei {
	den := uint256.NewInt(BasisPoints)
	num := uint256.NewInt(bps)

	var q, r uint256.Int
	q.Div(&w.v, den)
	r.Mod(&w.v, den)

	q.Mul(&q, num)
	r.Mul(&r, num)
	r.Div(&r, den)

	var out Wei
	out.v.Add(&q, &r)
	return out
}

func (w Wei) Cmp(o Wei) int {
	return w.v.Cmp(&o.v)
}

func (w Wei) LessThan(o Wei) bool {
	return w.v.Lt(&o.v)
}

func (w Wei) IsZero() bool {
	return w.v.IsZero()
}

func (w Wei) String() string {
	return w.v.Dec()
}

func (w Wei) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(w.v.Dec())), nil
}

func (w *Wei) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	parsed, err := ParseWei(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
