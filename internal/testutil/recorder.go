// Package testutil provides test doubles shared across packages, most
// importantly a query builder that records the operation sequence the
// engines emit instead of talking to a database.
package testutil

import (
	"context"
	"fmt"

	"github.com/datagate-io/datagate/pkg/qb"
)

// Op is one recorded builder call.
type Op struct {
	Name string
	Args []any
}

// String renders the op in a compact form convenient for assertions,
// e.g. `Eq(status, active)`.
func (o Op) String() string {
	args := make([]string, 0, len(o.Args))
	for _, a := range o.Args {
		args = append(args, fmt.Sprintf("%v", a))
	}
	s := o.Name + "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	return s + ")"
}

// RecorderClient hands out recording builders and remembers the last one so
// tests can inspect the call sequence after the code under test returns.
type RecorderClient struct {
	Result qb.Result
	Err    error
	Last   *Recorder
}

func (c *RecorderClient) From(table string) qb.Builder {
	r := &Recorder{result: c.Result, err: c.Err}
	r.record("From", table)
	c.Last = r
	return r
}

// Recorder implements qb.Builder, capturing every call in order.
type Recorder struct {
	Ops      []Op
	Executed int
	result   qb.Result
	err      error
}

// NewRecorder returns a standalone recorder for tests that drive the filter
// engine directly.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(name string, args ...any) qb.Builder {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
	return r
}

// Calls returns the recorded ops in their compact string form.
func (r *Recorder) Calls() []string {
	calls := make([]string, 0, len(r.Ops))
	for _, op := range r.Ops {
		calls = append(calls, op.String())
	}
	return calls
}

func (r *Recorder) Select(columns string) qb.Builder { return r.record("Select", columns) }

func (r *Recorder) Eq(field string, value any) qb.Builder  { return r.record("Eq", field, value) }
func (r *Recorder) Neq(field string, value any) qb.Builder { return r.record("Neq", field, value) }
func (r *Recorder) Gt(field string, value any) qb.Builder  { return r.record("Gt", field, value) }
func (r *Recorder) Gte(field string, value any) qb.Builder { return r.record("Gte", field, value) }
func (r *Recorder) Lt(field string, value any) qb.Builder  { return r.record("Lt", field, value) }
func (r *Recorder) Lte(field string, value any) qb.Builder { return r.record("Lte", field, value) }

func (r *Recorder) Like(field string, pattern any) qb.Builder {
	return r.record("Like", field, pattern)
}

func (r *Recorder) Ilike(field string, pattern any) qb.Builder {
	return r.record("Ilike", field, pattern)
}

func (r *Recorder) In(field string, values []any) qb.Builder {
	return r.record("In", field, values)
}

func (r *Recorder) Is(field string, value any) qb.Builder { return r.record("Is", field, value) }

func (r *Recorder) Not(field, operator string, value any) qb.Builder {
	return r.record("Not", field, operator, value)
}

func (r *Recorder) Or(encoded string) qb.Builder { return r.record("Or", encoded) }

func (r *Recorder) LeftJoin(table, fromField, toField string) qb.Builder {
	return r.record("LeftJoin", table, fromField, toField)
}

func (r *Recorder) InnerJoin(table, fromField, toField string) qb.Builder {
	return r.record("InnerJoin", table, fromField, toField)
}

func (r *Recorder) Range(from, to int) qb.Builder { return r.record("Range", from, to) }

func (r *Recorder) Order(column string, ascending bool) qb.Builder {
	return r.record("Order", column, ascending)
}

func (r *Recorder) Insert(data map[string]any) qb.Builder { return r.record("Insert", data) }
func (r *Recorder) Update(data map[string]any) qb.Builder { return r.record("Update", data) }
func (r *Recorder) Delete() qb.Builder                    { return r.record("Delete") }

func (r *Recorder) Execute(ctx context.Context) (qb.Result, error) {
	r.Executed++
	if r.err != nil {
		return qb.Result{}, r.err
	}
	return r.result, nil
}
