package engine

import "fmt"

// QueryStatus distinguishes a value from its absence and from a failed query.
type QueryStatus int

const (
	QueryValue QueryStatus = iota
	QueryAbsent
	QueryFailed
)

func (s QueryStatus) String() string {
	switch s {
	case QueryValue:
		return "value"
	case QueryAbsent:
		return "absent"
	default:
		return "failed"
	}
}

// Query is the three-valued result of an oracle call.
type Query[T any] struct {
	Status QueryStatus
	Value  T
	Err    error
}

// Value wraps a present value.
func Value[T any](v T) Query[T] {
	return Query[T]{Status: QueryValue, Value: v}
}

// Absent reports that the oracle has nothing to return (e.g. no focused window).
func Absent[T any]() Query[T] {
	return Query[T]{Status: QueryAbsent}
}

// Failed reports that the underlying platform call failed.
func Failed[T any](err error) Query[T] {
	return Query[T]{Status: QueryFailed, Err: err}
}

// Ok reports whether the query produced a value.
func (q Query[T]) Ok() bool {
	return q.Status == QueryValue
}

func (q Query[T]) String() string {
	switch q.Status {
	case QueryValue:
		return fmt.Sprint(q.Value)
	case QueryAbsent:
		return "absent"
	default:
		return fmt.Sprintf("failed: %v", q.Err)
	}
}
