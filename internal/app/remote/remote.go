// Package remote models the lifecycle of a value fetched from the products
// API, so list, detail and form flows share one loading/ready/failed shape.
package remote

import (
	"context"
	"fmt"
)

// State is the lifecycle position of a Data value.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Data holds a fetched value together with its state. The zero value is Idle.
type Data[T any] struct {
	state State
	value T
	err   error
}

func (d Data[T]) State() State { return d.state }

// Value returns the last successfully loaded value and whether the data is Ready.
func (d Data[T]) Value() (T, bool) {
	return d.value, d.state == Ready
}

// Err is the failure of the last load, nil unless Failed.
func (d Data[T]) Err() error { return d.err }

func (d Data[T]) IsLoading() bool { return d.state == Loading }

// Start marks the data as Loading, keeping the previous value for display.
func (d *Data[T]) Start() {
	d.state = Loading
	d.err = nil
}

func (d *Data[T]) Succeed(v T) {
	d.state = Ready
	d.value = v
	d.err = nil
}

func (d *Data[T]) Fail(err error) {
	d.state = Failed
	d.err = err
}

// Load runs fetch and records its outcome.
func (d *Data[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	d.Start()
	v, err := fetch(ctx)
	if err != nil {
		d.Fail(err)
		return err
	}
	d.Succeed(v)
	return nil
}

// WithValue returns a copy of d holding v, keeping its state and error.
func (d Data[T]) WithValue(v T) Data[T] {
	d.value = v
	return d
}

// ReadyData returns Data already holding v.
func ReadyData[T any](v T) Data[T] {
	return Data[T]{state: Ready, value: v}
}
