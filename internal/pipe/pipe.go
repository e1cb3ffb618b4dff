// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package pipe provides a simple way of applying transforms to a channel.
package pipe

import "sync"

// Pipe constructs a series of executions.
type Pipe[T any] struct {
	Width int
	steps []<-chan T
}

// From creates a Pipe from the given input channel.
func From[T any](in <-chan T) Pipe[T] {
	return Pipe[T]{steps: []<-chan T{in}, Width: cap(in)}
}

// FromSlice creates a Pipe fed by the elements of s.
func FromSlice[T any](s []T) Pipe[T] {
	in := make(chan T, len(s))
	for _, t := range s {
		in <- t
	}
	close(in)
	return From(in)
}

// DoFor adds a pipeline combinator.
// NOTE: fn is responsible for closing "out".
func (p Pipe[T]) DoFor(fn func(in <-chan T, out chan<- T)) Pipe[T] {
	next := make(chan T, p.Width)
	go fn(p.steps[len(p.steps)-1], next)
	p.steps = append(p.steps, next)
	return p
}

// Do adds a per-item combinator.
func (p Pipe[T]) Do(fn func(in T, out chan<- T)) Pipe[T] {
	return p.DoFor(func(in <-chan T, out chan<- T) {
		defer close(out)
		for t := range in {
			fn(t, out)
		}
	})
}

// ParDo adds a per-item combinator executed by width concurrent workers.
func (p Pipe[T]) ParDo(width int, fn func(in T, out chan<- T)) Pipe[T] {
	return p.DoFor(func(in <-chan T, out chan<- T) {
		defer close(out)
		fanOut(width, in, out, fn)
	})
}

// Out produces the final output channel.
func (p Pipe[T]) Out() <-chan T {
	return p.steps[len(p.steps)-1]
}

// IntoFor takes the input pipe and transforms it to another type.
func IntoFor[T, S any](in Pipe[T], fn func(in <-chan T, out chan<- S)) Pipe[S] {
	next := make(chan S, in.Width)
	go fn(in.steps[len(in.steps)-1], next)
	out := From(next)
	return out
}

// Into takes the input pipe and transforms it to another type.
func Into[T, S any](in Pipe[T], fn func(in T, out chan<- S)) Pipe[S] {
	return IntoFor(in, func(in <-chan T, out chan<- S) {
		defer close(out)
		for t := range in {
			fn(t, out)
		}
	})
}

// ParInto takes the input pipe and transforms it to another type using width
// concurrent workers. Output order is not preserved.
func ParInto[T, S any](width int, in Pipe[T], fn func(in T, out chan<- S)) Pipe[S] {
	return IntoFor(in, func(in <-chan T, out chan<- S) {
		defer close(out)
		fanOut(width, in, out, fn)
	})
}

func fanOut[T, S any](width int, in <-chan T, out chan<- S, fn func(in T, out chan<- S)) {
	var wg sync.WaitGroup
	wg.Add(width)
	for i := 0; i < width; i++ {
		go func() {
			defer wg.Done()
			for t := range in {
				fn(t, out)
			}
		}()
	}
	wg.Wait()
}
