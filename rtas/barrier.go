//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package rtas

import "github.com/markkurossi/rtas/parallel"

func task(name string, fn func() error) parallel.Task {
	return parallel.Task{Name: name, Fn: fn}
}

func parallelDo(tasks ...parallel.Task) error {
	return parallel.Run(tasks...)
}
