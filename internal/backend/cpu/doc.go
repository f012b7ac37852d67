// Package cpu implements the pure-Go CPU backend for the Mimic
// analysis toolkit.
//
// The analyzer only ever runs single dry forward passes to recover
// tensor shapes, so the implementations favor clarity over throughput:
// direct loops, no im2col, no vectorization. Batch*channel grids are
// spread across worker goroutines to keep large inputs tractable.
package cpu
