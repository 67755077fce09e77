// Package textutil provides the small text transforms shared by
// archive naming and the identify report: filesystem-safe archive
// names and human readable titles derived from labels or file stems.
package textutil
