// Package partition splits a validated chunk of images across monitor plans.
package partition
