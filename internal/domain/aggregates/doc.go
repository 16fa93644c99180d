// Package aggregates holds the write-path error codes shared by repositories
// and services. A write that spans several tables runs in one transaction and
// reports failure through an *Error carrying one of these codes.
package aggregates
