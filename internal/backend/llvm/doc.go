// Package llvm builds LLVM IR for one function at a time on top of
// github.com/llir/llvm, keeping garbage-collected object references apart
// from raw pointers.
//
// Pointers live in one of two address spaces. Tracked pointers (address
// space 1) refer to objects the precise collector scans and relocates;
// untracked pointers (address space 0) refer to native memory. Every
// emission call validates operand types and reconciles address spaces, so
// an object read through a raw container comes back tracked.
//
// Violated invariants are bugs in the calling compiler. The builder panics
// with *InvariantError; Build and Builder.Run recover it into an error and
// a failed builder never yields a module.
package llvm
