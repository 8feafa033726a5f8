// Package defs holds small cross-cutting types shared by every kernel
// package: the kernel-facing error code and the supervisor-call status
// discriminant that rides in x7 across the EL0/EL1 boundary.
package defs

/// Err_t is the kernel's error return type. Zero means success; a kernel
/// API never returns a Go error interface because the value must also be
/// representable as a single register when it crosses into user mode.
type Err_t int

const (
	/// ENOMEM indicates a frame, table, or buffer could not be allocated.
	ENOMEM Err_t = -1
	/// EFAULT indicates a virtual address has no mapped area (mapping fault).
	EFAULT Err_t = -2
	/// EINVAL indicates a malformed argument (bad seek target, overflowing
	/// sleep deadline, zero-length buffer, ...).
	EINVAL Err_t = -3
	/// ENOENT indicates a path component was not found.
	ENOENT Err_t = -4
	/// EIO indicates a block device read or write failed.
	EIO Err_t = -5
	/// ENOSPC indicates the bin allocator's linear cursor is exhausted.
	ENOSPC Err_t = -6
	/// ENOTDIR indicates a path component that is not a directory was
	/// traversed as one.
	ENOTDIR Err_t = -7
	/// ENOTSUP indicates an operation this read-only core does not
	/// implement (write, rename, create, remove).
	ENOTSUP Err_t = -8
	/// EBADF indicates a bad on-disk signature or boot indicator.
	EBADF Err_t = -9
)

/// String renders the error for diagnostics; it is never parsed.
func (e Err_t) String() string {
	switch e {
	case 0:
		return "success"
	case ENOMEM:
		return "out of memory"
	case EFAULT:
		return "mapping fault"
	case EINVAL:
		return "invalid argument"
	case ENOENT:
		return "no such entry"
	case EIO:
		return "i/o error"
	case ENOSPC:
		return "no space left"
	case ENOTDIR:
		return "not a directory"
	case ENOTSUP:
		return "not supported"
	case EBADF:
		return "bad on-disk format"
	default:
		return "unknown error"
	}
}

/// Ok reports whether e represents success.
func (e Err_t) Ok() bool {
	return e == 0
}
