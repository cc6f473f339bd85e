// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret provides a memory-safe buffer for sensitive data such
// as access tokens and API keys, and the writer for the restricted
// environment file handed to scheduled jobs.
//
// [Buffer] allocates memory outside the Go heap via mmap(MAP_ANONYMOUS),
// locks it into physical RAM via mlock (preventing swap), and marks it
// excluded from core dumps via madvise(MADV_DONTDUMP). On Close, the
// memory is zeroed, unlocked, and unmapped. Because the memory lives
// outside the Go heap, the garbage collector cannot copy or relocate
// it, guaranteeing secret material does not persist after release.
//
// [ReadFromPath] backs the *_FILE environment indirection: a credential
// mounted as a file (the usual container secret mechanism) is read into
// a Buffer rather than an ordinary heap string.
//
// [WriteEnvFile] produces the digest job's side environment file: a
// 0600, atomically-written, shell-sourceable file carrying exactly the
// variables the job needs. Credentials are never written anywhere else
// on the volume.
//
// Depends on golang.org/x/sys/unix and kballard/go-shellquote. No
// steward-internal dependencies.
package secret
