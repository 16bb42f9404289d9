// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package feed defines the boundary contracts the chat surface consumes.

The rendering engine does not own transport, persistence, or identity. It
consumes four collaborators through the interfaces in this package:

  - Feed: the reactive, ordered message window (distinguishes "not loaded
    yet" from "confirmed empty")
  - Dispatcher: the async action functions (send, edit, react, pin, ...);
    rejections are non-fatal to the caller
  - AttachmentResolver: storage handle -> URL lookup, which may transiently
    return nothing while an upload is still resolving
  - UserCache: lazily-populated user display data

The Memory* implementations back the local demo wiring in main.go and the
package tests. They are deliberately simple: a mutex, slices, and a
subscriber list notified synchronously on every change.
*/
package feed
