/*
Package session serves many calculators concurrently, one per session ID.

Each session's calculator is driven under a per-session lock (optionally backed by a
distributed lock) so that the stack and its history change atomically together.
The operand stack is persisted after every line; the undo/redo history lives only in
the process that served the session.
*/
package session
