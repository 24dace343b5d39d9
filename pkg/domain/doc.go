/*
Package domain contains the core domain models of the stackcalc engine.

It defines the operand stack, the reversible Command abstraction and the errors and
events shared by every layer. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Stack: The ordered sequence of operands. Values are pushed and popped at the top only.
  - Command: A reversible unit of work (Execute, Undo, Redo) borrowing the Stack.
  - Snapshot: A persisted copy of a session's operand stack (values only, never history).
  - LifecycleHooks: Callbacks fired by the history manager for observability.
*/
package domain
