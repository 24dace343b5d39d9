/*
Package ports defines the driven ports (interfaces) for the stackcalc engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various user interfaces, script sources and storage backends.

# Key Interfaces

  - UserInterface: Receives the text messages posted by the dispatcher.
  - ScriptSource: Supplies the lines of a stored procedure (file, inline macro, etc).
  - SnapshotStore: Persists and loads operand stack snapshots per session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
