/*
Package commands provides the built-in calculator commands.

Every command follows the same discipline: preconditions are checked and the result is
computed before the stack is touched, so a failing Execute never leaves a partial
mutation behind. Operands consumed and results produced are captured privately so that
Undo and Redo restore the stack exactly without recomputing.

RegisterCore installs the full set into a registry.
*/
package commands
