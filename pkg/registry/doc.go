/*
Package registry implements the name-to-factory command table.

A Registry is constructed explicitly and handed to the dispatcher; there is no
process-wide singleton. Every successful Allocate returns a fresh Command, so
captured undo state is never shared between two history entries.

	reg := registry.New()
	commands.RegisterCore(reg)
	reg.MustRegister("double", newDouble, "multiply the top of the stack by two")
*/
package registry
