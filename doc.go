/*
Package stackcalc is a stack-based Reverse Polish Notation calculator core.

Input arrives one token per line. A token is a number (pushed onto the stack), one of
the keywords undo, redo or help, a stored procedure invocation proc:<file>, or the name
of a registered command. Anything else is reported as "Command X is not a known command".

# History

Every command that executes successfully becomes one entry of a linear undo history.
Undo moves the newest entry to the redo history; executing anything new discards the
redo history. A failed command leaves both the stack and the history untouched.

# Stored procedures

proc:<file> runs a script, one token per line, as a single undoable command. If any
line fails, everything the script already did is rolled back and the stack is exactly
as it was before the invocation. Procedures may call other procedures.

# Usage

	calc, err := stackcalc.New(stackcalc.WithScriptDir("./procs"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	for _, line := range []string{"2", "3", "+"} {
		for _, msg := range calc.Eval(ctx, line) {
			fmt.Println(msg)
		}
	}
	fmt.Println(calc.Stack()) // [5]

Commands are looked up in a [registry.Registry]; custom commands implement
[domain.Command] and are added with WithRegistry. Macros defined in YAML (see
pkg/adapters/macros) are registered with WithMacros.
*/
package stackcalc
