/*
Package runner implements the read-eval-print loop around a Calculator.

The runner reads one line at a time from an IOHandler, feeds it to the calculator
and hands the resulting stack and messages back to the handler. When a store and a
session ID are configured the operand stack is restored before the first line and
saved after every line.

# Key Components

  - Runner: the loop itself, stopped by EOF, "exit"/"quit" or an OS signal.
  - TextHandler: interactive terminal I/O with a prompt and a stack display.
  - JSONHandler: newline-delimited JSON for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(store),
		runner.WithSessionID("work"),
	)

	if err := r.Run(ctx, calc); err != nil {
		log.Fatal(err)
	}
*/
package runner
