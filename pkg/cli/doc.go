/*
Package cli provides command-line interface utilities for the relay command.

The cli package includes output formatters, a progress reporter, and signal
helpers shared by the relay subcommands.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

For operations that walk a known number of items, such as probing every
configured provider:

	progress := cli.NewProgressReporter(os.Stdout)
	progress.Start(total)
	for i := 0; i < total; i++ {
		// Do work
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
