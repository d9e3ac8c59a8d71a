// Package cmd implements the command-line interface for accelbuf. It provides
// tools to look at encoded streams and to compare the format with other
// serializers.
//
// The package is organized into several subpackages:
//
//   - inspect: Decode a raw stream into one line per field record
//   - encode: Encode a message given by flags
//   - bench: Benchmark all serializers on sample messages
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See accelbuf -help for a list of all commands.
package cmd
