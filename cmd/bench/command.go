package bench

import (
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/accelbuf/cmd/util"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/ValentinKolb/accelbuf/lib/serializer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// BenchCmd compares all serializers on sample messages
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Benchmark all serializers on sample messages",
		Args:    cobra.NoArgs,
		PreRunE: processBenchConfig,
		RunE:    run,
	}
	benchValueSize = 1024
	benchRounds    = 100
	benchSkip      = make([]string, 0)
)

func init() {
	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Serializers or operations to skip (comma separated - e.g. gob,deserialize)"))
	key = "value-size"
	BenchCmd.Flags().Int(key, 1024, util.WrapString("How large the value of the large sample message should be (in bytes)"))
	key = "rounds"
	BenchCmd.Flags().Int(key, 100, util.WrapString("How many timed rounds per sample message to use for the latency percentiles"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics"
	BenchCmd.Flags().Bool(key, false, util.WrapString("Print the serializer metrics in Prometheus text format after the run"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	benchValueSize = viper.GetInt("value-size")
	benchRounds = viper.GetInt("rounds")
	benchSkip = benchSkip[:0]
	for _, s := range strings.Split(viper.GetString("skip"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			benchSkip = append(benchSkip, s)
		}
	}

	if benchValueSize < 0 {
		return fmt.Errorf("value-size must not be negative, got %d", benchValueSize)
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := util.InitLogging()
	if err != nil {
		return err
	}

	contract := util.GetContract()
	if err := contract.Validate(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Benchmark of all serializers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, contract.String())
	fmt.Fprintf(w, "  %-22s: %d bytes\n", "Large Value Size", benchValueSize)
	fmt.Fprintln(w)

	logger.Debug("starting benchmark", zap.Strings("serializers", serializer.Names()), zap.Strings("skip", benchSkip))

	r := newRunner(contract, benchValueSize, benchRounds, benchSkip)
	results, err := r.run(serializer.Names(), func(res result) { printResult(w, res) })
	if err != nil {
		return err
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Fprintf(w, "\nExporting results to CSV: %s\n", csvPath)
		file, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %v", err)
		}
		defer file.Close()
		if err := writeResultsToCSV(file, results, contract); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Fprintln(w, "Export complete")
	}

	if viper.GetBool("metrics") {
		fmt.Fprintln(w)
		proxy.WriteMetrics(w)
	}

	return nil
}
