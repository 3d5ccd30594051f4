package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "FinSight market analytics engine",
	Long: `FinSight computes technical indicators, risk metrics, ensemble
predictions and news sentiment over OHLCV bars.

Run the HTTP service with "finsight serve", or score a bar file offline with
"finsight analyze".`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
