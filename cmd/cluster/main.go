package main

import (
	"fmt"
	"os"

	"github.com/drakos74/free-cluster/infra/config"
	"github.com/drakos74/free-cluster/internal/analysis"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	options = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster web usage vectors and evaluate prefetching",
	Long: `Cluster trains k-means or kohonen clusters on usage vectors
and evaluates how well the cluster prototypes predict the aligned test set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zerolog.SetGlobalLevel(options.Level())
		return nil
	},
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "json or yaml config file")
	flags.StringVar(&options.Train, "train", "", "training dataset (.csv or .json)")
	flags.StringVar(&options.Test, "test", "", "index aligned test dataset (.csv or .json)")
	flags.Int64Var(&options.Seed, "seed", 0, "random seed, 0 for a time based one")
	flags.Float64Var(&options.PrefetchThreshold, "threshold", ml.DefaultPrefetchThreshold, "prefetch threshold")
	flags.BoolVar(&options.Sweep, "sweep", false, "evaluate the thresholds 0.1 ... 1.0")
	flags.StringVar(&options.Output.Dir, "out", "", "output directory for reports and run history")
	flags.StringVar(&options.Output.MetricsFile, "metrics", "", "prometheus textfile for the run metrics")
	flags.BoolVar(&options.Output.ShowMembers, "members", false, "print the cluster members")
	flags.BoolVar(&options.Output.ShowPrototypes, "prototypes", false, "print the cluster prototypes")
	flags.StringVar(&options.LogLevel, "log-level", zerolog.InfoLevel.String(), "log level")

	rootCmd.AddCommand(kmeansCmd())
	rootCmd.AddCommand(kohonenCmd())
	rootCmd.AddCommand(referenceCmd())
	rootCmd.AddCommand(bayesCmd())
	rootCmd.AddCommand(historyCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

// load merges the config file with the flags that were set explicitly.
func load(cmd *cobra.Command, algorithm string) (config.Config, error) {
	if cfgFile == "" {
		cfg := options
		cfg.Algorithm = algorithm
		cfg.Defaults()
		return cfg, nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, err
	}
	cfg.Algorithm = algorithm
	flags := cmd.Flags()
	override := map[string]func(){
		"train":          func() { cfg.Train = options.Train },
		"test":           func() { cfg.Test = options.Test },
		"seed":           func() { cfg.Seed, cfg.KMeans.Seed, cfg.Kohonen.Seed = options.Seed, options.Seed, options.Seed },
		"threshold":      func() { cfg.PrefetchThreshold = options.PrefetchThreshold },
		"sweep":          func() { cfg.Sweep = options.Sweep },
		"out":            func() { cfg.Output.Dir = options.Output.Dir },
		"metrics":        func() { cfg.Output.MetricsFile = options.Output.MetricsFile },
		"members":        func() { cfg.Output.ShowMembers = options.Output.ShowMembers },
		"prototypes":     func() { cfg.Output.ShowPrototypes = options.Output.ShowPrototypes },
		"log-level":      func() { cfg.LogLevel = options.LogLevel },
		"k":              func() { cfg.KMeans.K = options.KMeans.K },
		"max-iterations": func() { cfg.KMeans.MaxIterations = options.KMeans.MaxIterations },
		"n":              func() { cfg.Kohonen.N = options.Kohonen.N },
		"epochs":         func() { cfg.Kohonen.Epochs = options.Kohonen.Epochs },
		"learning-rate":  func() { cfg.Kohonen.LearningRate = options.Kohonen.LearningRate },
		"train-dir":      func() { cfg.Bayes.Train = options.Bayes.Train },
		"test-dir":       func() { cfg.Bayes.Test = options.Bayes.Test },
		"epsilon":        func() { cfg.Bayes.Epsilon = options.Bayes.Epsilon },
	}
	for name, apply := range override {
		if flags.Changed(name) {
			apply()
		}
	}
	zerolog.SetGlobalLevel(cfg.Level())
	return cfg, nil
}

func run(cmd *cobra.Command, algorithm string) error {
	cfg, err := load(cmd, algorithm)
	if err != nil {
		return err
	}
	runner := analysis.NewRunner(cfg).WithOutput(cmd.OutOrStdout())
	_, err = runner.Execute()
	return err
}

func kmeansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kmeans",
		Short: "Partition the training set with k-means",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ml.KMeansName)
		},
	}
	cmd.Flags().IntVar(&options.KMeans.K, "k", config.DefaultK, "number of clusters")
	cmd.Flags().IntVar(&options.KMeans.MaxIterations, "max-iterations", ml.DefaultMaxIterations, "maximum reassignment passes")
	return cmd
}

func kohonenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kohonen",
		Short: "Train an n x n self organizing map",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ml.KohonenName)
		},
	}
	cmd.Flags().IntVar(&options.Kohonen.N, "n", config.DefaultN, "grid size")
	cmd.Flags().IntVar(&options.Kohonen.Epochs, "epochs", config.DefaultEpochs, "training epochs")
	cmd.Flags().Float64Var(&options.Kohonen.LearningRate, "learning-rate", ml.DefaultLearningRate, "initial learning rate")
	return cmd
}

func referenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Partition the training set with the goml k-means baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, ml.ReferenceName)
		},
	}
	cmd.Flags().IntVar(&options.KMeans.K, "k", config.DefaultK, "number of clusters")
	cmd.Flags().IntVar(&options.KMeans.MaxIterations, "max-iterations", ml.DefaultMaxIterations, "maximum iterations")
	return cmd
}

func bayesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bayespam",
		Short: "Train and evaluate the naive bayes spam classifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, ml.KMeansName)
			if err != nil {
				return err
			}
			if cfg.Bayes.Train == "" {
				return fmt.Errorf("missing --train-dir")
			}
			e, err := analysis.Bayes(cfg.Bayes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regular : %d accepted, %d rejected\n", e.Regular.Regular, e.Regular.Spam)
			fmt.Fprintf(cmd.OutOrStdout(), "spam    : %d rejected, %d accepted\n", e.Spam.Spam, e.Spam.Regular)
			fmt.Fprintf(cmd.OutOrStdout(), "FAR %.4f FRR %.4f\n", e.FAR, e.FRR)
			return nil
		},
	}
	cmd.Flags().StringVar(&options.Bayes.Train, "train-dir", "", "directory with the regular and spam training messages")
	cmd.Flags().StringVar(&options.Bayes.Test, "test-dir", "", "directory with the regular and spam test messages")
	cmd.Flags().Float64Var(&options.Bayes.Epsilon, "epsilon", 1, "smoothing numerator for unseen words")
	return cmd
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [algorithm]",
		Short: "List the previous runs of an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd, args[0])
			if err != nil {
				return err
			}
			summaries, err := analysis.NewRunner(cfg).History(args[0])
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s clusters=%d converged=%v threshold=%.2f\n",
					s.Time.Format("2006-01-02 15:04:05"), s.Run, s.Clusters, s.Converged, s.Threshold)
			}
			return nil
		},
	}
}
