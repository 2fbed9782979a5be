package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eatwhat/eatwhat/internal/logger"
	"github.com/eatwhat/eatwhat/internal/match"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match <request.json>",
	Short: "Run one recommendation from a match request file and pick a venue",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("first", "y", false, "pick the first candidate without asking")
	matchCmd.Flags().Duration("timeout", 90*time.Second, "overall timeout for the model call")
}

func runMatch(cmd *cobra.Command, requestFile string) {
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	data, err := os.ReadFile(requestFile)
	if err != nil {
		zlog.Fatal("reading the match request file", zap.Error(err))
	}

	var request match.Request
	if err := json.Unmarshal(data, &request); err != nil {
		zlog.Fatal("parsing the match request file", zap.Error(err))
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	generator, provider, err := newGenerator(ctx, config)
	if err != nil {
		zlog.Fatal("configuring the model provider", zap.Error(err))
	}

	zlog = logger.WithCommonFields(zlog, provider, generator.Model())

	maxLogLength := 0
	if config.AI != nil {
		maxLogLength = config.AI.MaxLogLength
	}

	pipeline := match.NewPipeline(generator, zlog, maxLogLength)

	rec, err := pipeline.Recommend(ctx, &request)
	if err != nil {
		zlog.Warn("pipeline failed, using the precomputed fallback", zap.Error(err))
		rec = match.Fallback()
	}

	fmt.Println(rec.MidpointAnalysis)

	index := 0
	if first, _ := cmd.Flags().GetBool("first"); !first {
		items := make([]string, 0, len(rec.Candidates))
		for _, candidate := range rec.Candidates {
			items = append(items, fmt.Sprintf(
				"%s | ¥%.0f | %s",
				candidate.VenueName,
				candidate.EstimatedCost,
				logger.TruncateForLog(candidate.RecommendationReason, 60),
			))
		}

		prompt := promptui.Select{
			Label: "Pick a venue",
			Items: items,
		}

		index, _, err = prompt.Run()
		if err != nil {
			zlog.Fatal("venue selection aborted", zap.Error(err))
		}
	}

	selected, _ := json.MarshalIndent(rec.Candidates[index], "", "  ")
	fmt.Println(string(selected))
}
