package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/campuskit/campus-insight/internal/campus"
	"github.com/campuskit/campus-insight/internal/logger"
	"github.com/campuskit/campus-insight/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var healthCmd = &cobra.Command{
	Use:   "health [person-id]",
	Short: "Compute academic health assessments for one student or the whole roster",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runHealth(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().Bool("dump", false, "dump the assessments to a temporary file")
	healthCmd.Flags().Bool("at-risk-only", false, "report only students with medium or high risk")
}

func runHealth(cmd *cobra.Command, args []string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Data == nil || config.Data.Students == "" {
		logger.Fatal("a students fixture path is required under data.students")
	}

	roster, err := campus.LoadRoster(config.Data.Students)
	if err != nil {
		logger.Fatal("loading the roster", zap.Error(err))
	}

	logger.Info("loaded the roster", zap.Int("count", roster.Len()))

	engine, err := scoring.NewHealthEngine(config.healthWeights())
	if err != nil {
		logger.Fatal("building the health engine", zap.Error(err))
	}

	records := roster.Items
	if len(args) == 1 {
		rec, err := roster.Find(args[0])
		if err != nil {
			logger.Fatal("person not found",
				zap.String("person_id", args[0]),
				zap.Strings("known_ids", roster.IDs()),
			)
		}
		records = []*campus.StudentRecord{rec}
	}

	assessments := &scoring.HealthAssessments{}
	for _, rec := range records {
		assessment, err := engine.Compute(rec)
		if err != nil {
			logger.Fatal("computing academic health",
				zap.String("person_id", rec.PersonID),
				zap.Error(err),
			)
		}
		assessments.Items = append(assessments.Items, assessment)
	}

	if cmd.Flag("at-risk-only").Value.String() == "true" {
		assessments = assessments.AtRisk()
	}

	for risk, count := range assessments.CountByRisk() {
		logger.Info("risk tier summary",
			zap.String("risk_level", string(risk)),
			zap.Int("students", count),
		)
	}

	for _, assessment := range assessments.Items {
		logger.Info("academic health",
			zap.String("person_id", assessment.PersonID),
			zap.Int("overall_score", assessment.OverallScore),
			zap.String("risk_level", string(assessment.RiskLevel)),
			zap.Strings("risk_factors", assessment.RiskFactors),
			zap.Strings("suggestions", assessment.Suggestions),
		)
	}

	if cmd.Flag("dump").Value.String() == "true" {
		filename, err := assessments.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dumping assessments to file", zap.Error(err))
		}
		logger.Info("dumped assessments to file", zap.String("filename", filename))
	}

	if viper.GetBool("debug") {
		pretty, _ := json.MarshalIndent(assessments, "", "  ")
		logger.Debug(fmt.Sprintf("full assessments: \n%s", pretty))
	}
}
