package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/campuskit/campus-insight/internal/ai"
	"github.com/campuskit/campus-insight/internal/ai/gemini"
	"github.com/campuskit/campus-insight/internal/campus"
	"github.com/campuskit/campus-insight/internal/filtering"
	"github.com/campuskit/campus-insight/internal/logger"
	"github.com/campuskit/campus-insight/internal/scoring"
	"github.com/campuskit/campus-insight/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShow            = "Show ranked matches"
	PromptNo              = "Exit"
	PromptReportByCompany = "Report by company"
	PromptSkillGaps       = "Show skill gaps"
	PromptMatchesToFile   = "Dump matches to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptShow, PromptReportByCompany, PromptSkillGaps, PromptMatchesToFile, PromptNo},
}

var matchCmd = &cobra.Command{
	Use:   "match <person-id>",
	Short: "Score a student against every posted opportunity and rank the results",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMatch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked report without an interactive prompt")
	matchCmd.Flags().IntP("top", "t", 0, "keep only the best N matches after filtering (0 keeps all)")
}

// runMatch is the main command for the cli.
func runMatch(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting campus-insight", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Data == nil || config.Data.Students == "" || config.Data.Opportunities == "" {
		logger.Fatal("fixture paths are required under data.students and data.opportunities")
	}

	roster, err := campus.LoadRoster(config.Data.Students)
	if err != nil {
		logger.Fatal("loading the roster", zap.Error(err))
	}

	board, err := campus.LoadBoard(config.Data.Opportunities)
	if err != nil {
		logger.Fatal("loading the opportunity board", zap.Error(err))
	}

	logger.Info("loaded fixtures",
		zap.Int("students", roster.Len()),
		zap.Int("opportunities", board.Len()),
	)

	rec, err := roster.Find(args[0])
	if err != nil {
		logger.Fatal("person not found",
			zap.String("person_id", args[0]),
			zap.Strings("known_ids", roster.IDs()),
		)
	}

	if board.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no opportunities posted"))
		return
	}

	results := &scoring.MatchResults{}
	for _, opp := range board.Items {
		result, err := scoring.ComputeOpportunityMatch(rec, opp)
		if err != nil {
			logger.Fatal("computing opportunity match",
				zap.String("opportunity_id", opp.ID),
				zap.Error(err),
			)
		}
		results.Items = append(results.Items, result)
	}

	results.Rank()

	filters := prepareFilters(ctx, config, rec, logger)

	filtered, err := filters.RunFilters(ctx, results)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	results = filtered

	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		results = results.TopN(top)
	}

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no matches left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		showMatches(logger, results)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of matches", zap.Int("count", results.Len()))

		if err := handleAction(action, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, results *scoring.MatchResults) error {
	switch action {
	case PromptShow:
		showMatches(logger, results)
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(results.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("matches count", results.Len()))
		return nil
	case PromptSkillGaps:
		for _, result := range results.Items {
			if len(result.SkillGaps) == 0 {
				continue
			}
			logger.Info("skill gaps",
				zap.String("opportunity_id", result.OpportunityID),
				zap.Strings("gaps", result.SkillGaps),
				zap.Strings("recommendations", result.Recommendations),
			)
		}
		return nil
	case PromptMatchesToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showMatches(logger *zap.Logger, results *scoring.MatchResults) {
	for _, result := range results.Items {
		fields := []zap.Field{
			zap.String("opportunity_id", result.OpportunityID),
			zap.Int("match_score", result.MatchScore),
			zap.Strings("match_reasons", result.MatchReasons),
			zap.Strings("skill_gaps", result.SkillGaps),
		}
		if result.Opportunity != nil {
			fields = append(fields,
				zap.String("title", result.Opportunity.Title),
				zap.String("company", result.Opportunity.Company),
			)
		}
		if result.Advice != nil && result.Advice.Summary != "" {
			fields = append(fields, zap.String("advice", result.Advice.Summary))
		}
		logger.Info("match", fields...)
	}
}

func prepareFilters(ctx context.Context, config *Config, rec *campus.StudentRecord, logger *zap.Logger) *filtering.Filtering {
	aiStep, err := prepareAIStep(ctx, config.AI, rec, logger)
	if err != nil {
		logger.Warn("skipping AI advice step", zap.Error(err))
		aiStep = filtering.NewAIAdvice(&filtering.AIAdviceConfig{Enabled: false}, nil)
	}

	band := scoring.BandAll
	minScore := 0
	maxGaps := -1
	if config.Filters != nil {
		if parsed, err := scoring.ParseBand(config.Filters.Band); err != nil {
			logger.Warn("ignoring invalid band from config", zap.Error(err))
		} else {
			band = parsed
		}
		minScore = config.Filters.MinScore
		if config.Filters.MaxGaps != nil {
			maxGaps = *config.Filters.MaxGaps
		}
	}

	steps := []filtering.Filter{
		filtering.NewBand(band),
		filtering.NewMinScore(minScore),
		filtering.NewMaxGaps(maxGaps),
		aiStep,
	}

	return filtering.New(steps, logger)
}

func prepareAIStep(ctx context.Context, config *AIConfig, rec *campus.StudentRecord, logger *zap.Logger) (filtering.Filter, error) {
	if config == nil || !config.Enabled {
		return filtering.NewAIAdvice(&filtering.AIAdviceConfig{Enabled: false}, nil), nil
	}

	if config.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when the ai step is enabled")
	}

	advisor, err := newAIAdvisor(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("building ai advisor: %w", err)
	}

	cfg := &filtering.AIAdviceConfig{
		Enabled:           config.Enabled,
		Provider:          config.Provider,
		MinimumConfidence: config.MinimumConfidence,
	}

	return filtering.NewAIAdvice(cfg, &filtering.AIAdviceDeps{
		Logger:  logger,
		Advisor: advisor,
		Student: rec,
	}), nil
}

func newAIAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Advisor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	}.Load()
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minConfidence := cfg.MinimumConfidence
	if minConfidence < 0 {
		minConfidence = 0
	}

	return gemini.NewAdvisor(generator, minConfidence, cfg.Gemini.MaxLogLength, logger), nil
}
