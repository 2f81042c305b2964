package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aeo-analytics/models"
	"aeo-analytics/services"
	"aeo-analytics/storage"
)

var (
	reportFormat  string
	reportNoColor bool

	predictCategory  string
	predictProducts  int
	predictCitations int

	rankIn  string
	rankOut string

	citeIn  string
	citeOut string

	importRanking   string
	importDetails   string
	importCitations string
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Print one report",
	Long: "Print one report as JSON. all-insights can also be printed as a text summary.\n\nReports: " +
		strings.Join(services.ReportNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast the focal source's rank in a category",
	RunE:  runPredict,
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Assign dense per-category ranks to a scores table",
	RunE:  runRank,
}

var extractCmd = &cobra.Command{
	Use:   "extract-citations",
	Short: "Build the citation table from a product-detail table with answer text",
	RunE:  runExtractCitations,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load table files into PostgreSQL",
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(reportCmd, predictCmd, rankCmd, extractCmd, importCmd)

	reportCmd.Flags().StringVar(&reportFormat, "format", "json", "output format: json or text (all-insights only)")
	reportCmd.Flags().BoolVar(&reportNoColor, "no-color", false, "disable ANSI colors in text output")

	predictCmd.Flags().StringVar(&predictCategory, "category", "", "category to forecast")
	predictCmd.Flags().IntVar(&predictProducts, "products", 5, "products to add")
	predictCmd.Flags().IntVar(&predictCitations, "citations", 10, "citations to gain")
	_ = predictCmd.MarkFlagRequired("category")

	rankCmd.Flags().StringVar(&rankIn, "in", "", "scores table (.csv or .xlsx)")
	rankCmd.Flags().StringVar(&rankOut, "out", "", "ranked table to write (.csv or .xlsx)")
	_ = rankCmd.MarkFlagRequired("in")
	_ = rankCmd.MarkFlagRequired("out")

	extractCmd.Flags().StringVar(&citeIn, "in", "", "product-detail table with a response column")
	extractCmd.Flags().StringVar(&citeOut, "out", "", "citation table to write (.csv or .xlsx)")
	_ = extractCmd.MarkFlagRequired("in")
	_ = extractCmd.MarkFlagRequired("out")

	importCmd.Flags().StringVar(&importRanking, "ranking", "", "ranking table file")
	importCmd.Flags().StringVar(&importDetails, "product-detail", "", "product-detail table file")
	importCmd.Flags().StringVar(&importCitations, "citation", "", "citation table file")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}

	name := args[0]
	if reportFormat == "text" {
		if name != "all-insights" {
			return fmt.Errorf("text output is only available for all-insights")
		}
		bundle, err := engine.InsightBundle(cmd.Context())
		if err != nil {
			return err
		}
		services.NewReportPrinter(os.Stdout, a.cfg.Analysis.FocalSource, !reportNoColor).Print(bundle)
		return nil
	}

	v, err := engine.Report(cmd.Context(), name)
	if err != nil {
		return err
	}
	return printJSON(v)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	engine, err := a.engine(cmd.Context())
	if err != nil {
		return err
	}
	p, err := engine.Predict(cmd.Context(), services.Scenario{
		Category:        predictCategory,
		ProductsToAdd:   predictProducts,
		CitationsTarget: predictCitations,
	})
	if err != nil {
		return err
	}
	return printJSON(p)
}

func runRank(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in, err := storage.ReadPath(models.TableRanking, rankIn)
	if err != nil {
		return err
	}
	ranked, err := services.NewCleaner(a.logger).RankTable(in)
	if err != nil {
		return err
	}
	if err := storage.WritePath(cmd.Context(), rankOut, ranked); err != nil {
		return err
	}
	a.logger.Info("Ranked table saved to %s", rankOut)
	return nil
}

func runExtractCitations(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	in, err := storage.ReadPath(models.TableProductDetail, citeIn)
	if err != nil {
		return err
	}
	out, err := services.NewCleaner(a.logger).ExtractCitations(in, a.cfg.Analysis.FocalSource)
	if err != nil {
		return err
	}
	if err := storage.WritePath(cmd.Context(), citeOut, out); err != nil {
		return err
	}
	a.logger.Info("Citation table saved to %s (%d rows)", citeOut, len(out.Rows))
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	files := []struct{ kind, path string }{
		{models.TableRanking, importRanking},
		{models.TableProductDetail, importDetails},
		{models.TableCitation, importCitations},
	}

	store, err := a.postgres(cmd.Context())
	if err != nil {
		return err
	}

	imported := 0
	for _, f := range files {
		if f.path == "" {
			continue
		}
		t, err := storage.ReadPath(f.kind, f.path)
		if err != nil {
			return err
		}
		if err := store.WriteTable(cmd.Context(), t); err != nil {
			return fmt.Errorf("import %s: %w", f.kind, err)
		}
		a.logger.Info("Imported %d %s rows from %s", len(t.Rows), f.kind, f.path)
		imported++
	}
	if imported == 0 {
		return fmt.Errorf("nothing to import: pass at least one of --ranking, --product-detail, --citation")
	}
	return nil
}
