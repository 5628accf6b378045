package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mcostache/hemeroteca/pkg/config"
	"github.com/mcostache/hemeroteca/pkg/preview"
	"github.com/mcostache/hemeroteca/pkg/search"
	"github.com/mcostache/hemeroteca/pkg/storage"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	magazineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 0, 0)

	hitStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	markStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the corpus from the command line",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "magazine",
				Usage: "Restrict the search to one magazine by name",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page to show",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per page",
				Value: 10,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("expected a search term")
			}
			term := strings.Join(c.Args().Slice(), " ")
			return searchCorpus(c.String("config"), term, c.String("magazine"), c.Int("page"), c.Int("limit"))
		},
	}
}

// searchCorpus runs one query and prints the styled results.
func searchCorpus(configPath, term, magazine string, page, limit int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close database: %v\n", err)
		}
	}()

	service := search.NewService(store, preview.New(store, cfg.PreviewRadius), search.Options{
		PerPage:          cfg.ResultsPerPage,
		CacheTTL:         cfg.CountCacheTTL.Duration,
		AcceptedSpecials: cfg.AcceptedSpecialCharacters,
	})

	results, err := service.Search(search.Params{
		Query:    term,
		Magazine: magazine,
		Page:     page,
		PerPage:  limit,
	})
	if err != nil {
		return err
	}

	fmt.Println(formatResults(results))
	return nil
}

// formatResults renders one page of results for the terminal, grouping
// hits by magazine.
func formatResults(results *search.Results) string {
	var output strings.Builder
	titler := cases.Title(language.Romanian)

	output.WriteString(titleStyle.Render(fmt.Sprintf("Results for %q", results.Term)))
	output.WriteString("\n")

	if results.TotalCount == 0 {
		output.WriteString(noDataStyle.Render("No pages matched."))
		output.WriteString("\n")
		return output.String()
	}

	current := ""
	for _, hit := range results.Hits {
		if hit.Magazine != current {
			current = hit.Magazine
			output.WriteString(magazineStyle.Render(titler.String(hit.Magazine)))
			output.WriteString("\n")
		}

		meta := metaStyle.Render(fmt.Sprintf("%s, no. %s, page %s", hit.Year, hit.Number, hit.Page))
		body := meta + "\n" + terminalPreview(hit.Preview)
		output.WriteString(hitStyle.Render(body))
		output.WriteString("\n")
	}

	summary := fmt.Sprintf("%d matching pages, page %d of %d", results.TotalCount, results.Page, results.TotalPages)
	if len(results.Facets) > 1 && results.Magazine == "" {
		parts := make([]string, len(results.Facets))
		for i, f := range results.Facets {
			parts[i] = fmt.Sprintf("%s (%d)", titler.String(f.Magazine), f.Count)
		}
		summary += "\n" + strings.Join(parts, ", ")
	}
	output.WriteString(summaryStyle.Render(summary))
	output.WriteString("\n")

	return output.String()
}

// terminalPreview converts the HTML preview markup to terminal styling.
func terminalPreview(html string) string {
	replacer := strings.NewReplacer(
		"<b><i>"+preview.Ellipsis+"</i></b>", metaStyle.Render(preview.Ellipsis),
		"</mark>", "\x00",
	)
	out := replacer.Replace(html)

	// Style each marked term.
	for {
		start := strings.Index(out, "<mark>")
		if start < 0 {
			break
		}
		end := strings.IndexByte(out[start:], 0)
		if end < 0 {
			break
		}
		term := out[start+len("<mark>") : start+end]
		out = out[:start] + markStyle.Render(term) + out[start+end+1:]
	}

	return strings.ReplaceAll(out, "\x00", "")
}
